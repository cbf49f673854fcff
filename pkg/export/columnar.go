package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

const parquetBatchSize = 8192

// WriteParquet writes the frame as Snappy-compressed Parquet through the
// Arrow writer, preserving declared column types. The writer owns the
// file: pqarrow's Close closes the underlying sink, so the file is not
// routed through writeThrough like the stream formats.
func WriteParquet(ctx context.Context, fr *frame.Frame, path string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return tlerrors.ExportFailed(path, err)
	}
	if err := writeParquet(ctx, fr, f, opts); err != nil {
		f.Close()
		os.Remove(path)
		return tlerrors.ExportFailed(path, err)
	}
	return nil
}

// writeParquet streams record batches to w. On success the parquet
// writer's Close has already closed w when w is a Closer.
func writeParquet(ctx context.Context, fr *frame.Frame, w io.Writer, opts Options) error {
	schema := arrowSchema(fr)

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(true),
		parquet.WithDataPageSize(1024*1024),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
	)

	writer, err := pqarrow.NewFileWriter(schema, w, writerProps, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	alloc := memory.NewGoAllocator()
	total := fr.NumRows()

	for start := 0; start < total || start == 0; start += parquetBatchSize {
		select {
		case <-ctx.Done():
			writer.Close()
			return ctx.Err()
		default:
		}

		end := start + parquetBatchSize
		if end > total {
			end = total
		}

		rec := buildRecord(fr, schema, alloc, start, end)
		err := writer.Write(rec)
		rec.Release()
		if err != nil {
			writer.Close()
			return fmt.Errorf("failed to write record batch: %w", err)
		}
		opts.progress(end)

		if total == 0 {
			break
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func arrowSchema(fr *frame.Frame) *arrow.Schema {
	fields := make([]arrow.Field, fr.NumCols())
	for i := 0; i < fr.NumCols(); i++ {
		col := fr.ColumnAt(i)
		fields[i] = arrow.Field{
			Name:     col.Name(),
			Type:     arrowType(col.Type()),
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(t frame.Type) arrow.DataType {
	switch t {
	case frame.TypeInt:
		return arrow.PrimitiveTypes.Int64
	case frame.TypeFloat:
		return arrow.PrimitiveTypes.Float64
	case frame.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case frame.TypeTime:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

func buildRecord(fr *frame.Frame, schema *arrow.Schema, alloc memory.Allocator, start, end int) arrow.Record {
	arrays := make([]arrow.Array, fr.NumCols())

	for ci := 0; ci < fr.NumCols(); ci++ {
		col := fr.ColumnAt(ci)

		switch col.Type() {
		case frame.TypeInt:
			b := array.NewInt64Builder(alloc)
			for i := start; i < end; i++ {
				if v, ok := col.Int(i); ok {
					b.Append(v)
				} else {
					b.AppendNull()
				}
			}
			arrays[ci] = b.NewArray()
			b.Release()
		case frame.TypeFloat:
			b := array.NewFloat64Builder(alloc)
			for i := start; i < end; i++ {
				if v, ok := col.Float(i); ok {
					b.Append(v)
				} else {
					b.AppendNull()
				}
			}
			arrays[ci] = b.NewArray()
			b.Release()
		case frame.TypeBool:
			b := array.NewBooleanBuilder(alloc)
			for i := start; i < end; i++ {
				if v, ok := col.Bool(i); ok {
					b.Append(v)
				} else {
					b.AppendNull()
				}
			}
			arrays[ci] = b.NewArray()
			b.Release()
		case frame.TypeTime:
			b := array.NewTimestampBuilder(alloc, &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"})
			for i := start; i < end; i++ {
				if v, ok := col.Time(i); ok {
					b.Append(arrow.Timestamp(v.UnixMicro()))
				} else {
					b.AppendNull()
				}
			}
			arrays[ci] = b.NewArray()
			b.Release()
		default:
			b := array.NewStringBuilder(alloc)
			for i := start; i < end; i++ {
				if col.IsNull(i) {
					b.AppendNull()
				} else {
					b.Append(col.Format(i))
				}
			}
			arrays[ci] = b.NewArray()
			b.Release()
		}
	}

	rec := array.NewRecord(schema, arrays, int64(end-start))
	for _, a := range arrays {
		a.Release()
	}
	return rec
}
