package ingest

import (
	"context"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

// loadColumnar reads Parquet files through the Arrow reader. Declared
// column types carry into the frame; no inference and no row skipping.
func (e *Engine) loadColumnar(ctx context.Context) (*frame.Frame, int, error) {
	f, err := os.Open(e.src.Path)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatColumnar.String(), err).
			WithContext("path", e.src.Path)
	}
	defer f.Close()

	pqReader, err := file.NewParquetReader(f)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatColumnar.String(), err).
			WithContext("path", e.src.Path)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{
		Parallel:  true,
		BatchSize: 64 * 1024,
	}, memory.DefaultAllocator)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatColumnar.String(), err).
			WithContext("path", e.src.Path)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatColumnar.String(), err).
			WithContext("path", e.src.Path)
	}
	defer table.Release()

	schema := table.Schema()
	names := make([]string, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		names[i] = schema.Field(i).Name
	}
	names = normalizeColumnNames(names)

	builders := make([]*frame.Builder, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		builders[i] = frame.NewBuilder(names[i], frameType(schema.Field(i).Type))
	}

	tr := array.NewTableReader(table, 8192)
	defer tr.Release()

	for tr.Next() {
		select {
		case <-ctx.Done():
			return nil, 0, tlerrors.ContextCanceled("load columnar")
		default:
		}

		rec := tr.Record()
		for ci := 0; ci < int(rec.NumCols()); ci++ {
			appendArrowColumn(builders[ci], rec.Column(ci))
		}
	}

	cols := make([]*frame.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	fr, err := frame.New(cols...)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatColumnar.String(), err)
	}
	return fr, 0, nil
}

// frameType maps an Arrow type to the frame type that preserves it.
func frameType(dt arrow.DataType) frame.Type {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return frame.TypeInt
	case arrow.FLOAT32, arrow.FLOAT64:
		return frame.TypeFloat
	case arrow.BOOL:
		return frame.TypeBool
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return frame.TypeTime
	default:
		return frame.TypeString
	}
}

func appendArrowColumn(b *frame.Builder, col arrow.Array) {
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			b.AppendNull()
			continue
		}

		switch a := col.(type) {
		case *array.Int8:
			b.AppendInt(int64(a.Value(i)))
		case *array.Int16:
			b.AppendInt(int64(a.Value(i)))
		case *array.Int32:
			b.AppendInt(int64(a.Value(i)))
		case *array.Int64:
			b.AppendInt(a.Value(i))
		case *array.Uint8:
			b.AppendInt(int64(a.Value(i)))
		case *array.Uint16:
			b.AppendInt(int64(a.Value(i)))
		case *array.Uint32:
			b.AppendInt(int64(a.Value(i)))
		case *array.Uint64:
			b.AppendInt(int64(a.Value(i)))
		case *array.Float32:
			b.AppendFloat(float64(a.Value(i)))
		case *array.Float64:
			b.AppendFloat(a.Value(i))
		case *array.Boolean:
			b.AppendBool(a.Value(i))
		case *array.Timestamp:
			tt := a.DataType().(*arrow.TimestampType)
			b.AppendTime(a.Value(i).ToTime(tt.Unit).UTC())
		case *array.Date32:
			b.AppendTime(a.Value(i).ToTime().UTC())
		case *array.Date64:
			b.AppendTime(a.Value(i).ToTime().UTC())
		case *array.String:
			b.AppendString(a.Value(i))
		case *array.LargeString:
			b.AppendString(a.Value(i))
		default:
			b.AppendString(col.ValueStr(i))
		}
	}
}
