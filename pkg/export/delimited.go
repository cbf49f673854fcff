package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/tablens/tablens/pkg/frame"
)

// WriteCSV writes the frame as delimited text. Null cells become empty
// fields, which read back as nulls.
func WriteCSV(ctx context.Context, fr *frame.Frame, w io.Writer, opts Options) error {
	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter()

	if err := cw.Write(fr.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < fr.NumRows(); i++ {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		if err := cw.Write(fr.Row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
		opts.progress(i + 1)
	}

	cw.Flush()
	return cw.Error()
}
