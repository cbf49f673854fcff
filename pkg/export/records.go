package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tablens/tablens/pkg/frame"
)

// WriteJSON writes the frame as a JSON array of objects. Null cells become
// JSON nulls; key order follows encoding/json's sorted map keys, matching
// the sorted-union column order the records loader produces.
func WriteJSON(ctx context.Context, fr *frame.Frame, w io.Writer, opts Options) error {
	names := fr.Names()

	records := make([]map[string]interface{}, 0, fr.NumRows())
	for i := 0; i < fr.NumRows(); i++ {
		if i%4096 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		rec := make(map[string]interface{}, len(names))
		for j, name := range names {
			rec[name] = fr.ColumnAt(j).Value(i)
		}
		records = append(records, rec)
		opts.progress(i + 1)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
