package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

// WriteXLSX writes the frame as a workbook with one sheet. Timestamps are
// written as their display text so they read back without date-serial
// conversion; null cells stay empty.
func WriteXLSX(ctx context.Context, fr *frame.Frame, path string, opts Options) error {
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := opts.sheet()
	if sheet != "Sheet1" {
		if _, err := wb.NewSheet(sheet); err != nil {
			return tlerrors.ExportFailed(path, err)
		}
		if err := wb.DeleteSheet("Sheet1"); err != nil {
			return tlerrors.ExportFailed(path, err)
		}
	}

	header := make([]interface{}, fr.NumCols())
	for i, name := range fr.Names() {
		header[i] = name
	}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return tlerrors.ExportFailed(path, err)
	}

	for i := 0; i < fr.NumRows(); i++ {
		if i%1024 == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		row := make([]interface{}, fr.NumCols())
		for j := 0; j < fr.NumCols(); j++ {
			col := fr.ColumnAt(j)
			if col.IsNull(i) {
				row[j] = nil
				continue
			}
			if col.Type() == frame.TypeTime {
				row[j] = col.Format(i)
			} else {
				row[j] = col.Value(i)
			}
		}

		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return tlerrors.ExportFailed(path, err)
		}
		opts.progress(i + 1)
	}

	if err := wb.SaveAs(path); err != nil {
		return tlerrors.ExportFailed(path, err)
	}
	return nil
}
