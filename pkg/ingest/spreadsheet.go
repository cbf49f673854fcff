package ingest

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

// loadSpreadsheet reads .xlsx and .xls workbooks. The first sheet is used
// unless an option names another. The first row is the header; short rows
// pad with nulls. Row skipping does not apply to spreadsheets.
func (e *Engine) loadSpreadsheet(ctx context.Context) (*frame.Frame, int, error) {
	wb, err := excelize.OpenFile(e.src.Path)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), err).
			WithContext("path", e.src.Path)
	}
	defer wb.Close()

	sheet := e.opts.Sheet
	if sheet == "" {
		sheet = wb.GetSheetName(0)
		if sheet == "" {
			list := wb.GetSheetList()
			if len(list) == 0 {
				return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), fmt.Errorf("workbook has no sheets")).
					WithContext("path", e.src.Path)
			}
			sheet = list[0]
		}
	}

	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), err).
			WithContext("sheet", sheet)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), fmt.Errorf("sheet %q is empty", sheet)).
			WithContext("sheet", sheet)
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), err).
			WithContext("sheet", sheet)
	}
	names := normalizeColumnNames(header)
	if len(names) == 0 {
		return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), fmt.Errorf("sheet %q has an empty header row", sheet)).
			WithContext("sheet", sheet)
	}

	var data [][]string
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, 0, tlerrors.ContextCanceled("load spreadsheet")
		default:
		}

		cells, err := rows.Columns()
		if err != nil {
			return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), err).
				WithContext("sheet", sheet)
		}
		data = append(data, cells)
	}

	fr, err := buildFrame(names, data, e.opts.TypeSample)
	if err != nil {
		return nil, 0, tlerrors.ParseFailure(FormatSpreadsheet.String(), err)
	}
	return fr, 0, nil
}
