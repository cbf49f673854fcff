// Package query runs SQL against a frame by staging it into an in-memory
// DuckDB table. Results come back as a new frame.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	tlerrors "github.com/tablens/tablens/pkg/errors"
	"github.com/tablens/tablens/pkg/frame"
)

// TableName is the name the loaded frame is exposed under.
const TableName = "data"

// insertBatchSize is the number of rows per insert transaction.
const insertBatchSize = 8192

// Session holds one frame staged in DuckDB.
type Session struct {
	db *sql.DB
}

// Open stages the frame into an in-memory DuckDB table.
func Open(ctx context.Context, fr *frame.Frame) (*Session, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeQueryInit, "failed to open duckdb")
	}

	s := &Session{db: db}
	if err := s.stage(ctx, fr); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) stage(ctx context.Context, fr *frame.Frame) error {
	defs := make([]string, fr.NumCols())
	for i := 0; i < fr.NumCols(); i++ {
		c := fr.ColumnAt(i)
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c.Name()), sqlType(c.Type()))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", TableName, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return tlerrors.Wrap(err, tlerrors.CodeQueryInit, "failed to create table")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", fr.NumCols()), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", TableName, placeholders)

	for start := 0; start < fr.NumRows(); start += insertBatchSize {
		end := start + insertBatchSize
		if end > fr.NumRows() {
			end = fr.NumRows()
		}
		if err := s.insertRows(ctx, fr, insert, start, end); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) insertRows(ctx context.Context, fr *frame.Frame, insert string, start, end int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return tlerrors.Wrap(err, tlerrors.CodeQueryInit, "failed to begin transaction")
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()
		return tlerrors.Wrap(err, tlerrors.CodeQueryInit, "failed to prepare insert")
	}
	defer stmt.Close()

	args := make([]interface{}, fr.NumCols())
	for i := start; i < end; i++ {
		for j := 0; j < fr.NumCols(); j++ {
			args[j] = fr.ColumnAt(j).Value(i)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return tlerrors.Wrap(err, tlerrors.CodeQueryInit, "failed to insert row").
				WithContext("row", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return tlerrors.Wrap(err, tlerrors.CodeQueryInit, "failed to commit batch")
	}
	return nil
}

// Run executes a read-only SQL statement and returns the result as a frame.
func (s *Session) Run(ctx context.Context, query string) (*frame.Frame, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeQueryFailed, "query failed").
			WithContext("query", query)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeQueryFailed, "failed to read result columns")
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeQueryFailed, "failed to read result types")
	}

	builders := make([]*frame.Builder, len(names))
	for i, name := range names {
		builders[i] = frame.NewBuilder(name, frameType(colTypes[i].DatabaseTypeName()))
	}

	scan := make([]interface{}, len(names))
	for i := range scan {
		scan[i] = new(interface{})
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, tlerrors.Wrap(err, tlerrors.CodeQueryFailed, "failed to scan row")
		}
		for i, b := range builders {
			b.AppendValue(scanValue(*scan[i].(*interface{})))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeQueryFailed, "result iteration failed")
	}

	cols := make([]*frame.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	out, err := frame.New(cols...)
	if err != nil {
		return nil, tlerrors.Wrap(err, tlerrors.CodeQueryFailed, "failed to assemble result frame")
	}
	return out, nil
}

// Query is the one-shot convenience: stage, run, close.
func Query(ctx context.Context, fr *frame.Frame, statement string) (*frame.Frame, error) {
	s, err := Open(ctx, fr)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Run(ctx, statement)
}

func sqlType(t frame.Type) string {
	switch t {
	case frame.TypeInt:
		return "BIGINT"
	case frame.TypeFloat:
		return "DOUBLE"
	case frame.TypeBool:
		return "BOOLEAN"
	case frame.TypeTime:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

func frameType(dbType string) frame.Type {
	switch strings.ToUpper(dbType) {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT", "HUGEINT", "UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT":
		return frame.TypeInt
	case "FLOAT", "DOUBLE", "DECIMAL":
		return frame.TypeFloat
	case "BOOLEAN":
		return frame.TypeBool
	case "TIMESTAMP", "DATE", "TIMESTAMP WITH TIME ZONE":
		return frame.TypeTime
	default:
		return frame.TypeString
	}
}

// quoteIdent quotes a column name for DDL. Embedded quotes double.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// scanValue normalizes driver values that AppendValue does not handle.
func scanValue(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x
	default:
		return v
	}
}
