package store

import (
	"database/sql"
	"fmt"
)

// Row is one result row from SearchCommandRecord, keyed by the column keys
// registered on the sqlbuilder.Builder (command, cwd, start_time, and any
// additional_columns the caller requested). Using a map rather than a
// fixed struct matches spec.md §4.2's "additional_columns" design, where
// the set of columns is determined per-query by the caller.
type Row map[string]any

// rowsCursor adapts *sql.Rows to iterutil.Cursor[Row], the explicit
// iterator type called for by spec.md §9 replacing "lazy result generators
// with embedded connection": dropping it without Close leaks the
// statement, and Close cancels iteration early.
type rowsCursor struct {
	rows *sql.Rows
	keys []string
}

func newRowsCursor(rows *sql.Rows, keys []string) *rowsCursor {
	return &rowsCursor{rows: rows, keys: keys}
}

// Next implements iterutil.Cursor.
func (c *rowsCursor) Next() (Row, bool, error) {
	if !c.rows.Next() {
		return nil, false, c.rows.Err()
	}
	values := make([]any, len(c.keys))
	ptrs := make([]any, len(c.keys))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, false, fmt.Errorf("scan search row: %w", err)
	}
	row := make(Row, len(c.keys))
	for i, key := range c.keys {
		row[key] = values[i]
	}
	return row, true, nil
}

// Close implements iterutil.Cursor.
func (c *rowsCursor) Close() error {
	return c.rows.Close()
}
