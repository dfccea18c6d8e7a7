// Package models defines the records that flow through the dashboard pipeline.
package models

import "slices"

// NullString is a source value that may be null.
type NullString struct {
	String string
	Valid  bool
}

// Some wraps a present value.
func Some(s string) NullString {
	return NullString{String: s, Valid: true}
}

// Null is the absent value.
var Null = NullString{}

// Is reports whether the value is present and equal to s.
func (n NullString) Is(s string) bool {
	return n.Valid && n.String == s
}

// In reports whether the value is present and one of values.
func (n NullString) In(values ...string) bool {
	return n.Valid && slices.Contains(values, n.String)
}

// Row is a single source record keyed by column name. A missing key is null.
type Row map[string]NullString

// Get returns the value of column, or Null.
func (r Row) Get(column string) NullString {
	return r[column]
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// Table is the raw tabular form of the fetched records.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Rows)
}

// HasColumn reports whether the table schema includes column.
func (t *Table) HasColumn(column string) bool {
	return t != nil && slices.Contains(t.Columns, column)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}

	out := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}

	return out
}
