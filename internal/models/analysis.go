package models

import (
	"slices"
	"time"
)

// AnalysisTable is the cleaned, filtered record set every view reads.
// It is never mutated after construction; accessors hand out copies.
type AnalysisTable struct {
	records []Establishment
	columns map[string]bool
	builtAt time.Time
}

// NewAnalysisTable builds a table from records and the source schema.
func NewAnalysisTable(records []Establishment, columns []string) *AnalysisTable {
	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}

	return &AnalysisTable{
		records: slices.Clone(records),
		columns: cols,
		builtAt: time.Now().UTC(),
	}
}

// Records returns a copy of the rows in source order.
func (a *AnalysisTable) Records() []Establishment {
	if a == nil {
		return nil
	}

	return slices.Clone(a.records)
}

// Len returns the number of rows.
func (a *AnalysisTable) Len() int {
	if a == nil {
		return 0
	}

	return len(a.records)
}

// HasColumns reports whether every named source column was present.
func (a *AnalysisTable) HasColumns(columns ...string) bool {
	if a == nil {
		return false
	}

	for _, c := range columns {
		if !a.columns[c] {
			return false
		}
	}

	return true
}

// MissingColumns returns the subset of columns absent from the source schema.
func (a *AnalysisTable) MissingColumns(columns ...string) []string {
	var missing []string

	for _, c := range columns {
		if a == nil || !a.columns[c] {
			missing = append(missing, c)
		}
	}

	return missing
}

// BuiltAt is when the table was constructed.
func (a *AnalysisTable) BuiltAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.builtAt
}
