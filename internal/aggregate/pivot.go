// Package aggregate provides the group → count → pivot primitives shared by every view.
//
// Groups are kept in first-seen order. Every descending sort is stable, so
// groups with equal totals keep the order in which they were first encountered.
package aggregate

import (
	"cmp"
	"slices"
)

// Row is one pivot group: its key and one count per pivot column.
type Row[K cmp.Ordered] struct {
	Key    K     `json:"key"`
	Counts []int `json:"counts"`
}

// Total is the sum of the row's counts.
func (r Row[K]) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}

	return total
}

// Pivot is a count-by-two-keys result with the second key spread into columns.
type Pivot[K cmp.Ordered] struct {
	Columns []string `json:"columns"`
	Rows    []Row[K] `json:"rows"`
}

// GroupPivot counts items by (key, column). Items whose key is absent or whose
// column value is not one of columns are skipped. Missing combinations count zero.
func GroupPivot[T any, K cmp.Ordered](items []T, key func(T) (K, bool), column func(T) (string, bool), columns []string) *Pivot[K] {
	colIndex := make(map[string]int, len(columns))
	for i, c := range columns {
		colIndex[c] = i
	}

	p := &Pivot[K]{Columns: slices.Clone(columns)}
	rowIndex := make(map[K]int)

	for _, item := range items {
		k, ok := key(item)
		if !ok {
			continue
		}

		c, ok := column(item)
		if !ok {
			continue
		}

		ci, ok := colIndex[c]
		if !ok {
			continue
		}

		ri, seen := rowIndex[k]
		if !seen {
			ri = len(p.Rows)
			rowIndex[k] = ri
			p.Rows = append(p.Rows, Row[K]{Key: k, Counts: make([]int, len(columns))})
		}

		p.Rows[ri].Counts[ci]++
	}

	return p
}

// Len returns the number of groups.
func (p *Pivot[K]) Len() int {
	return len(p.Rows)
}

// ColumnIndex returns the position of column, or -1.
func (p *Pivot[K]) ColumnIndex(column string) int {
	return slices.Index(p.Columns, column)
}

// Count returns the count for (row i, column), zero when the column is unknown.
func (p *Pivot[K]) Count(i int, column string) int {
	ci := p.ColumnIndex(column)
	if ci < 0 {
		return 0
	}

	return p.Rows[i].Counts[ci]
}

// Keys returns the group keys in row order.
func (p *Pivot[K]) Keys() []K {
	keys := make([]K, len(p.Rows))
	for i, r := range p.Rows {
		keys[i] = r.Key
	}

	return keys
}

// Column returns one column's counts in row order.
func (p *Pivot[K]) Column(column string) []int {
	ci := p.ColumnIndex(column)
	out := make([]int, len(p.Rows))

	if ci < 0 {
		return out
	}

	for i, r := range p.Rows {
		out[i] = r.Counts[ci]
	}

	return out
}

// Clone returns a deep copy.
func (p *Pivot[K]) Clone() *Pivot[K] {
	out := &Pivot[K]{
		Columns: slices.Clone(p.Columns),
		Rows:    make([]Row[K], len(p.Rows)),
	}

	for i, r := range p.Rows {
		out.Rows[i] = Row[K]{Key: r.Key, Counts: slices.Clone(r.Counts)}
	}

	return out
}

// SortByTotalDesc returns a copy sorted by row total, largest first. Stable.
func (p *Pivot[K]) SortByTotalDesc() *Pivot[K] {
	out := p.Clone()
	slices.SortStableFunc(out.Rows, func(a, b Row[K]) int {
		return cmp.Compare(b.Total(), a.Total())
	})

	return out
}

// SortByKey returns a copy sorted by key ascending.
func (p *Pivot[K]) SortByKey() *Pivot[K] {
	out := p.Clone()
	slices.SortStableFunc(out.Rows, func(a, b Row[K]) int {
		return cmp.Compare(a.Key, b.Key)
	})

	return out
}

// Head returns a copy with at most n rows.
func (p *Pivot[K]) Head(n int) *Pivot[K] {
	out := p.Clone()
	if n >= 0 && n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}

	return out
}

// Cumulative returns a copy where each column holds the running sum down the rows.
func (p *Pivot[K]) Cumulative() *Pivot[K] {
	out := p.Clone()
	running := make([]int, len(out.Columns))

	for i := range out.Rows {
		for j := range running {
			running[j] += out.Rows[i].Counts[j]
			out.Rows[i].Counts[j] = running[j]
		}
	}

	return out
}
