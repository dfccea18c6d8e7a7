package aggregate

import "cmp"

// TotalRow is a pivot row with its total.
type TotalRow[K cmp.Ordered] struct {
	Key    K     `json:"key"`
	Counts []int `json:"counts"`
	Total  int   `json:"total"`
}

// ShareRow is a pivot row with its total and each column's percentage of it.
type ShareRow[K cmp.Ordered] struct {
	Key      K         `json:"key"`
	Counts   []int     `json:"counts"`
	Percents []float64 `json:"percents"`
	Total    int       `json:"total"`
}

// Percent returns count / total × 100, or zero when total is zero.
func Percent(count, total int) float64 {
	if total == 0 {
		return 0
	}

	return float64(count) / float64(total) * 100
}

// WithTotals appends a total to every row.
func (p *Pivot[K]) WithTotals() []TotalRow[K] {
	out := make([]TotalRow[K], len(p.Rows))

	for i, r := range p.Clone().Rows {
		out[i] = TotalRow[K]{Key: r.Key, Counts: r.Counts, Total: r.Total()}
	}

	return out
}

// WithShares appends a total and per-column percentages to every row.
func (p *Pivot[K]) WithShares() []ShareRow[K] {
	out := make([]ShareRow[K], len(p.Rows))

	for i, r := range p.Clone().Rows {
		total := r.Total()
		percents := make([]float64, len(r.Counts))

		for j, c := range r.Counts {
			percents[j] = Percent(c, total)
		}

		out[i] = ShareRow[K]{Key: r.Key, Counts: r.Counts, Percents: percents, Total: total}
	}

	return out
}
