package views

import (
	"saludcl/internal/aggregate"
	"saludcl/internal/models"
)

// HistoricalView holds openings per decade and the cumulative growth per year.
type HistoricalView struct {
	ByDecade *aggregate.Pivot[int] `json:"byDecade"`
	Growth   *aggregate.Pivot[int] `json:"growth"`
	Undated  int                   `json:"undated"`
}

// Historical buckets establishments by the year they started operating.
// Rows with unparseable dates are excluded from both series.
func Historical(table *models.AnalysisTable) (*HistoricalView, error) {
	if err := requireColumns(table, models.ColStartDate, models.ColSystemType); err != nil {
		return nil, err
	}

	type dated struct {
		year   int
		system string
	}

	var (
		rows    []dated
		undated int
	)

	for _, e := range table.Records() {
		if !e.SystemType.Valid {
			continue
		}

		year, ok := ParseYear(e.StartDate.String)
		if !e.StartDate.Valid || !ok {
			undated++

			continue
		}

		rows = append(rows, dated{year: year, system: e.SystemType.String})
	}

	column := func(d dated) (string, bool) { return d.system, true }

	byDecade := aggregate.GroupPivot(rows, func(d dated) (int, bool) { return Decade(d.year), true }, column, models.SystemTypes)
	byYear := aggregate.GroupPivot(rows, func(d dated) (int, bool) { return d.year, true }, column, models.SystemTypes)

	return &HistoricalView{
		ByDecade: byDecade.SortByKey(),
		Growth:   byYear.SortByKey().Cumulative(),
		Undated:  undated,
	}, nil
}
