package views

import (
	"saludcl/internal/aggregate"
	"saludcl/internal/models"
)

// RegionalView is the region × system distribution.
type RegionalView struct {
	Distribution *aggregate.Pivot[string]     `json:"distribution"`
	Top          []aggregate.TotalRow[string] `json:"top"`
}

// Regional counts establishments per region and system, sorted by total descending.
func Regional(table *models.AnalysisTable) (*RegionalView, error) {
	if err := requireColumns(table, models.ColRegion, models.ColSystemType); err != nil {
		return nil, err
	}

	pivot := aggregate.GroupPivot(
		table.Records(),
		field(func(e models.Establishment) models.NullString { return e.Region }),
		systemType,
		models.SystemTypes,
	).SortByTotalDesc()

	return &RegionalView{
		Distribution: pivot,
		Top:          pivot.Head(TopRegions).WithTotals(),
	}, nil
}
