package views

import (
	"saludcl/internal/aggregate"
	"saludcl/internal/models"
)

// ShareView compares systems across one category, with totals and percentages.
type ShareView struct {
	Dimension    string                       `json:"dimension"`
	Distribution *aggregate.Pivot[string]     `json:"distribution"`
	Rows         []aggregate.ShareRow[string] `json:"rows"`
}

// CareLevel compares systems by care level.
func CareLevel(table *models.AnalysisTable) (*ShareView, error) {
	return shareBy(table, models.ColCareLevel, func(e models.Establishment) models.NullString { return e.CareLevel })
}

// Emergency compares systems by emergency-service availability.
func Emergency(table *models.AnalysisTable) (*ShareView, error) {
	return shareBy(table, models.ColEmergency, func(e models.Establishment) models.NullString { return e.Emergency })
}

func shareBy(table *models.AnalysisTable, column string, get func(models.Establishment) models.NullString) (*ShareView, error) {
	if err := requireColumns(table, column, models.ColSystemType); err != nil {
		return nil, err
	}

	pivot := aggregate.GroupPivot(table.Records(), field(get), systemType, models.SystemTypes).SortByTotalDesc()

	return &ShareView{
		Dimension:    column,
		Distribution: pivot,
		Rows:         pivot.WithShares(),
	}, nil
}
