package views

import (
	"saludcl/internal/aggregate"
	"saludcl/internal/models"
)

// TypesView ranks establishment types separately for each system.
type TypesView struct {
	Public  []aggregate.Count[string] `json:"public"`
	Private []aggregate.Count[string] `json:"private"`
}

// EstablishmentTypes returns the most frequent establishment types per system.
func EstablishmentTypes(table *models.AnalysisTable) (*TypesView, error) {
	if err := requireColumns(table, models.ColEstablishmentType, models.ColSystemType); err != nil {
		return nil, err
	}

	return &TypesView{
		Public:  topTypes(table, models.SystemPublic),
		Private: topTypes(table, models.SystemPrivate),
	}, nil
}

func topTypes(table *models.AnalysisTable, system string) []aggregate.Count[string] {
	var records []models.Establishment

	for _, e := range table.Records() {
		if e.SystemType.Is(system) {
			records = append(records, e)
		}
	}

	counts := aggregate.ValueCounts(records, field(func(e models.Establishment) models.NullString { return e.EstablishmentType }))

	return aggregate.TopN(counts, TopEstablishmentTypes)
}
