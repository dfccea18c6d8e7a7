package normalizer

import "saludcl/internal/models"

// Keep reports whether a normalized row belongs in the analysis table:
// the health system must be Público or Privado, the care level must not be a
// sentinel, and the emergency flag must not be "No Aplica". Null care level
// and emergency values are kept.
func Keep(row models.Row) bool {
	if !row.Get(models.ColSystemType).In(models.SystemTypes...) {
		return false
	}

	if row.Get(models.ColCareLevel).In(models.CareLevelNotApplicable, models.CareLevelPending) {
		return false
	}

	return !row.Get(models.ColEmergency).Is(models.EmergencyNotApplicable)
}

// Filter builds the analysis table from a normalized table. The input is not modified.
func Filter(table *models.Table) *models.AnalysisTable {
	if table == nil {
		return models.NewAnalysisTable(nil, nil)
	}

	records := make([]models.Establishment, 0, len(table.Rows))

	for _, row := range table.Rows {
		if Keep(row) {
			records = append(records, models.EstablishmentFromRow(row))
		}
	}

	return models.NewAnalysisTable(records, table.Columns)
}
