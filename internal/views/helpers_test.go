package views

import "saludcl/internal/models"

type rec struct {
	system, region, commune, care, emergency, kind, start, lat, lon string
}

// analysis builds a table with the full schema. Empty fields are null.
func analysis(recs ...rec) *models.AnalysisTable {
	return analysisWith(models.ExpectedColumns, recs...)
}

func analysisWith(columns []string, recs ...rec) *models.AnalysisTable {
	out := make([]models.Establishment, len(recs))

	for i, r := range recs {
		out[i] = models.Establishment{
			SystemType:        opt(r.system),
			Region:            opt(r.region),
			Commune:           opt(r.commune),
			CareLevel:         opt(r.care),
			Emergency:         opt(r.emergency),
			EstablishmentType: opt(r.kind),
			StartDate:         opt(r.start),
			Latitude:          opt(r.lat),
			Longitude:         opt(r.lon),
		}
	}

	return models.NewAnalysisTable(out, columns)
}

func opt(s string) models.NullString {
	if s == "" {
		return models.Null
	}

	return models.Some(s)
}

func without(column string) []string {
	var cols []string

	for _, c := range models.ExpectedColumns {
		if c != column {
			cols = append(cols, c)
		}
	}

	return cols
}
