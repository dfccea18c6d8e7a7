package views

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"saludcl/internal/models"
)

// Options are the choices offered by the map selectors, sentinels first.
type Options struct {
	Regions     []string `json:"regions"`
	Communes    []string `json:"communes"`
	SystemTypes []string `json:"systemTypes"`
}

// FilterOptions lists the selectable values. Communes are restricted to region
// unless it is AllRegions.
func FilterOptions(table *models.AnalysisTable, region string) Options {
	records := table.Records()

	var inRegion []models.Establishment

	for _, e := range records {
		if region == "" || region == AllRegions || e.Region.Is(region) {
			inRegion = append(inRegion, e)
		}
	}

	return Options{
		Regions:     withSentinel(AllRegions, distinct(records, func(e models.Establishment) models.NullString { return e.Region })),
		Communes:    withSentinel(AllCommunes, distinct(inRegion, func(e models.Establishment) models.NullString { return e.Commune })),
		SystemTypes: withSentinel(AllSystems, distinct(records, func(e models.Establishment) models.NullString { return e.SystemType })),
	}
}

func distinct(records []models.Establishment, get func(models.Establishment) models.NullString) []string {
	seen := make(map[string]bool)

	var out []string

	for _, e := range records {
		v := get(e)
		if !v.Valid || seen[v.String] {
			continue
		}

		seen[v.String] = true
		out = append(out, v.String)
	}

	collate.New(language.Spanish).SortStrings(out)

	return out
}

func withSentinel(sentinel string, values []string) []string {
	return append([]string{sentinel}, values...)
}
