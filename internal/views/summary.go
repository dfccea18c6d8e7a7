package views

import (
	"saludcl/internal/aggregate"
	"saludcl/internal/models"
)

// Summary is the dashboard headline.
type Summary struct {
	Total          int     `json:"total"`
	Public         int     `json:"public"`
	Private        int     `json:"private"`
	PublicPercent  float64 `json:"publicPercent"`
	PrivatePercent float64 `json:"privatePercent"`
}

// Summarize counts establishments per system.
func Summarize(table *models.AnalysisTable) Summary {
	var s Summary

	for _, e := range table.Records() {
		switch {
		case e.SystemType.Is(models.SystemPublic):
			s.Public++
		case e.SystemType.Is(models.SystemPrivate):
			s.Private++
		}
	}

	s.Total = table.Len()
	s.PublicPercent = aggregate.Percent(s.Public, s.Total)
	s.PrivatePercent = aggregate.Percent(s.Private, s.Total)

	return s
}
