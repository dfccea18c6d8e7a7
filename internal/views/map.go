package views

import (
	"math"
	"strconv"
	"strings"

	"saludcl/internal/models"
)

// Point is one establishment placed on the map.
type Point struct {
	Name       string  `json:"name,omitempty"`
	Region     string  `json:"region,omitempty"`
	Commune    string  `json:"commune,omitempty"`
	SystemType string  `json:"systemType"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// MapView is the filtered point set.
type MapView struct {
	Selection Selection `json:"selection"`
	Points    []Point   `json:"points"`
	Matched   int       `json:"matched"`
	Dropped   int       `json:"dropped"`
}

// Map applies sel and returns the establishments with usable coordinates.
// Rows with null or non-numeric coordinates are left out of this view only.
func Map(table *models.AnalysisTable, sel Selection) (*MapView, error) {
	if err := requireColumns(table, models.ColLatitude, models.ColLongitude); err != nil {
		return nil, err
	}

	view := &MapView{Selection: sel, Points: []Point{}}

	for _, e := range table.Records() {
		if !sel.Matches(e) {
			continue
		}

		view.Matched++

		lat, okLat := ParseCoordinate(e.Latitude)
		lon, okLon := ParseCoordinate(e.Longitude)

		if !okLat || !okLon {
			view.Dropped++

			continue
		}

		view.Points = append(view.Points, Point{
			Name:       e.Name.String,
			Region:     e.Region.String,
			Commune:    e.Commune.String,
			SystemType: e.SystemType.String,
			Latitude:   lat,
			Longitude:  lon,
		})
	}

	return view, nil
}

// ParseCoordinate reads a finite decimal degree value.
func ParseCoordinate(v models.NullString) (float64, bool) {
	if !v.Valid {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
