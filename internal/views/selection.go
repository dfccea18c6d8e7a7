package views

import "saludcl/internal/models"

// "No filter" sentinels shown in the selectors.
const (
	AllRegions  = "(Todas)"
	AllCommunes = "(Todas)"
	AllSystems  = "(Todos)"
)

// Selection is the map view's filter state. It is a value: changing a filter
// means building a new Selection.
type Selection struct {
	Region     string `json:"region"`
	Commune    string `json:"commune"`
	SystemType string `json:"systemType"`
}

// DefaultSelection applies no filter.
func DefaultSelection() Selection {
	return Selection{
		Region:     AllRegions,
		Commune:    AllCommunes,
		SystemType: AllSystems,
	}
}

// NewSelection builds a selection, treating empty values as "no filter".
func NewSelection(region, commune, systemType string) Selection {
	s := DefaultSelection()

	if region != "" {
		s.Region = region
	}

	if commune != "" {
		s.Commune = commune
	}

	if systemType != "" {
		s.SystemType = systemType
	}

	return s
}

// Clear returns the default selection. The receiver is left as it was.
func (s Selection) Clear() Selection {
	return DefaultSelection()
}

// IsDefault reports whether no filter is applied.
func (s Selection) IsDefault() bool {
	return s == DefaultSelection()
}

// Matches reports whether a record passes every active filter.
func (s Selection) Matches(e models.Establishment) bool {
	if s.Region != AllRegions && !e.Region.Is(s.Region) {
		return false
	}

	if s.SystemType != AllSystems && !e.SystemType.Is(s.SystemType) {
		return false
	}

	if s.Commune != AllCommunes && !e.Commune.Is(s.Commune) {
		return false
	}

	return true
}
