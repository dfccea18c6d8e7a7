// Package views computes the dashboard's comparative views from the analysis table.
//
// Every function reads the immutable analysis table and returns a freshly
// computed result. A view whose source column is missing returns an error
// wrapping ErrMissingColumn so the presenter can show an empty state while
// the other views keep working.
package views

import (
	"errors"
	"fmt"
	"strings"

	"saludcl/internal/models"
)

// ErrMissingColumn marks a view that cannot be computed from this dataset.
var ErrMissingColumn = errors.New("dataset is missing required columns")

// Row counts kept by the ranking views.
const (
	TopRegions            = 5
	TopEstablishmentTypes = 3
)

func requireColumns(table *models.AnalysisTable, columns ...string) error {
	missing := table.MissingColumns(columns...)
	if len(missing) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
}

func systemType(e models.Establishment) (string, bool) {
	return e.SystemType.String, e.SystemType.Valid
}

func field(get func(models.Establishment) models.NullString) func(models.Establishment) (string, bool) {
	return func(e models.Establishment) (string, bool) {
		v := get(e)

		return v.String, v.Valid
	}
}
