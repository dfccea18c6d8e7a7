package normalizer

import (
	"errors"

	"saludcl/internal/models"
)

// ErrNilTable is returned when there is no table to process.
var ErrNilTable = errors.New("nil table")

// Validator checks a raw table against the columns the views read.
type Validator struct {
	expected []string
}

// NewValidator creates a validator for models.ExpectedColumns.
func NewValidator() *Validator {
	return &Validator{expected: models.ExpectedColumns}
}

// Validate returns the expected columns missing from the table schema.
// Missing columns are not fatal: only the views that need them degrade.
func (v *Validator) Validate(table *models.Table) ([]string, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	var missing []string

	for _, col := range v.expected {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	return missing, nil
}
