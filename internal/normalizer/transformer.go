package normalizer

import (
	"saludcl/internal/models"
	"saludcl/pkg/utils"
)

var systemTypeRemap = map[string]string{
	"Publico": models.SystemPublic,
	"Privado": models.SystemPrivate,
}

var emergencyRemap = map[string]string{
	"NO": models.EmergencyNo,
	"No": models.EmergencyNo,
	"SI": models.EmergencyYes,
}

// Transformer applies the value cleanup rules to known columns.
type Transformer struct {
	strings *utils.StringHelper
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		strings: utils.NewStringHelper(),
	}
}

// Transform returns a normalized copy of table. The input is not modified.
// Null values stay null; unknown values pass through unchanged.
func (t *Transformer) Transform(table *models.Table) *models.Table {
	out := table.Clone()

	for _, row := range out.Rows {
		remap(row, models.ColSystemType, systemTypeRemap)
		remap(row, models.ColEmergency, emergencyRemap)

		if v := row.Get(models.ColRegion); v.Valid {
			row[models.ColRegion] = models.Some(t.NormalizeRegion(v.String))
		}
	}

	return out
}

// NormalizeSystemType maps source spellings of the health system to the canonical value.
func NormalizeSystemType(v string) string {
	if mapped, ok := systemTypeRemap[v]; ok {
		return mapped
	}

	return v
}

// NormalizeEmergency maps source encodings of the emergency flag to Sí/No.
func NormalizeEmergency(v string) string {
	if mapped, ok := emergencyRemap[v]; ok {
		return mapped
	}

	return v
}

// NormalizeRegion trims and title-cases a region name.
func (t *Transformer) NormalizeRegion(v string) string {
	return t.strings.TitleCase(t.strings.TrimWhitespace(v))
}

func remap(row models.Row, column string, table map[string]string) {
	v, ok := row[column]
	if !ok || !v.Valid {
		return
	}

	if mapped, found := table[v.String]; found {
		row[column] = models.Some(mapped)
	}
}
