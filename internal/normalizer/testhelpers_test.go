package normalizer

import "saludcl/internal/models"

// row builds a models.Row from column/value pairs; "<null>" marks a null value.
func row(pairs ...string) models.Row {
	r := models.Row{}

	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "<null>" {
			r[pairs[i]] = models.Null

			continue
		}

		r[pairs[i]] = models.Some(pairs[i+1])
	}

	return r
}

func table(rows ...models.Row) *models.Table {
	return &models.Table{Columns: models.ExpectedColumns, Rows: rows}
}
