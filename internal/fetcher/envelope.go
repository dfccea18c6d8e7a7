package fetcher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"saludcl/internal/models"
)

// envelope is the CKAN datastore_search response body.
type envelope struct {
	Success *bool           `json:"success"`
	Error   json.RawMessage `json:"error"`
	Result  *struct {
		Fields []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"fields"`
		Records []map[string]any `json:"records"`
		Total   int              `json:"total"`
	} `json:"result"`
}

// DecodeRecords turns a datastore_search body into a raw table. Column order
// follows result.fields; keys only seen in records are appended sorted.
func DecodeRecords(body []byte) (*models.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("%w: %s", ErrAPIFailure, string(env.Error))
	}

	if env.Result == nil || env.Result.Records == nil {
		return nil, fmt.Errorf("%w: missing result.records", ErrMalformedResponse)
	}

	seen := make(map[string]bool)

	var columns []string

	for _, f := range env.Result.Fields {
		if f.ID == "" || seen[f.ID] {
			continue
		}

		seen[f.ID] = true
		columns = append(columns, f.ID)
	}

	var extra []string

	rows := make([]models.Row, 0, len(env.Result.Records))
	for _, rec := range env.Result.Records {
		row := make(models.Row, len(rec))

		for key, raw := range rec {
			row[key] = toNullString(raw)

			if !seen[key] {
				seen[key] = true
				extra = append(extra, key)
			}
		}

		rows = append(rows, row)
	}

	slices.Sort(extra)

	return &models.Table{
		Columns: append(columns, extra...),
		Rows:    rows,
	}, nil
}

func toNullString(v any) models.NullString {
	switch val := v.(type) {
	case nil:
		return models.Null
	case string:
		return models.Some(val)
	case json.Number:
		return models.Some(val.String())
	case bool:
		return models.Some(strconv.FormatBool(val))
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return models.Null
		}

		return models.Some(string(b))
	}
}
