package validator

import (
	"errors"
	"strings"
	"testing"

	"saludcl/internal/models"
	"saludcl/internal/report"
	"saludcl/pkg/metadata"
)

func sampleReport(columns []string) string {
	table := models.NewAnalysisTable([]models.Establishment{
		{
			SystemType:        models.Some(models.SystemPublic),
			Region:            models.Some("Biobío"),
			CareLevel:         models.Some("Primario"),
			Emergency:         models.Some(models.EmergencyYes),
			EstablishmentType: models.Some("CESFAM"),
			StartDate:         models.Some("1994-01-01"),
		},
		{
			SystemType:        models.Some(models.SystemPrivate),
			Region:            models.Some("Ñuble"),
			CareLevel:         models.Some("Secundario"),
			Emergency:         models.Some(models.EmergencyNo),
			EstablishmentType: models.Some("Clínica"),
			StartDate:         models.Some("2005-01-01"),
		},
	}, columns)

	return report.NewBuilder(report.Options{}).Sign(table, metadata.Metadata{Limit: 10})
}

func TestValidate_GeneratedReport(t *testing.T) {
	result := NewReportValidator().Validate(sampleReport(models.ExpectedColumns))

	if !result.IsValid {
		result.PrintErrors()
		t.Fatalf("generated report should be valid: %s", result)
	}

	if result.Stats.Sections != len(report.Sections) {
		t.Errorf("Sections = %d, want %d", result.Stats.Sections, len(report.Sections))
	}

	if result.Stats.Tables < len(report.Sections) {
		t.Errorf("Tables = %d, expected at least one per section", result.Stats.Tables)
	}

	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", result.Warnings)
	}
}

func TestValidate_UnavailableSectionWarns(t *testing.T) {
	var columns []string

	for _, c := range models.ExpectedColumns {
		if c != models.ColCareLevel {
			columns = append(columns, c)
		}
	}

	result := NewReportValidator().Validate(sampleReport(columns))

	if !result.IsValid {
		t.Fatalf("report with an unavailable section is still valid: %s", result)
	}

	if result.Stats.Unavailable != 1 || len(result.Warnings) != 1 {
		t.Errorf("Unavailable = %d, warnings = %v", result.Stats.Unavailable, result.Warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	valid := sampleReport(models.ExpectedColumns)

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"no title", strings.Replace(valid, "# "+report.DefaultTitle, "", 1), ErrMissingTitle},
		{"missing section", strings.Replace(valid, "## "+report.SectionEmergency, "## Otro", 1), ErrMissingSection},
		{"no separator", "# T\n\n| a | b |\n| 1 | 2 |", ErrMissingSeparator},
		{"ragged row", "# T\n\n| a | b |\n| --- | --- |\n| 1 |", ErrColumnCount},
		{"empty header", "# T\n\n| a |  |\n| --- | --- |\n| 1 | 2 |", ErrEmptyCell},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewReportValidator().Validate(tt.content)
			if result.IsValid {
				t.Fatal("expected invalid result")
			}

			found := false

			for _, e := range result.Errors {
				if errors.Is(e, tt.wantErr) {
					found = true
				}
			}

			if !found {
				t.Errorf("errors %v do not include %v", result.Errors, tt.wantErr)
			}
		})
	}
}
