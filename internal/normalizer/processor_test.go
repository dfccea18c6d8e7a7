package normalizer

import (
	"errors"
	"testing"

	"saludcl/internal/logger"
	"saludcl/internal/models"
)

func TestProcessor_Process_RegionScenario(t *testing.T) {
	p := NewProcessor(logger.Discard())

	raw := table(
		row(models.ColSystemType, "Publico", models.ColRegion, " valparaiso "),
		row(models.ColSystemType, "Privado", models.ColRegion, "Valparaiso"),
		row(models.ColSystemType, "Mutual", models.ColRegion, "Biobío"),
	)

	got, err := p.Process(raw)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("Len = %d, want 2", got.Len())
	}

	for _, rec := range got.Records() {
		if !rec.Region.Is("Valparaiso") {
			t.Errorf("region = %+v, want Valparaiso", rec.Region)
		}

		if rec.SystemType.Is("Mutual") {
			t.Error("Mutual row should be excluded")
		}
	}
}

func TestProcessor_Process_EmergencyScenario(t *testing.T) {
	p := NewProcessor(logger.Discard())

	raw := table(
		row(models.ColSystemType, "Público", models.ColEmergency, "SI"),
		row(models.ColSystemType, "Público", models.ColEmergency, "NO"),
		row(models.ColSystemType, "Público", models.ColEmergency, "No Aplica"),
		row(models.ColSystemType, "Público", models.ColEmergency, "Sí"),
	)

	got, err := p.Process(raw)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	values := map[string]int{}
	for _, rec := range got.Records() {
		values[rec.Emergency.String]++
	}

	// Three rows survive: "SI" and "Sí" both become "Sí", "NO" becomes "No",
	// and only the "No Aplica" row is dropped.
	if got.Len() != 3 || values["Sí"] != 2 || values["No"] != 1 || len(values) != 2 {
		t.Errorf("emergency values = %v (len %d), want {Sí, No}", values, got.Len())
	}
}

func TestProcessor_Process_NilTable(t *testing.T) {
	p := NewProcessor(logger.Discard())

	result, err := p.Process(nil)
	if !errors.Is(err, ErrNilTable) {
		t.Errorf("error = %v, want ErrNilTable", err)
	}

	if result != nil {
		t.Error("expected nil result for nil input")
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	missing, err := v.Validate(&models.Table{Columns: []string{models.ColSystemType, models.ColRegion}})
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if len(missing) != len(models.ExpectedColumns)-2 {
		t.Errorf("missing = %v", missing)
	}

	for _, col := range missing {
		if col == models.ColSystemType || col == models.ColRegion {
			t.Errorf("present column %s reported missing", col)
		}
	}

	none, _ := v.Validate(table())
	if len(none) != 0 {
		t.Errorf("missing = %v, want none", none)
	}
}
