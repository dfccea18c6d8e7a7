package views

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"saludcl/internal/models"
)

const (
	pub  = models.SystemPublic
	priv = models.SystemPrivate
)

func TestDecade(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{1994, 1990},
		{2001, 2000},
		{2005, 2000},
		{1987, 1980},
		{2000, 2000},
		{-5, -10},
	}

	for _, tt := range tests {
		if got := Decade(tt.year); got != tt.want {
			t.Errorf("Decade(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"1994-03-01", 1994, true},
		{"2001-05-12T00:00:00", 2001, true},
		{"2005-01-01 00:00:00", 2005, true},
		{"15-08-1987", 1987, true},
		{"1999", 1999, true},
		{"", 0, false},
		{"sin fecha", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseYear(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseYear(%q) = (%d, %v), want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSelection_DefaultAndClear(t *testing.T) {
	sel := NewSelection("Valparaíso", "", priv)
	if sel.IsDefault() {
		t.Fatal("selection with filters reported as default")
	}

	if sel.Commune != AllCommunes {
		t.Errorf("empty commune should mean no filter, got %q", sel.Commune)
	}

	cleared := sel.Clear()
	if !cleared.IsDefault() {
		t.Errorf("Clear() = %+v, want default", cleared)
	}

	if sel.Region != "Valparaíso" {
		t.Error("Clear() modified the receiver")
	}
}

func TestMap_FiltersAndDropsBadCoordinates(t *testing.T) {
	table := analysis(
		rec{system: pub, region: "Valparaíso", commune: "Viña del Mar", lat: "-33.02", lon: "-71.55"},
		rec{system: priv, region: "Valparaíso", commune: "Viña del Mar", lat: "-33.01", lon: "-71.54"},
		rec{system: pub, region: "Valparaíso", commune: "Quilpué", lat: "", lon: "-71.44"},
		rec{system: pub, region: "Valparaíso", commune: "Quilpué", lat: "x", lon: "-71.44"},
		rec{system: pub, region: "Biobío", commune: "Concepción", lat: "-36.82", lon: "-73.04"},
	)

	view, err := Map(table, NewSelection("Valparaíso", "", pub))
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if view.Matched != 3 || view.Dropped != 2 || len(view.Points) != 1 {
		t.Fatalf("Map() matched=%d dropped=%d points=%d, want 3/2/1", view.Matched, view.Dropped, len(view.Points))
	}

	p := view.Points[0]
	if math.Abs(p.Latitude+33.02) > 1e-9 || p.Commune != "Viña del Mar" {
		t.Errorf("unexpected point %+v", p)
	}

	all, err := Map(table, DefaultSelection())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(all.Points) != 3 {
		t.Errorf("default selection kept %d points, want 3", len(all.Points))
	}
}

func TestMap_MissingCoordinates(t *testing.T) {
	table := analysisWith(without(models.ColLongitude), rec{system: pub})

	_, err := Map(table, DefaultSelection())
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Map() error = %v, want ErrMissingColumn", err)
	}
}

func TestRegional_SortedWithTop(t *testing.T) {
	var recs []rec

	add := func(region, system string, n int) {
		for i := 0; i < n; i++ {
			recs = append(recs, rec{system: system, region: region})
		}
	}

	add("A", pub, 1)
	add("B", pub, 2)
	add("B", priv, 1)
	add("C", priv, 5)
	add("D", pub, 1)
	add("E", pub, 1)
	add("F", priv, 1)
	add("G", pub, 4)

	view, err := Regional(analysis(recs...))
	if err != nil {
		t.Fatalf("Regional() error = %v", err)
	}

	wantKeys := []string{"C", "G", "B", "A", "D", "E", "F"}
	if got := view.Distribution.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Errorf("keys = %v, want %v", got, wantKeys)
	}

	if len(view.Top) != TopRegions {
		t.Fatalf("top has %d rows, want %d", len(view.Top), TopRegions)
	}

	if view.Top[2].Key != "B" || view.Top[2].Total != 3 || view.Top[2].Counts[0] != 2 {
		t.Errorf("top[2] = %+v", view.Top[2])
	}
}

func TestHistorical_DecadesAndGrowth(t *testing.T) {
	table := analysis(
		rec{system: pub, start: "1994-01-01"},
		rec{system: priv, start: "2001-06-01"},
		rec{system: pub, start: "2005-02-03"},
		rec{system: pub, start: "1987-11-30"},
		rec{system: priv, start: "no informada"},
		rec{system: pub},
	)

	view, err := Historical(table)
	if err != nil {
		t.Fatalf("Historical() error = %v", err)
	}

	if got, want := view.ByDecade.Keys(), []int{1980, 1990, 2000}; !reflect.DeepEqual(got, want) {
		t.Errorf("decades = %v, want %v", got, want)
	}

	if got := view.ByDecade.Count(2, priv); got != 1 {
		t.Errorf("2000s private = %d, want 1", got)
	}

	if view.Undated != 2 {
		t.Errorf("undated = %d, want 2", view.Undated)
	}

	wantPublic := []int{1, 2, 2, 3}
	if got := view.Growth.Column(pub); !reflect.DeepEqual(got, wantPublic) {
		t.Errorf("public growth = %v, want %v", got, wantPublic)
	}

	for _, col := range view.Growth.Columns {
		series := view.Growth.Column(col)
		for i := 1; i < len(series); i++ {
			if series[i] < series[i-1] {
				t.Errorf("%s growth decreases at %d: %v", col, i, series)
			}
		}
	}
}

func TestCareLevel_Shares(t *testing.T) {
	table := analysis(
		rec{system: pub, care: "Primario"},
		rec{system: pub, care: "Primario"},
		rec{system: priv, care: "Primario"},
		rec{system: priv, care: "Secundario"},
		rec{system: pub, care: "Terciario"},
		rec{system: priv, care: "Terciario"},
	)

	view, err := CareLevel(table)
	if err != nil {
		t.Fatalf("CareLevel() error = %v", err)
	}

	if got, want := view.Distribution.Keys(), []string{"Primario", "Terciario", "Secundario"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	for _, row := range view.Rows {
		sum := 0.0
		for _, p := range row.Percents {
			sum += p
		}

		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("%s percentages sum to %v", row.Key, sum)
		}
	}
}

func TestEmergency_MissingColumn(t *testing.T) {
	table := analysisWith(without(models.ColEmergency), rec{system: pub})

	if _, err := Emergency(table); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Emergency() error = %v, want ErrMissingColumn", err)
	}

	// Other views are unaffected.
	if _, err := CareLevel(table); err != nil {
		t.Errorf("CareLevel() error = %v", err)
	}
}

func TestEstablishmentTypes_TopPerSystem(t *testing.T) {
	var recs []rec

	add := func(system, kind string, n int) {
		for i := 0; i < n; i++ {
			recs = append(recs, rec{system: system, kind: kind})
		}
	}

	add(pub, "Posta", 3)
	add(pub, "CESFAM", 10)
	add(pub, "SAPU", 7)
	add(pub, "Hospital", 7)
	add(priv, "Clínica", 2)

	view, err := EstablishmentTypes(analysis(recs...))
	if err != nil {
		t.Fatalf("EstablishmentTypes() error = %v", err)
	}

	var keys []string
	for _, c := range view.Public {
		keys = append(keys, c.Key)
	}

	if want := []string{"CESFAM", "SAPU", "Hospital"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("public top = %v, want %v", keys, want)
	}

	if len(view.Private) != 1 || view.Private[0].Count != 2 {
		t.Errorf("private top = %+v", view.Private)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(analysis(
		rec{system: pub}, rec{system: pub}, rec{system: pub}, rec{system: priv},
	))

	if s.Total != 4 || s.Public != 3 || s.Private != 1 {
		t.Fatalf("Summarize() = %+v", s)
	}

	if s.PublicPercent != 75 || s.PrivatePercent != 25 {
		t.Errorf("percentages = %v / %v", s.PublicPercent, s.PrivatePercent)
	}

	empty := Summarize(analysis())
	if empty.Total != 0 || empty.PublicPercent != 0 || empty.PrivatePercent != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestFilterOptions(t *testing.T) {
	table := analysis(
		rec{system: pub, region: "Ñuble", commune: "Chillán"},
		rec{system: priv, region: "Biobío", commune: "Concepción"},
		rec{system: pub, region: "Biobío", commune: "Arauco"},
		rec{system: pub, region: "Ñuble", commune: "Chillán"},
	)

	opts := FilterOptions(table, AllRegions)

	if want := []string{AllRegions, "Biobío", "Ñuble"}; !reflect.DeepEqual(opts.Regions, want) {
		t.Errorf("regions = %v, want %v", opts.Regions, want)
	}

	if want := []string{AllCommunes, "Arauco", "Chillán", "Concepción"}; !reflect.DeepEqual(opts.Communes, want) {
		t.Errorf("communes = %v, want %v", opts.Communes, want)
	}

	if want := []string{AllSystems, priv, pub}; !reflect.DeepEqual(opts.SystemTypes, want) {
		t.Errorf("systems = %v, want %v", opts.SystemTypes, want)
	}

	scoped := FilterOptions(table, "Ñuble")
	if want := []string{AllCommunes, "Chillán"}; !reflect.DeepEqual(scoped.Communes, want) {
		t.Errorf("scoped communes = %v, want %v", scoped.Communes, want)
	}
}
