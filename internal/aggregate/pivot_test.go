package aggregate

import (
	"math"
	"testing"
)

type item struct {
	key    string
	year   int
	column string
}

var cols = []string{"Público", "Privado"}

func byKey(i item) (string, bool)    { return i.key, i.key != "" }
func byYear(i item) (int, bool)      { return i.year, i.year != 0 }
func byColumn(i item) (string, bool) { return i.column, true }

func TestGroupPivot_FirstSeenOrderAndZeroFill(t *testing.T) {
	items := []item{
		{key: "Valparaiso", column: "Privado"},
		{key: "Biobío", column: "Público"},
		{key: "Valparaiso", column: "Público"},
		{key: "Valparaiso", column: "Público"},
		{key: "", column: "Público"},
		{key: "Biobío", column: "Mutual"},
	}

	p := GroupPivot(items, byKey, byColumn, cols)

	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}

	keys := p.Keys()
	if keys[0] != "Valparaiso" || keys[1] != "Biobío" {
		t.Errorf("Keys = %v, want first-seen order", keys)
	}

	if p.Count(0, "Público") != 2 || p.Count(0, "Privado") != 1 {
		t.Errorf("Valparaiso counts = %v", p.Rows[0].Counts)
	}

	if p.Count(1, "Privado") != 0 {
		t.Errorf("missing combination should be zero, got %d", p.Count(1, "Privado"))
	}

	if p.Count(0, "Mutual") != 0 {
		t.Error("unknown column should count zero")
	}
}

func TestPivot_SortByTotalDesc_Stable(t *testing.T) {
	items := []item{
		{key: "A", column: "Público"},
		{key: "B", column: "Público"},
		{key: "B", column: "Privado"},
		{key: "C", column: "Privado"},
		{key: "D", column: "Público"},
		{key: "D", column: "Público"},
	}

	p := GroupPivot(items, byKey, byColumn, cols)
	sorted := p.SortByTotalDesc()

	want := []string{"B", "D", "A", "C"}
	for i, k := range sorted.Keys() {
		if k != want[i] {
			t.Fatalf("Keys = %v, want %v", sorted.Keys(), want)
		}
	}

	// Original untouched.
	if p.Keys()[0] != "A" {
		t.Error("SortByTotalDesc mutated the receiver")
	}
}

func TestPivot_TotalEqualsColumnSum(t *testing.T) {
	items := []item{
		{key: "X", column: "Público"}, {key: "X", column: "Privado"}, {key: "Y", column: "Privado"},
		{key: "Z", column: "Público"}, {key: "X", column: "Público"},
	}

	for _, r := range GroupPivot(items, byKey, byColumn, cols).WithTotals() {
		if r.Total != r.Counts[0]+r.Counts[1] {
			t.Errorf("%s: Total %d != %d + %d", r.Key, r.Total, r.Counts[0], r.Counts[1])
		}
	}
}

func TestPivot_SortByKeyHeadCumulative(t *testing.T) {
	items := []item{
		{year: 2005, column: "Público"},
		{year: 1994, column: "Privado"},
		{year: 2001, column: "Público"},
		{year: 1994, column: "Público"},
		{year: 2005, column: "Privado"},
	}

	p := GroupPivot(items, byYear, byColumn, cols).SortByKey()

	wantKeys := []int{1994, 2001, 2005}
	for i, k := range p.Keys() {
		if k != wantKeys[i] {
			t.Fatalf("Keys = %v, want %v", p.Keys(), wantKeys)
		}
	}

	cum := p.Cumulative()

	wantPub := []int{1, 2, 3}
	wantPriv := []int{1, 1, 2}

	for i := range cum.Rows {
		if cum.Rows[i].Counts[0] != wantPub[i] || cum.Rows[i].Counts[1] != wantPriv[i] {
			t.Errorf("row %d = %v, want [%d %d]", i, cum.Rows[i].Counts, wantPub[i], wantPriv[i])
		}
	}

	for _, col := range cols {
		series := cum.Column(col)
		for i := 1; i < len(series); i++ {
			if series[i] < series[i-1] {
				t.Errorf("%s cumulative series decreases: %v", col, series)
			}
		}
	}

	if head := p.Head(2); head.Len() != 2 || head.Keys()[1] != 2001 {
		t.Errorf("Head(2) = %v", head.Keys())
	}

	if head := p.Head(10); head.Len() != 3 {
		t.Errorf("Head(10).Len = %d, want 3", head.Len())
	}
}

func TestPivot_WithShares(t *testing.T) {
	p := &Pivot[string]{
		Columns: cols,
		Rows: []Row[string]{
			{Key: "Primario", Counts: []int{2, 1}},
			{Key: "Vacío", Counts: []int{0, 0}},
			{Key: "Terciario", Counts: []int{0, 7}},
		},
	}

	shares := p.WithShares()

	first := shares[0]
	if math.Abs(first.Percents[0]-66.6666) > 0.01 || math.Abs(first.Percents[1]-33.3333) > 0.01 {
		t.Errorf("Primario percents = %v", first.Percents)
	}

	for _, s := range shares {
		sum := s.Percents[0] + s.Percents[1]

		switch {
		case s.Total == 0:
			if s.Percents[0] != 0 || s.Percents[1] != 0 {
				t.Errorf("%s: zero total should yield zero percents, got %v", s.Key, s.Percents)
			}
		case math.Abs(sum-100) > 1e-9:
			t.Errorf("%s: percents sum to %v", s.Key, sum)
		}
	}
}

func TestPercent(t *testing.T) {
	if Percent(3, 0) != 0 {
		t.Error("Percent with zero total should be 0")
	}

	if Percent(1, 4) != 25 {
		t.Errorf("Percent(1, 4) = %v", Percent(1, 4))
	}
}
