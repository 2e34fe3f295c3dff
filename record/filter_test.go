package record

import (
	"reflect"
	"testing"
)

func filterFixture() []Record {
	return []Record{
		{ID: "a", CompanyName: "Globex Industries", AgreementType: TypeOJTMOA, DateProcessedNLO: ts("2024-01-05T09:00:00Z")},
		{ID: "b", CompanyName: "Acme Corp", AgreementType: TypeMOUMOA, DateProcessedNLO: ts("2023-11-02T09:00:00Z")},
		{ID: "c", CompanyName: "Initech", AgreementType: TypeOJTMOA},
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Search(t *testing.T) {
	got := Filter(filterFixture(), ListFilter{Search: "glob"})
	if !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestFilter_Type(t *testing.T) {
	got := Filter(filterFixture(), ListFilter{Type: TypeOJTMOA})
	if !reflect.DeepEqual(ids(got), []string{"a", "c"}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestFilter_Year(t *testing.T) {
	got := Filter(filterFixture(), ListFilter{Year: 2024})
	if !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}
	// Records without a processed date never match a year constraint.
	if got := Filter(filterFixture(), ListFilter{Year: 2022}); len(got) != 0 {
		t.Fatalf("expected empty, got %v", ids(got))
	}
}

func TestFilter_Combined(t *testing.T) {
	got := Filter(filterFixture(), ListFilter{Search: "corp", Type: TypeMOUMOA, Year: 2023})
	if !reflect.DeepEqual(ids(got), []string{"b"}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}
}

func TestFilter_Unconstrained(t *testing.T) {
	got := Filter(filterFixture(), ListFilter{})
	if len(got) != 3 {
		t.Fatalf("expected all records, got %v", ids(got))
	}
}

func TestYears(t *testing.T) {
	got := Years(filterFixture())
	if !reflect.DeepEqual(got, []int{2024, 2023}) {
		t.Fatalf("expected [2024 2023], got %v", got)
	}
}
