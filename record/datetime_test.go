package record

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPartialDateTime_CombineBothParts(t *testing.T) {
	p := PartialDateTime{Date: "2024-03-01", Time: "14:30"}

	got, err := p.Combine(fixedClock("2024-06-01T10:11:12Z"))
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	want := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPartialDateTime_CombineFallbackTime(t *testing.T) {
	p := PartialDateTime{Date: "2024-03-01"}

	got, err := p.Combine(fixedClock("2024-06-01T10:11:12Z"))
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	// Date from the entry, time of day from the injected clock.
	want := time.Date(2024, 3, 1, 10, 11, 12, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPartialDateTime_CombineZero(t *testing.T) {
	got, err := (PartialDateTime{}).Combine(fixedClock("2024-06-01T10:11:12Z"))
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if got != nil {
		t.Fatalf("zero value should resolve to nil, got %v", got)
	}
}

func TestPartialDateTime_TimeWithoutDate(t *testing.T) {
	if _, err := (PartialDateTime{Time: "09:00"}).Combine(fixedClock("2024-06-01T10:11:12Z")); err == nil {
		t.Fatal("expected error for time part without date part")
	}
}

func TestPartialDateTime_UnmarshalRFC3339(t *testing.T) {
	var p PartialDateTime
	if err := json.Unmarshal([]byte(`"2024-03-01T14:30:05Z"`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Date != "2024-03-01" || p.Time != "14:30:05" {
		t.Fatalf("unexpected parts: %+v", p)
	}
}

func TestPartialDateTime_UnmarshalObject(t *testing.T) {
	var p PartialDateTime
	if err := json.Unmarshal([]byte(`{"date":"2024-03-01","time":"14:30"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Date != "2024-03-01" || p.Time != "14:30" {
		t.Fatalf("unexpected parts: %+v", p)
	}
}

func TestPartialDateTime_UnmarshalEmptyString(t *testing.T) {
	var p PartialDateTime
	if err := json.Unmarshal([]byte(`""`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.IsZero() {
		t.Fatalf("expected zero value, got %+v", p)
	}
}

func TestPartialDateTime_UnmarshalBadTimestamp(t *testing.T) {
	var p PartialDateTime
	if err := json.Unmarshal([]byte(`"03/01/2024"`), &p); err == nil {
		t.Fatal("expected error for non-RFC3339 string")
	}
}
