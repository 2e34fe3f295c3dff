package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// PartialDateTime is a milestone value as entered: a date part and an
// optional time part, kept separate until resolved. It replaces the ad hoc
// picker event objects the forms used to pass around.
//
// In JSON it accepts either a full RFC 3339 string or an object of the form
// {"date":"2024-03-01","time":"14:30"}.
type PartialDateTime struct {
	Date string
	Time string
}

// IsZero reports whether neither part was entered. A zero value resolves to
// a cleared milestone.
func (p PartialDateTime) IsZero() bool {
	return strings.TrimSpace(p.Date) == "" && strings.TrimSpace(p.Time) == ""
}

// Combine resolves the parts into one instant. A missing time part falls
// back to the injected clock's current time of day so half-filled entries
// still land on the right day; the clock is a parameter so resolution stays
// deterministic under test. A zero value yields nil. A time part without a
// date part is an error.
func (p PartialDateTime) Combine(now func() time.Time) (*time.Time, error) {
	if p.IsZero() {
		return nil, nil
	}

	datePart := strings.TrimSpace(p.Date)
	timePart := strings.TrimSpace(p.Time)

	if datePart == "" {
		return nil, fmt.Errorf("record: time %q without a date", timePart)
	}
	if timePart == "" {
		timePart = now().Format("15:04:05")
	}

	var layout string
	switch strings.Count(timePart, ":") {
	case 1:
		layout = "2006-01-02 15:04"
	case 2:
		layout = "2006-01-02 15:04:05"
	default:
		return nil, fmt.Errorf("record: malformed time part %q", timePart)
	}

	t, err := time.Parse(layout, datePart+" "+timePart)
	if err != nil {
		return nil, fmt.Errorf("record: combine date-time: %w", err)
	}
	return &t, nil
}

func (p *PartialDateTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*p = PartialDateTime{}
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("record: parse timestamp %q: %w", s, err)
		}
		*p = PartialDateTime{
			Date: t.Format("2006-01-02"),
			Time: t.Format("15:04:05"),
		}
		return nil
	}

	var obj struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("record: parse date-time parts: %w", err)
	}
	*p = PartialDateTime{Date: obj.Date, Time: obj.Time}
	return nil
}

func (p PartialDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date string `json:"date,omitempty"`
		Time string `json:"time,omitempty"`
	}{Date: p.Date, Time: p.Time})
}
