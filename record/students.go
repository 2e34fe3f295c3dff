package record

import (
	"encoding/json"
	"strings"
)

// studentDelimiter is the display separator for the student list, and the
// separator the oldest stored rows used. The domain model only ever sees the
// list form.
const studentDelimiter = ", "

// JoinStudents renders the student list as one display string. Empty and
// whitespace-only entries are dropped. The rendering is for humans (export
// cells, legacy rows); it cannot round-trip a name that itself contains a
// comma, so the store writes EncodeStudents instead.
func JoinStudents(names []string) string {
	return strings.Join(cleanStudents(names), studentDelimiter)
}

// EncodeStudents serializes the student list for storage as a JSON array, so
// names like "Reyes, Ana" survive the round trip. An empty list encodes as
// the empty string.
func EncodeStudents(names []string) string {
	cleaned := cleanStudents(names)
	if len(cleaned) == 0 {
		return ""
	}
	b, _ := json.Marshal(cleaned)
	return string(b)
}

// DecodeStudents parses a stored student value. JSON arrays are the current
// form; anything else is a legacy delimited row and falls back to
// SplitStudents.
func DecodeStudents(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var names []string
		if err := json.Unmarshal([]byte(trimmed), &names); err == nil {
			names = cleanStudents(names)
			if len(names) == 0 {
				return nil
			}
			return names
		}
	}
	return SplitStudents(s)
}

// SplitStudents parses the legacy delimited form back to the canonical list.
// It tolerates bare-comma separation from the oldest records, which is why
// it cannot distinguish a comma inside a name from a separator.
func SplitStudents(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanStudents(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return cleaned
}
