package record

import (
	"sort"
	"strings"
)

// ListFilter narrows a record listing. Zero values mean "no constraint":
// empty Search matches everything, empty Type matches both agreement types,
// Year 0 matches any year. Year is matched against the year the NLO first
// processed the record.
type ListFilter struct {
	Search string
	Type   AgreementType
	Year   int
}

// Filter applies the listing constraints to a snapshot, preserving order.
func Filter(records []Record, f ListFilter) []Record {
	search := Normalize(f.Search)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if search != "" && !strings.Contains(Normalize(r.CompanyName), search) {
			continue
		}
		if f.Type != "" && r.AgreementType != f.Type {
			continue
		}
		if f.Year != 0 {
			if r.DateProcessedNLO == nil || r.DateProcessedNLO.Year() != f.Year {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Years lists the distinct years of DateProcessedNLO across the snapshot,
// newest first, for the year filter dropdown.
func Years(records []Record) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range records {
		if r.DateProcessedNLO == nil {
			continue
		}
		y := r.DateProcessedNLO.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}
