package record

import "strings"

// SimilarityThreshold is the minimum Similarity score at which a candidate
// company name counts as a fuzzy duplicate of an existing one.
const SimilarityThreshold = 0.8

// MatchKind distinguishes an exact normalized hit from a near-miss.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
)

// CompanyRef is the slice of an existing record the detector compares
// against: its identity and its company name.
type CompanyRef struct {
	ID          string
	CompanyName string
}

// Match reports the best existing record a candidate name collided with.
type Match struct {
	Ref   CompanyRef
	Score float64
	Kind  MatchKind
}

// Normalize folds a company name for comparison: whitespace-trimmed,
// lowercased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FindDuplicate checks candidate against the supplied reference set. An
// exact normalized match wins immediately with score 1. Otherwise, unless
// exactOnly is set, every existing name is scored and the best one above
// SimilarityThreshold is returned as a fuzzy match. The second return is
// false when nothing clears the bar.
//
// The function is pure: it never touches the store, and it does not exclude
// any entry from the reference set. A caller editing an existing record must
// drop that record from existing itself (a record is not a duplicate of
// itself).
func FindDuplicate(candidate string, existing []CompanyRef, exactOnly bool) (Match, bool) {
	norm := Normalize(candidate)
	if norm == "" {
		return Match{}, false
	}

	for _, ref := range existing {
		if Normalize(ref.CompanyName) == norm {
			return Match{Ref: ref, Score: 1, Kind: MatchExact}, true
		}
	}
	if exactOnly {
		return Match{}, false
	}

	best := Match{Kind: MatchFuzzy}
	found := false
	for _, ref := range existing {
		score := Similarity(norm, Normalize(ref.CompanyName))
		if score <= SimilarityThreshold {
			continue
		}
		if !found || score > best.Score {
			best.Ref = ref
			best.Score = score
			found = true
		}
	}
	if !found {
		return Match{}, false
	}
	return best, true
}

// DuplicateGroups scans stored records for company names that already
// collide (same normalized name) and returns each colliding group in first-
// appearance order. This backs the standing duplicate-entries report; it is
// how collisions that slipped past the entry-time check get surfaced.
func DuplicateGroups(records []Record) [][]Record {
	byName := make(map[string][]Record)
	order := make([]string, 0)
	for _, r := range records {
		key := Normalize(r.CompanyName)
		if key == "" {
			continue
		}
		if _, seen := byName[key]; !seen {
			order = append(order, key)
		}
		byName[key] = append(byName[key], r)
	}

	groups := make([][]Record, 0)
	for _, key := range order {
		if g := byName[key]; len(g) > 1 {
			groups = append(groups, g)
		}
	}
	return groups
}
