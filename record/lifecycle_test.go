package record

import (
	"testing"
	"time"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestCurrentStep_Empty(t *testing.T) {
	if got := CurrentStep(&Record{}); got != 0 {
		t.Fatalf("expected step 0 for empty record, got %d", got)
	}
}

func TestCurrentStep_NLOOnly(t *testing.T) {
	r := &Record{DateProcessedNLO: ts("2024-01-05T09:00:00Z")}
	if got := CurrentStep(r); got != 1 {
		t.Fatalf("expected step 1, got %d", got)
	}
}

func TestCurrentStep_AllMilestones(t *testing.T) {
	r := &Record{}
	for _, m := range Milestones() {
		r.SetMilestone(m, ts("2024-01-05T09:00:00Z"))
	}
	if got := CurrentStep(r); got != FinalStep {
		t.Fatalf("expected step %d, got %d", FinalStep, got)
	}
}

func TestCurrentStep_FurthestWinsOverGaps(t *testing.T) {
	// A record forwarded to the host office without the attorney dates
	// recorded still classifies by the furthest office reached.
	r := &Record{
		DateProcessedNLO:  ts("2024-01-05T09:00:00Z"),
		DateForwardedHost: ts("2024-02-01T10:00:00Z"),
	}
	if got := CurrentStep(r); got != 4 {
		t.Fatalf("expected step 4, got %d", got)
	}
}

func TestCurrentStep_GroupBoundaries(t *testing.T) {
	cases := []struct {
		milestone Milestone
		want      int
	}{
		{DateProcessedNLO, 1},
		{DateForwardedLCAO, 2},
		{DateReceivedLCAO, 2},
		{DateForwardedAttorneys, 3},
		{DateReceivedLCAOWithCover, 3},
		{DateForwardedHost, 4},
		{DateForwardedNEXUSS, 4},
		{DateReceivedNEXUSS, 4},
		{DateForwardedEO, 5},
		{DateReceivedEO, 5},
	}
	for _, c := range cases {
		r := &Record{}
		r.SetMilestone(c.milestone, ts("2024-03-01T08:00:00Z"))
		if got := CurrentStep(r); got != c.want {
			t.Errorf("%s: expected step %d, got %d", c.milestone, c.want, got)
		}
	}
}

func TestSeedStatus(t *testing.T) {
	pending := &Record{DateForwardedEO: ts("2024-04-01T08:00:00Z")}
	if got := SeedStatus(pending); got != StatusPending {
		t.Fatalf("expected Pending without received-from-EO, got %s", got)
	}

	completed := &Record{DateReceivedEO: ts("2024-04-09T08:00:00Z")}
	if got := SeedStatus(completed); got != StatusCompleted {
		t.Fatalf("expected Completed with received-from-EO, got %s", got)
	}
}
