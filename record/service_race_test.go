package record

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// raceStore hands every caller the same stale empty snapshot until the first
// create lands, reproducing two sessions whose duplicate checks both run
// before either write is visible.
type raceStore struct {
	mu      sync.Mutex
	records []Record
}

func (s *raceStore) FetchAll(context.Context) ([]Record, error) {
	return nil, nil
}

func (s *raceStore) FetchByStatus(context.Context, Status) ([]Record, error) {
	return nil, nil
}

func (s *raceStore) Create(_ context.Context, fields Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := string(rune('a' + len(s.records)))
	s.records = append(s.records, Record{
		ID:          id,
		CompanyName: fields[FieldCompanyName].(string),
	})
	return id, nil
}

func (s *raceStore) Update(context.Context, string, Fields) error { return nil }
func (s *raceStore) Delete(context.Context, string) error         { return nil }

func (s *raceStore) Subscribe(context.Context) (<-chan []Record, func(), error) {
	ch := make(chan []Record)
	close(ch)
	return ch, func() {}, nil
}

// TestSubmit_ConcurrentSessionsCanCreateTrueDuplicates pins down the
// accepted design gap: without cross-session locking, two submissions of the
// same company name can both pass validation on stale snapshots and both
// land. The duplicate-entries report is the mechanism that surfaces the
// collision afterwards.
func TestSubmit_ConcurrentSessionsCanCreateTrueDuplicates(t *testing.T) {
	store := &raceStore{}

	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			svc := NewService(store)
			_, err := svc.Submit(context.Background(), SubmitParams{
				CompanyName:   "Globex",
				AgreementType: TypeOJTMOA,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent submit: %v", err)
	}

	if len(store.records) != 2 {
		t.Fatalf("expected both racing creates to land, got %d", len(store.records))
	}
	groups := DuplicateGroups(store.records)
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("expected the report to surface one colliding pair, got %+v", groups)
	}
}
