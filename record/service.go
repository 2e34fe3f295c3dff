package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrCompanyNameRequired signals a submission without the dedup key.
	ErrCompanyNameRequired = errors.New("record: company name required")
	// ErrInvalidAgreementType signals an agreement type outside the enum.
	ErrInvalidAgreementType = errors.New("record: invalid agreement type")
	// ErrInvalidStatus signals a status toggle to an unknown status.
	ErrInvalidStatus = errors.New("record: invalid status")
	// ErrNotReadyForCompletion rejects a manual Completed toggle before the
	// signed copy is back from the executive office.
	ErrNotReadyForCompletion = errors.New("record: cannot mark completed before the final milestone")
)

// DuplicateError blocks a submission whose company name collides with an
// existing record. The caller either abandons the attempt or resubmits with
// Override set, which bypasses the detector for that one attempt.
type DuplicateError struct {
	Match Match
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("record: company name matches existing record %q (%s, score %.2f)",
		e.Match.Ref.CompanyName, e.Match.Kind, e.Match.Score)
}

// Service is the record lifecycle orchestrator: it validates submissions
// against the duplicate detector, seeds lifecycle state for new records, and
// issues writes through the store gateway. One Service serves one client
// session; its operations are sequenced, never overlapped.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the time source, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SubmitParams carries one form submission. An empty RecordID creates a new
// record; otherwise the named record is edited. Milestones lists the full
// set of entered timestamps; a milestone absent from the map (or mapped to
// nil) is cleared.
type SubmitParams struct {
	RecordID string

	CompanyName   string
	AgreementType AgreementType
	Address       string
	ContactPerson string
	Designation   string
	EmailAddress  string
	ContactNumber string
	StudentNames  []string
	StudentCourse string
	Remarks       string

	Milestones map[Milestone]*time.Time

	// Override skips the duplicate check for this attempt. It is only set
	// after a previous attempt returned *DuplicateError and the user
	// explicitly chose to keep the submission.
	Override bool
}

// Submit runs one submission attempt end to end and returns the record key.
//
// The duplicate check runs against a snapshot fetched here, not against any
// cached copy, to keep the validation-to-write window as small as possible.
// The check is still best effort: two sessions validating concurrently can
// both pass and create a true duplicate. There is no store-level uniqueness
// to catch that; the duplicate-entries report surfaces it after the fact.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (string, error) {
	if strings.TrimSpace(params.CompanyName) == "" {
		return "", ErrCompanyNameRequired
	}
	if !validType(params.AgreementType) {
		return "", ErrInvalidAgreementType
	}

	snapshot, err := s.store.FetchAll(ctx)
	if err != nil {
		return "", err
	}

	editing := params.RecordID != ""
	var prev *Record
	if editing {
		for i := range snapshot {
			if snapshot[i].ID == params.RecordID {
				prev = &snapshot[i]
				break
			}
		}
	}

	if err := s.checkDuplicate(params, snapshot, prev); err != nil {
		return "", err
	}

	fields := submissionFields(params)

	if editing {
		// Edits never touch status or completedDate; the stored status
		// stays authoritative even when the edit changes milestone data.
		if err := s.store.Update(ctx, params.RecordID, fields); err != nil {
			return "", err
		}
		return params.RecordID, nil
	}

	seed := &Record{}
	for _, m := range Milestones() {
		seed.SetMilestone(m, params.Milestones[m])
	}
	status := SeedStatus(seed)
	fields[FieldStatus] = status
	if status == StatusCompleted {
		completed := s.now()
		fields[FieldCompletedDate] = &completed
	} else {
		fields[FieldCompletedDate] = (*time.Time)(nil)
	}

	return s.store.Create(ctx, fields)
}

// checkDuplicate applies the caller-side exclusion rules and runs the
// detector. Editing a record without changing its company name bypasses the
// detector entirely; editing with a changed name excludes the record itself
// from the reference set.
func (s *Service) checkDuplicate(params SubmitParams, snapshot []Record, prev *Record) error {
	if params.Override {
		return nil
	}
	if prev != nil && Normalize(prev.CompanyName) == Normalize(params.CompanyName) {
		return nil
	}

	refs := make([]CompanyRef, 0, len(snapshot))
	for _, r := range snapshot {
		if r.ID == params.RecordID {
			continue
		}
		refs = append(refs, CompanyRef{ID: r.ID, CompanyName: r.CompanyName})
	}

	if m, ok := FindDuplicate(params.CompanyName, refs, false); ok {
		return &DuplicateError{Match: m}
	}
	return nil
}

// ToggleStatus flips a record between Pending and Completed. Marking
// Completed requires the final milestone to be reached and stamps a fresh
// completion date; marking Pending clears it. Toggling to the current status
// is a no-op.
func (s *Service) ToggleStatus(ctx context.Context, id string, status Status) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	snapshot, err := s.store.FetchAll(ctx)
	if err != nil {
		return err
	}
	var current *Record
	for i := range snapshot {
		if snapshot[i].ID == id {
			current = &snapshot[i]
			break
		}
	}
	if current == nil {
		return ErrNotFound
	}
	if current.Status == status {
		return nil
	}

	fields := Fields{FieldStatus: status}
	if status == StatusCompleted {
		if CurrentStep(current) != FinalStep {
			return ErrNotReadyForCompletion
		}
		completed := s.now()
		fields[FieldCompletedDate] = &completed
	} else {
		fields[FieldCompletedDate] = (*time.Time)(nil)
	}

	return s.store.Update(ctx, id, fields)
}

// Delete removes a record permanently. No validation phase, no undo.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// submissionFields maps a submission to the stored attributes it writes.
// Status and completedDate are deliberately absent; Submit adds them for
// creates only.
func submissionFields(params SubmitParams) Fields {
	fields := Fields{
		FieldCompanyName:   params.CompanyName,
		FieldAgreementType: params.AgreementType,
		FieldAddress:       params.Address,
		FieldContactPerson: params.ContactPerson,
		FieldDesignation:   params.Designation,
		FieldEmailAddress:  params.EmailAddress,
		FieldContactNumber: params.ContactNumber,
		FieldStudentNames:  params.StudentNames,
		FieldStudentCourse: params.StudentCourse,
		FieldRemarks:       params.Remarks,
	}
	for _, m := range Milestones() {
		fields[string(m)] = params.Milestones[m]
	}
	return fields
}
