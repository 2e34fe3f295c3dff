package record

import (
	"context"
	"errors"
	"fmt"
)

// Document attribute names, as stored. Milestone attributes use the
// Milestone constants directly.
const (
	FieldCompanyName   = "companyName"
	FieldAgreementType = "agreementType"
	FieldAddress       = "address"
	FieldContactPerson = "contactPerson"
	FieldDesignation   = "designation"
	FieldEmailAddress  = "emailAddress"
	FieldContactNumber = "contactNumber"
	FieldStudentNames  = "studentNames"
	FieldStudentCourse = "studentCourse"
	FieldRemarks       = "remarks"
	FieldStatus        = "status"
	FieldCompletedDate = "completedDate"
)

// Fields is a partial document: attribute name to value. An Update writes
// only the keys present; a nil value clears the attribute. Timestamp values
// are *time.Time, students []string; everything else is a plain string or
// one of the domain enums.
type Fields map[string]any

// ErrNotFound is returned by point operations addressing a record key the
// store no longer holds.
var ErrNotFound = errors.New("record: not found")

// StoreError wraps any failure crossing the gateway boundary: network,
// permission, malformed data. The gateway never retries; callers decide.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("record: store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store is the narrow interface to the persistence collaborator. The full
// record set is always delivered ordered newest-created first; Update is a
// partial merge, never a full replace.
type Store interface {
	// FetchAll returns the complete current record set in one shot. The
	// orchestrator uses it for duplicate checks so validation is never
	// blocked on, or fooled by, the live stream's delivery latency.
	FetchAll(ctx context.Context) ([]Record, error)

	// FetchByStatus returns records matching one status, one shot.
	FetchByStatus(ctx context.Context, status Status) ([]Record, error)

	// Create stores a new document and returns its assigned key.
	Create(ctx context.Context, fields Fields) (string, error)

	// Update merges the supplied fields into the stored document.
	Update(ctx context.Context, id string, fields Fields) error

	// Delete removes the document permanently. No tombstone, no undo.
	Delete(ctx context.Context, id string) error

	// Subscribe starts a live feed: the complete ordered record set is sent
	// on the returned channel once immediately and again after every change
	// to any record. The release func must be called when the view goes
	// away; after release the channel is closed.
	Subscribe(ctx context.Context) (<-chan []Record, func(), error)
}
