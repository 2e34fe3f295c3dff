package record

import "time"

// AgreementType distinguishes the two kinds of tracked agreements.
type AgreementType string

const (
	TypeOJTMOA AgreementType = "OJT MOA"
	TypeMOUMOA AgreementType = "MOU/MOA"
)

// Status is the authoritative top-level lifecycle state of a record. It is
// seeded from the milestones at creation time and thereafter whatever was
// last explicitly written wins over anything recomputed from milestones.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Milestone names one of the ten optional handoff timestamps, in the order
// the paperwork moves between offices.
type Milestone string

const (
	DateProcessedNLO          Milestone = "dateProcessedNLO"
	DateForwardedLCAO         Milestone = "dateForwardedLCAO"
	DateReceivedLCAO          Milestone = "dateReceivedLCAO"
	DateForwardedAttorneys    Milestone = "dateForwardedAttorneys"
	DateReceivedLCAOWithCover Milestone = "dateReceivedLCAOWithCover"
	DateForwardedHost         Milestone = "dateForwardedHost"
	DateForwardedNEXUSS       Milestone = "dateForwardedNEXUSS"
	DateReceivedNEXUSS        Milestone = "dateReceivedNEXUSS"
	DateForwardedEO           Milestone = "dateForwardedEO"
	DateReceivedEO            Milestone = "dateReceivedEO"
)

// Record is the domain representation of one MOA document moving through the
// approval pipeline. It mirrors the moa_records document fields and carries
// no serialization annotations so it can be reused by different presentation
// layers.
type Record struct {
	ID string

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

	DateProcessedNLO          *time.Time
	DateForwardedLCAO         *time.Time
	DateReceivedLCAO          *time.Time
	DateForwardedAttorneys    *time.Time
	DateReceivedLCAOWithCover *time.Time
	DateForwardedHost         *time.Time
	DateForwardedNEXUSS       *time.Time
	DateReceivedNEXUSS        *time.Time
	DateForwardedEO           *time.Time
	DateReceivedEO            *time.Time

	Status        Status
	CompletedDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// milestoneField ties a milestone name to its pipeline step and accessors so
// the classifier and store codec do not repeat the ten fields by hand.
type milestoneField struct {
	name Milestone
	step int
	get  func(*Record) *time.Time
	set  func(*Record, *time.Time)
}

// milestoneFields lists the milestones in pipeline order. Steps group the
// handoffs the way the tracker groups them: NLO, LCAO, attorneys,
// host/NEXUSS, executive office.
var milestoneFields = []milestoneField{
	{DateProcessedNLO, 1,
		func(r *Record) *time.Time { return r.DateProcessedNLO },
		func(r *Record, t *time.Time) { r.DateProcessedNLO = t }},
	{DateForwardedLCAO, 2,
		func(r *Record) *time.Time { return r.DateForwardedLCAO },
		func(r *Record, t *time.Time) { r.DateForwardedLCAO = t }},
	{DateReceivedLCAO, 2,
		func(r *Record) *time.Time { return r.DateReceivedLCAO },
		func(r *Record, t *time.Time) { r.DateReceivedLCAO = t }},
	{DateForwardedAttorneys, 3,
		func(r *Record) *time.Time { return r.DateForwardedAttorneys },
		func(r *Record, t *time.Time) { r.DateForwardedAttorneys = t }},
	{DateReceivedLCAOWithCover, 3,
		func(r *Record) *time.Time { return r.DateReceivedLCAOWithCover },
		func(r *Record, t *time.Time) { r.DateReceivedLCAOWithCover = t }},
	{DateForwardedHost, 4,
		func(r *Record) *time.Time { return r.DateForwardedHost },
		func(r *Record, t *time.Time) { r.DateForwardedHost = t }},
	{DateForwardedNEXUSS, 4,
		func(r *Record) *time.Time { return r.DateForwardedNEXUSS },
		func(r *Record, t *time.Time) { r.DateForwardedNEXUSS = t }},
	{DateReceivedNEXUSS, 4,
		func(r *Record) *time.Time { return r.DateReceivedNEXUSS },
		func(r *Record, t *time.Time) { r.DateReceivedNEXUSS = t }},
	{DateForwardedEO, 5,
		func(r *Record) *time.Time { return r.DateForwardedEO },
		func(r *Record, t *time.Time) { r.DateForwardedEO = t }},
	{DateReceivedEO, 5,
		func(r *Record) *time.Time { return r.DateReceivedEO },
		func(r *Record, t *time.Time) { r.DateReceivedEO = t }},
}

// Milestones returns the ten milestone names in pipeline order.
func Milestones() []Milestone {
	out := make([]Milestone, len(milestoneFields))
	for i, f := range milestoneFields {
		out[i] = f.name
	}
	return out
}

// MilestoneAt returns the named milestone timestamp, or nil when the record
// has not reached it. Unknown names return nil.
func (r *Record) MilestoneAt(name Milestone) *time.Time {
	for _, f := range milestoneFields {
		if f.name == name {
			return f.get(r)
		}
	}
	return nil
}

// SetMilestone sets or clears the named milestone timestamp.
func (r *Record) SetMilestone(name Milestone, t *time.Time) {
	for _, f := range milestoneFields {
		if f.name == name {
			f.set(r, t)
			return
		}
	}
}

func validType(t AgreementType) bool {
	return t == TypeOJTMOA || t == TypeMOUMOA
}

func validStatus(s Status) bool {
	return s == StatusPending || s == StatusCompleted
}
