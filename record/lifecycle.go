package record

// FinalStep is the pipeline step at which a record may be marked Completed:
// signed paperwork received back from the executive office.
const FinalStep = 5

// CurrentStep maps the furthest populated milestone to its pipeline step,
// 0 when nothing has been done yet through FinalStep when the signed copy is
// back. Milestones are checked last to first so a record with gaps is still
// classified by the furthest office it has reached.
func CurrentStep(r *Record) int {
	for i := len(milestoneFields) - 1; i >= 0; i-- {
		f := milestoneFields[i]
		if f.get(r) != nil {
			return f.step
		}
	}
	return 0
}

// SeedStatus derives the initial lifecycle status for a record being created:
// Completed when the final received-from-EO milestone is already populated at
// submission, Pending otherwise.
//
// This derivation applies at creation only. Once a record exists its stored
// Status field is authoritative; a manual toggle wins over anything
// recomputed from milestones.
func SeedStatus(r *Record) Status {
	if r.DateReceivedEO != nil {
		return StatusCompleted
	}
	return StatusPending
}
