package models

// UpdateResult reports what one turn's classification did to the state.
type UpdateResult struct {
	// Updated lists buckets that received at least one new or replaced value.
	Updated []BucketID
	// Failed maps buckets whose proposed value was rejected to the reason.
	Failed map[BucketID]string
	// DuplicatesPrevented lists values dropped because an equivalent entry
	// already existed, rendered as strings for logging and acknowledgment.
	DuplicatesPrevented []string
	// CorrectionsApplied lists buckets whose value was replaced as a
	// user correction.
	CorrectionsApplied []BucketID
	// Skipped lists optional buckets the user declined this turn.
	Skipped []BucketID
}

// Any reports whether at least one bucket was updated this turn.
func (r *UpdateResult) Any() bool {
	return len(r.Updated) > 0
}

// DidUpdate reports whether the given bucket was updated this turn.
func (r *UpdateResult) DidUpdate(id BucketID) bool {
	for _, u := range r.Updated {
		if u == id {
			return true
		}
	}
	return false
}

// HasChanges reports whether anything was stored, corrected, or skipped.
func (r *UpdateResult) HasChanges() bool {
	return len(r.Updated) > 0 || len(r.CorrectionsApplied) > 0 || len(r.Skipped) > 0
}
