// Package syncrun contains the pure business logic for sync runs:
// the run status machine and the file diff classifier. This is part of
// the Functional Core - no I/O, only pure functions.
package syncrun

// Status represents the possible states of a sync run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// InitialStatus returns the status for a newly created run.
func InitialStatus() Status {
	return StatusPending
}

// IsTerminal reports whether a run in this status is immutable.
func IsTerminal(s Status) bool {
	switch s {
	case StatusSucceeded, StatusPartial, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether the status machine permits from -> to.
// pending -> running, running -> {succeeded, partial, failed}; pending
// may also fail directly (run-level error before any file was touched).
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning || to == StatusFailed
	case StatusRunning:
		return to == StatusSucceeded || to == StatusPartial || to == StatusFailed
	}
	return false
}

// ResolveOutcome returns the terminal status for a finished pass.
// Any per-file failure or a cooperative cancellation resolves partial:
// the run still commits every successful upsert.
func ResolveOutcome(failedFiles int, cancelled bool) Status {
	if failedFiles > 0 || cancelled {
		return StatusPartial
	}
	return StatusSucceeded
}
