package primary

import "errors"

// Error taxonomy for the service layer. Callers match with errors.Is;
// raw storage errors never cross the port boundary.
var (
	// ErrNotFound indicates a referenced repo, domain, run, session, or
	// tool does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a caller-side contract violation (missing
	// required field, malformed input). Not retryable.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness conflict (duplicate repo name,
	// duplicate domain, duplicate ingest event ID).
	ErrConflict = errors.New("already exists")

	// ErrForeignKey indicates a write referencing a nonexistent record.
	ErrForeignKey = errors.New("referenced record does not exist")

	// ErrSyncInProgress indicates a sync run is already active for the
	// repo. Callers may poll and retry; no queueing is guaranteed.
	ErrSyncInProgress = errors.New("sync already in progress for repo")

	// ErrSessionClosed indicates an action was attempted against a
	// pilot session that has already ended.
	ErrSessionClosed = errors.New("pilot session is closed")

	// ErrPartialFailure indicates a sync run finished with some per-file
	// failures. The run is still committed; failure detail is carried in
	// the run payload.
	ErrPartialFailure = errors.New("sync completed with per-file failures")
)
