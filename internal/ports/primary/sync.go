package primary

import "context"

// SyncService defines the primary port for the sync engine.
type SyncService interface {
	// StartRun executes one sync pass against a repo and returns the
	// finished run. At most one run may be active per repo; a concurrent
	// attempt fails fast with ErrSyncInProgress. If the run resolves
	// partial, the returned error wraps ErrPartialFailure and the run is
	// still committed.
	StartRun(ctx context.Context, req StartRunRequest) (*SyncRun, error)

	// Cancel requests cooperative cancellation of a running sync. The
	// engine finalizes the run as partial, preserving indexed progress.
	Cancel(ctx context.Context, runID string) error

	// GetRun retrieves a sync run by ID.
	GetRun(ctx context.Context, runID string) (*SyncRun, error)

	// ListRuns lists sync runs with optional filters.
	ListRuns(ctx context.Context, filters SyncRunFilters) ([]*SyncRun, error)

	// ListFiles lists the current file index for a repo.
	ListFiles(ctx context.Context, repoID string, includeRemoved bool) ([]*IndexedFile, error)
}

// StartRunRequest contains parameters for starting a sync run.
type StartRunRequest struct {
	RepoID         string
	Type           string // sync category, e.g. "file-index"
	Trigger        string // manual | scheduled | watch, may be empty
	WorkflowRunURL string
}

// SyncRun represents one sync execution at the port boundary.
type SyncRun struct {
	ID             string
	RepoID         string
	Type           string
	Status         string
	Trigger        string
	StartedAt      string
	FinishedAt     string // empty while the run is not terminal
	WorkflowRunURL string
	Payload        string // opaque JSON summary of inputs and outcome
}

// SyncRunFilters contains filter options for listing sync runs.
type SyncRunFilters struct {
	RepoID string
	Status string
	Limit  int
}

// IndexedFile represents a file index row at the port boundary.
type IndexedFile struct {
	Path          string
	Dir           string
	Filename      string
	Extension     string
	SizeBytes     int64
	SHA256        string
	LastCommitSHA string
	IndexedAt     string
	RemovedAt     string // empty unless tombstoned
	SyncRunID     string
}
