// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application
// drives external systems.
package secondary

import (
	"context"
	"time"
)

// RepoRepository defines the secondary port for repo registry persistence.
type RepoRepository interface {
	// Create persists a new repo.
	Create(ctx context.Context, repo *RepoRecord) error

	// GetByID retrieves a repo by its ID.
	GetByID(ctx context.Context, id string) (*RepoRecord, error)

	// GetByName retrieves a repo by its unique name.
	// Returns nil, nil when no repo has that name.
	GetByName(ctx context.Context, name string) (*RepoRecord, error)

	// List retrieves repos matching the given filters.
	List(ctx context.Context, filters RepoFilters) ([]*RepoRecord, error)

	// Update updates an existing repo.
	Update(ctx context.Context, repo *RepoRecord) error

	// UpdateStatus updates the status of a repo.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes a repo from persistence.
	Delete(ctx context.Context, id string) error

	// HasSyncRuns reports whether any sync runs reference the repo.
	HasSyncRuns(ctx context.Context, repoID string) (bool, error)

	// GetNextID returns the next available repo ID.
	GetNextID(ctx context.Context) (string, error)
}

// RepoRecord represents a repo as stored in persistence.
type RepoRecord struct {
	ID            string
	Name          string
	GithubURL     string
	LocalPath     string
	DefaultBranch string
	NhID          string
	Notes         string
	Status        string
	CreatedAt     string
	UpdatedAt     string
}

// RepoFilters contains filter options for querying repos.
type RepoFilters struct {
	Status string
}

// DomainRepository defines the secondary port for domain persistence.
type DomainRepository interface {
	// Create persists a new domain.
	Create(ctx context.Context, domain *DomainRecord) error

	// GetByID retrieves a domain by its ID.
	GetByID(ctx context.Context, id string) (*DomainRecord, error)

	// GetByName retrieves a domain by its unique hostname/key.
	// Returns nil, nil when no domain has that name.
	GetByName(ctx context.Context, name string) (*DomainRecord, error)

	// List retrieves domains matching the given filters.
	List(ctx context.Context, filters DomainFilters) ([]*DomainRecord, error)

	// Update updates domain metadata.
	Update(ctx context.Context, domain *DomainRecord) error

	// SetRepo updates the repo binding; empty repoID clears it.
	SetRepo(ctx context.Context, id, repoID string) error

	// ListExpiring retrieves domains with expires_at before the cutoff.
	ListExpiring(ctx context.Context, before time.Time) ([]*DomainRecord, error)

	// GetNextID returns the next available domain ID.
	GetNextID(ctx context.Context) (string, error)
}

// DomainRecord represents a domain as stored in persistence.
type DomainRecord struct {
	ID         string
	Domain     string
	RepoID     string
	DomainKey  string
	EngineType string
	Env        string
	Status     string
	ExpiresAt  *time.Time
	CreatedAt  string
	UpdatedAt  string
}

// DomainFilters contains filter options for querying domains.
type DomainFilters struct {
	Status string
	RepoID string
}

// SyncRunRepository defines the secondary port for sync run persistence.
type SyncRunRepository interface {
	// Create persists a new run in pending status.
	Create(ctx context.Context, run *SyncRunRecord) error

	// MarkRunning transitions pending -> running and refreshes
	// started_at. The storage layer enforces at most one running run per
	// repo; a violation surfaces as ErrSyncInProgress.
	MarkRunning(ctx context.Context, id string, startedAt time.Time) error

	// Finalize transitions a run to a terminal status, setting
	// finished_at and the outcome payload. Terminal runs are immutable.
	Finalize(ctx context.Context, id, status string, finishedAt time.Time, payload string) error

	// GetByID retrieves a run by its ID.
	GetByID(ctx context.Context, id string) (*SyncRunRecord, error)

	// List retrieves runs matching the given filters, newest first.
	List(ctx context.Context, filters SyncRunFilters) ([]*SyncRunRecord, error)

	// GetNextID returns the next available run ID.
	GetNextID(ctx context.Context) (string, error)
}

// SyncRunRecord represents a sync run as stored in persistence.
type SyncRunRecord struct {
	ID             string
	RepoID         string
	Type           string
	Status         string
	Trigger        string
	StartedAt      time.Time
	FinishedAt     *time.Time
	WorkflowRunURL string
	Payload        string
}

// SyncRunFilters contains filter options for querying sync runs.
type SyncRunFilters struct {
	RepoID string
	Status string
	Limit  int
}

// FileIndexRepository defines the secondary port for the file index
// store: the current-state, upsert-keyed view of a repo's files.
type FileIndexRepository interface {
	// Upsert inserts or updates the row keyed by (repo_id, path).
	// Re-indexing the same path updates the existing row; indexed_at
	// always advances, and any tombstone is cleared. dir/filename/
	// extension are derived from the path at write time.
	Upsert(ctx context.Context, row *FileIndexRecord) (*FileIndexRecord, error)

	// GetByPath retrieves the row for one path.
	// Returns nil, nil when the path has never been indexed.
	GetByPath(ctx context.Context, repoID, path string) (*FileIndexRecord, error)

	// ListByRepo retrieves the current index for a repo, ordered by
	// path. Tombstoned rows are included only when includeRemoved is
	// set. The result is a fresh snapshot on every call.
	ListByRepo(ctx context.Context, repoID string, includeRemoved bool) ([]*FileIndexRecord, error)

	// MarkRemoved tombstones a path that disappeared from a snapshot.
	// Rows are never hard-deleted by normal operation.
	MarkRemoved(ctx context.Context, repoID, path, syncRunID string, at time.Time) error
}

// FileIndexRecord represents a file index row as stored in persistence.
type FileIndexRecord struct {
	ID            int64
	RepoID        string
	Path          string
	Dir           string
	Filename      string
	Extension     string
	SizeBytes     int64
	SHA256        string
	LastCommitSHA string
	IndexedAt     time.Time
	RemovedAt     *time.Time
	SyncRunID     string
}

// SotEventRepository defines the secondary port for the append-only
// event log. There is deliberately no update method.
type SotEventRepository interface {
	// Append inserts one event and returns it with its assigned ID.
	// A duplicate external event ID surfaces as ErrConflict.
	Append(ctx context.Context, event *SotEventRecord) (*SotEventRecord, error)

	// Query retrieves events matching the filters, ordered by ts
	// ascending.
	Query(ctx context.Context, filters SotEventFilters) ([]*SotEventRecord, error)
}

// SotEventRecord represents an event as stored in persistence.
type SotEventRecord struct {
	ID        int64
	TS        time.Time
	Source    string
	Kind      string
	NhID      string
	EventID   string
	Summary   string
	Payload   string
	RepoID    string
	DomainID  string
	CreatedAt string
}

// SotEventFilters contains filter options for querying events.
type SotEventFilters struct {
	RepoID   string
	DomainID string
	Source   string
	Kind     string
	Since    *time.Time
	Until    *time.Time
	Limit    int
}

// PilotRepository defines the secondary port for pilot session and
// action persistence.
type PilotRepository interface {
	// CreateSession persists a new open session.
	CreateSession(ctx context.Context, session *PilotSessionRecord) error

	// GetSession retrieves a session by its ID.
	GetSession(ctx context.Context, id string) (*PilotSessionRecord, error)

	// ListSessions retrieves sessions, newest first.
	ListSessions(ctx context.Context, filters PilotSessionFilters) ([]*PilotSessionRecord, error)

	// CloseSession sets ended_at on an open session.
	CloseSession(ctx context.Context, id string, endedAt time.Time) error

	// RecordAction inserts an action. The session's open state is
	// re-checked inside the same transaction as the insert, and the
	// stored ts is clamped to stay monotonic within the session. The
	// stored record is returned.
	RecordAction(ctx context.Context, action *PilotActionRecord) (*PilotActionRecord, error)

	// ListActions retrieves a session's actions ordered by ts ascending.
	ListActions(ctx context.Context, sessionID string) ([]*PilotActionRecord, error)

	// GetNextSessionID returns the next available session ID.
	GetNextSessionID(ctx context.Context) (string, error)
}

// PilotSessionRecord represents a session as stored in persistence.
type PilotSessionRecord struct {
	ID         string
	ProjectKey string
	WaveLabel  string
	Mode       string
	Surface    string
	CreatedBy  string
	StartedAt  time.Time
	EndedAt    *time.Time
}

// PilotSessionFilters contains filter options for querying sessions.
type PilotSessionFilters struct {
	Open  bool
	Limit int
}

// PilotActionRecord represents an action as stored in persistence.
// Payload is a plain string, stored unparsed.
type PilotActionRecord struct {
	ID           int64
	SessionID    string
	TS           time.Time
	Mode         string
	TargetNodeID string
	ActionType   string
	Payload      string
	Reason       string
}

// ToolRepository defines the secondary port for tool registry
// persistence.
type ToolRepository interface {
	// Create persists a new tool definition.
	Create(ctx context.Context, tool *ToolRecord) error

	// GetByName retrieves a tool by its unique name.
	// Returns nil, nil when no tool has that name.
	GetByName(ctx context.Context, name string) (*ToolRecord, error)

	// List retrieves all tools ordered by name.
	List(ctx context.Context) ([]*ToolRecord, error)

	// Delete removes a tool definition.
	Delete(ctx context.Context, name string) error

	// GetNextID returns the next available tool ID.
	GetNextID(ctx context.Context) (string, error)
}

// ToolRecord represents a tool as stored in persistence.
type ToolRecord struct {
	ID           string
	Name         string
	Title        string
	InputSchema  string
	OutputSchema string
	Tags         string
	CreatedAt    string
	UpdatedAt    string
}
