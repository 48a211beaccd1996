package primary

import "context"

// PilotService defines the primary port for the pilot orchestrator.
// Sessions bound windows of agent activity; actions are the immutable
// audit trail inside a session.
type PilotService interface {
	// StartSession opens a new pilot session.
	StartSession(ctx context.Context, req StartSessionRequest) (*PilotSession, error)

	// RecordAction appends one audited action to an open session. The
	// orchestrator assigns ts itself, monotonic within the session.
	// Fails with ErrSessionClosed if the session has ended and with
	// ErrValidation if reason is empty.
	RecordAction(ctx context.Context, req RecordActionRequest) (*PilotAction, error)

	// CloseSession sets endedAt. Idempotent: closing a closed session is
	// a no-op returning the session unchanged.
	CloseSession(ctx context.Context, sessionID string) (*PilotSession, error)

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, sessionID string) (*PilotSession, error)

	// ListSessions lists sessions, newest first.
	ListSessions(ctx context.Context, filters SessionFilters) ([]*PilotSession, error)

	// ListActions lists a session's actions ordered by ts ascending.
	ListActions(ctx context.Context, sessionID string) ([]*PilotAction, error)
}

// StartSessionRequest contains parameters for opening a session.
type StartSessionRequest struct {
	Mode       string
	Surface    string
	CreatedBy  string // opaque identity string from the identity provider
	ProjectKey string
	WaveLabel  string
}

// RecordActionRequest contains parameters for recording an action.
// Payload is a plain string, deliberately opaque at this layer.
type RecordActionRequest struct {
	SessionID    string
	Mode         string // may differ from the session mode
	ActionType   string
	Reason       string // mandatory justification; audit requirement
	TargetNodeID string // free-form reference into repo/domain/file space
	Payload      string
}

// PilotSession represents a bounded window of agent activity.
type PilotSession struct {
	ID         string
	ProjectKey string
	WaveLabel  string
	Mode       string
	Surface    string
	CreatedBy  string
	StartedAt  string
	EndedAt    string // empty while the session is open
}

// PilotAction represents one audited action within a session.
type PilotAction struct {
	ID           int64
	SessionID    string
	TS           string
	Mode         string
	TargetNodeID string
	ActionType   string
	Payload      string
	Reason       string
}

// SessionFilters contains filter options for listing sessions.
type SessionFilters struct {
	Open  bool // only sessions with no endedAt
	Limit int
}
