package primary

import (
	"context"
	"time"
)

// EventService defines the primary port for the SoT event log.
// Events are append-only: nothing in this contract mutates a row.
type EventService interface {
	// Append records a single event. Either IDs or names may be used for
	// repo/domain correlation; names are resolved at append time.
	Append(ctx context.Context, req AppendEventRequest) (*SotEvent, error)

	// IngestBatch ingests up to MaxIngestBatch envelopes. Each envelope
	// succeeds or fails independently; one bad event never aborts the
	// batch. Results are returned in input order.
	IngestBatch(ctx context.Context, envelopes []EventEnvelope) ([]IngestResult, error)

	// Query returns events matching the filter, ordered by ts ascending.
	// Ordering is by event-occurred time, never by insert order: late
	// ingestion means ts order and visibility order can differ.
	Query(ctx context.Context, filters EventFilters) ([]*SotEvent, error)
}

// MaxIngestBatch bounds the number of envelopes per IngestBatch call.
const MaxIngestBatch = 500

// EnvelopeVersion is the accepted event envelope version tag.
const EnvelopeVersion = "sot-event-0.1"

// AppendEventRequest contains parameters for appending one event.
type AppendEventRequest struct {
	Source     string
	Kind       string
	TS         time.Time
	NhID       string
	EventID    string // optional external ID for ingest dedupe
	Summary    string
	Payload    string // canonical full blob, JSON text
	RepoID     string
	RepoName   string // resolved to RepoID when RepoID is empty
	DomainID   string
	DomainName string // resolved to DomainID when DomainID is empty
}

// EventEnvelope is the wire form of an event for batch ingest.
// TS is a string so malformed timestamps fail per-envelope, not
// per-batch.
type EventEnvelope struct {
	Version    string `json:"version,omitempty"`
	TS         string `json:"ts"`
	Source     string `json:"source"`
	Kind       string `json:"kind"`
	EventID    string `json:"eventId,omitempty"`
	NhID       string `json:"nhId,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Payload    string `json:"payload,omitempty"`
	RepoID     string `json:"repoId,omitempty"`
	RepoName   string `json:"repoName,omitempty"`
	DomainID   string `json:"domainId,omitempty"`
	DomainName string `json:"domainName,omitempty"`
}

// IngestResult reports the outcome of one envelope in a batch.
type IngestResult struct {
	EventID string
	OK      bool
	DBID    int64
	Error   string
}

// SotEvent represents an immutable cross-source event at the port
// boundary.
type SotEvent struct {
	ID        int64
	TS        string
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

// EventFilters contains filter options for querying events.
type EventFilters struct {
	RepoID   string
	DomainID string
	Source   string
	Kind     string
	Since    *time.Time
	Until    *time.Time
	Limit    int
}
