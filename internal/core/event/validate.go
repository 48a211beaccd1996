// Package event contains the pure validation rules for SoT event
// envelopes. Events carry two distinct times: ts (when the event
// occurred) and createdAt (when it was ingested); consumers must never
// assume the two are close.
package event

import (
	"fmt"
	"strings"
	"time"
)

// Version is the accepted envelope version tag. An empty version is
// allowed; anything else must match.
const Version = "sot-event-0.1"

// Envelope is the unvalidated wire form of one event.
type Envelope struct {
	Version    string
	TS         string
	Source     string
	Kind       string
	NhID       string
	EventID    string
	Summary    string
	Payload    string
	RepoID     string
	RepoName   string
	DomainID   string
	DomainName string
}

// Validate checks an envelope and returns the parsed ts on success.
// ts/source/kind are required; ts must parse as RFC3339. ts earlier
// than now is expected (historical imports); no recency check applies.
func Validate(e Envelope) (time.Time, error) {
	if e.Version != "" && e.Version != Version {
		return time.Time{}, fmt.Errorf("unexpected envelope version %q, expected %q", e.Version, Version)
	}

	if strings.TrimSpace(e.Source) == "" {
		return time.Time{}, fmt.Errorf("source cannot be empty")
	}

	if strings.TrimSpace(e.Kind) == "" {
		return time.Time{}, fmt.Errorf("kind cannot be empty")
	}

	if strings.TrimSpace(e.TS) == "" {
		return time.Time{}, fmt.Errorf("ts cannot be empty")
	}

	ts, err := time.Parse(time.RFC3339, e.TS)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ts %q: %w", e.TS, err)
	}

	return ts, nil
}
