package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/jai/internal/core/event"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// EventServiceImpl implements the EventService interface.
type EventServiceImpl struct {
	events  secondary.SotEventRepository
	repos   secondary.RepoRepository
	domains secondary.DomainRepository
}

// NewEventService creates a new EventService with injected dependencies.
func NewEventService(
	events secondary.SotEventRepository,
	repos secondary.RepoRepository,
	domains secondary.DomainRepository,
) *EventServiceImpl {
	return &EventServiceImpl{events: events, repos: repos, domains: domains}
}

// Append records a single event.
func (s *EventServiceImpl) Append(ctx context.Context, req primary.AppendEventRequest) (*primary.SotEvent, error) {
	if req.Source == "" || req.Kind == "" {
		return nil, fmt.Errorf("%w: source and kind are required", primary.ErrValidation)
	}

	ts := req.TS
	if ts.IsZero() {
		ts = time.Now()
	}

	repoID, domainID, err := s.resolveCorrelation(ctx, req.RepoID, req.RepoName, req.DomainID, req.DomainName)
	if err != nil {
		return nil, err
	}

	record, err := s.events.Append(ctx, &secondary.SotEventRecord{
		TS:       ts,
		Source:   req.Source,
		Kind:     req.Kind,
		NhID:     req.NhID,
		EventID:  req.EventID,
		Summary:  req.Summary,
		Payload:  req.Payload,
		RepoID:   repoID,
		DomainID: domainID,
	})
	if err != nil {
		return nil, err
	}

	return eventRecordToDTO(record), nil
}

// IngestBatch ingests up to MaxIngestBatch envelopes, each succeeding
// or failing independently.
func (s *EventServiceImpl) IngestBatch(ctx context.Context, envelopes []primary.EventEnvelope) ([]primary.IngestResult, error) {
	if len(envelopes) > primary.MaxIngestBatch {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit of %d",
			primary.ErrValidation, len(envelopes), primary.MaxIngestBatch)
	}

	results := make([]primary.IngestResult, len(envelopes))
	for i, env := range envelopes {
		results[i] = s.ingestOne(ctx, env)
	}
	return results, nil
}

func (s *EventServiceImpl) ingestOne(ctx context.Context, env primary.EventEnvelope) primary.IngestResult {
	result := primary.IngestResult{EventID: env.EventID}

	ts, err := event.Validate(event.Envelope{
		Version:    env.Version,
		TS:         env.TS,
		Source:     env.Source,
		Kind:       env.Kind,
		NhID:       env.NhID,
		EventID:    env.EventID,
		Summary:    env.Summary,
		Payload:    env.Payload,
		RepoID:     env.RepoID,
		RepoName:   env.RepoName,
		DomainID:   env.DomainID,
		DomainName: env.DomainName,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	repoID, domainID, err := s.resolveCorrelation(ctx, env.RepoID, env.RepoName, env.DomainID, env.DomainName)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	record, err := s.events.Append(ctx, &secondary.SotEventRecord{
		TS:       ts,
		Source:   env.Source,
		Kind:     env.Kind,
		NhID:     env.NhID,
		EventID:  env.EventID,
		Summary:  env.Summary,
		Payload:  env.Payload,
		RepoID:   repoID,
		DomainID: domainID,
	})
	if err != nil {
		if errors.Is(err, primary.ErrConflict) {
			result.Error = fmt.Sprintf("duplicate event ID %q", env.EventID)
		} else {
			result.Error = err.Error()
		}
		return result
	}

	result.OK = true
	result.DBID = record.ID
	return result
}

// Query returns events matching the filter, ordered by ts ascending.
func (s *EventServiceImpl) Query(ctx context.Context, filters primary.EventFilters) ([]*primary.SotEvent, error) {
	records, err := s.events.Query(ctx, secondary.SotEventFilters{
		RepoID:   filters.RepoID,
		DomainID: filters.DomainID,
		Source:   filters.Source,
		Kind:     filters.Kind,
		Since:    filters.Since,
		Until:    filters.Until,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	events := make([]*primary.SotEvent, len(records))
	for i, r := range records {
		events[i] = eventRecordToDTO(r)
	}
	return events, nil
}

// resolveCorrelation maps repo/domain names onto IDs. An explicit ID
// wins over a name; an unresolvable name is an error rather than a
// silently dropped correlation.
func (s *EventServiceImpl) resolveCorrelation(ctx context.Context, repoID, repoName, domainID, domainName string) (string, string, error) {
	if repoID == "" && repoName != "" {
		r, err := s.repos.GetByName(ctx, repoName)
		if err != nil {
			return "", "", err
		}
		if r == nil {
			return "", "", fmt.Errorf("repo %q: %w", repoName, primary.ErrNotFound)
		}
		repoID = r.ID
	}

	if domainID == "" && domainName != "" {
		d, err := s.domains.GetByName(ctx, domainName)
		if err != nil {
			return "", "", err
		}
		if d == nil {
			return "", "", fmt.Errorf("domain %q: %w", domainName, primary.ErrNotFound)
		}
		domainID = d.ID
	}

	return repoID, domainID, nil
}

func eventRecordToDTO(r *secondary.SotEventRecord) *primary.SotEvent {
	return &primary.SotEvent{
		ID:        r.ID,
		TS:        r.TS.Format(time.RFC3339),
		Source:    r.Source,
		Kind:      r.Kind,
		NhID:      r.NhID,
		EventID:   r.EventID,
		Summary:   r.Summary,
		Payload:   r.Payload,
		RepoID:    r.RepoID,
		DomainID:  r.DomainID,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure EventServiceImpl implements the interface
var _ primary.EventService = (*EventServiceImpl)(nil)
