package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/jai/internal/core/pilot"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// PayloadValidator validates an action payload against the named
// tool's input schema. Wired to the tool registry when payload
// validation is enabled; nil means payloads are stored unchecked.
type PayloadValidator interface {
	ValidateInput(ctx context.Context, toolName, payload string) error
}

// PilotServiceImpl implements the PilotService interface.
type PilotServiceImpl struct {
	pilots    secondary.PilotRepository
	validator PayloadValidator
	now       func() time.Time
}

// NewPilotService creates a new PilotService with injected dependencies.
// validator may be nil to disable payload schema checks.
func NewPilotService(pilots secondary.PilotRepository, validator PayloadValidator) *PilotServiceImpl {
	return &PilotServiceImpl{pilots: pilots, validator: validator, now: time.Now}
}

// StartSession opens a new pilot session.
func (s *PilotServiceImpl) StartSession(ctx context.Context, req primary.StartSessionRequest) (*primary.PilotSession, error) {
	guard := pilot.CanStartSession(pilot.StartSessionContext{
		Mode:      req.Mode,
		Surface:   req.Surface,
		CreatedBy: req.CreatedBy,
	})
	if !guard.Allowed {
		return nil, fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	id, err := s.pilots.GetNextSessionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	record := &secondary.PilotSessionRecord{
		ID:         id,
		ProjectKey: req.ProjectKey,
		WaveLabel:  req.WaveLabel,
		Mode:       req.Mode,
		Surface:    req.Surface,
		CreatedBy:  req.CreatedBy,
		StartedAt:  s.now(),
	}
	if err := s.pilots.CreateSession(ctx, record); err != nil {
		return nil, err
	}

	return s.GetSession(ctx, id)
}

// RecordAction appends one audited action to an open session.
func (s *PilotServiceImpl) RecordAction(ctx context.Context, req primary.RecordActionRequest) (*primary.PilotAction, error) {
	session, err := s.pilots.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	guard := pilot.CanRecordAction(pilot.RecordActionContext{
		SessionClosed: session.EndedAt != nil,
		Mode:          req.Mode,
		ActionType:    req.ActionType,
		Reason:        req.Reason,
	})
	if !guard.Allowed {
		if session.EndedAt != nil {
			return nil, fmt.Errorf("session %s: %w", req.SessionID, primary.ErrSessionClosed)
		}
		return nil, fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	if s.validator != nil {
		if err := s.validatePayload(ctx, req.ActionType, req.Payload); err != nil {
			return nil, err
		}
	}

	record, err := s.pilots.RecordAction(ctx, &secondary.PilotActionRecord{
		SessionID:    req.SessionID,
		TS:           s.now(),
		Mode:         req.Mode,
		TargetNodeID: req.TargetNodeID,
		ActionType:   req.ActionType,
		Payload:      req.Payload,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, err
	}

	return actionRecordToDTO(record), nil
}

// CloseSession sets endedAt. Idempotent.
func (s *PilotServiceImpl) CloseSession(ctx context.Context, sessionID string) (*primary.PilotSession, error) {
	if _, err := s.pilots.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	err := s.pilots.CloseSession(ctx, sessionID, s.now())
	if err != nil && !errors.Is(err, primary.ErrSessionClosed) {
		return nil, err
	}

	return s.GetSession(ctx, sessionID)
}

// GetSession retrieves a session by ID.
func (s *PilotServiceImpl) GetSession(ctx context.Context, sessionID string) (*primary.PilotSession, error) {
	record, err := s.pilots.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sessionRecordToDTO(record), nil
}

// ListSessions lists sessions, newest first.
func (s *PilotServiceImpl) ListSessions(ctx context.Context, filters primary.SessionFilters) ([]*primary.PilotSession, error) {
	records, err := s.pilots.ListSessions(ctx, secondary.PilotSessionFilters{
		Open:  filters.Open,
		Limit: filters.Limit,
	})
	if err != nil {
		return nil, err
	}

	sessions := make([]*primary.PilotSession, len(records))
	for i, r := range records {
		sessions[i] = sessionRecordToDTO(r)
	}
	return sessions, nil
}

// ListActions lists a session's actions ordered by ts ascending.
func (s *PilotServiceImpl) ListActions(ctx context.Context, sessionID string) ([]*primary.PilotAction, error) {
	if _, err := s.pilots.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	records, err := s.pilots.ListActions(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	actions := make([]*primary.PilotAction, len(records))
	for i, r := range records {
		actions[i] = actionRecordToDTO(r)
	}
	return actions, nil
}

// validatePayload checks the payload shape against a registered tool
// matching the action type. An action type with no registered tool
// passes with the payload stored untouched; the payload is opaque at
// this layer and only a tool's input schema can demand JSON.
func (s *PilotServiceImpl) validatePayload(ctx context.Context, actionType, payload string) error {
	err := s.validator.ValidateInput(ctx, actionType, payload)
	if err == nil || errors.Is(err, primary.ErrNotFound) {
		return nil
	}
	return err
}

func sessionRecordToDTO(r *secondary.PilotSessionRecord) *primary.PilotSession {
	dto := &primary.PilotSession{
		ID:         r.ID,
		ProjectKey: r.ProjectKey,
		WaveLabel:  r.WaveLabel,
		Mode:       r.Mode,
		Surface:    r.Surface,
		CreatedBy:  r.CreatedBy,
		StartedAt:  r.StartedAt.Format(time.RFC3339),
	}
	if r.EndedAt != nil {
		dto.EndedAt = r.EndedAt.Format(time.RFC3339)
	}
	return dto
}

func actionRecordToDTO(r *secondary.PilotActionRecord) *primary.PilotAction {
	return &primary.PilotAction{
		ID:           r.ID,
		SessionID:    r.SessionID,
		TS:           r.TS.Format(time.RFC3339Nano),
		Mode:         r.Mode,
		TargetNodeID: r.TargetNodeID,
		ActionType:   r.ActionType,
		Payload:      r.Payload,
		Reason:       r.Reason,
	}
}

// Ensure PilotServiceImpl implements the interface
var _ primary.PilotService = (*PilotServiceImpl)(nil)
