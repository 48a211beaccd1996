package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/jai/internal/core/pilot"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// PilotRepository implements secondary.PilotRepository with SQLite.
type PilotRepository struct {
	db *sql.DB
}

// NewPilotRepository creates a new SQLite pilot repository.
func NewPilotRepository(db *sql.DB) *PilotRepository {
	return &PilotRepository{db: db}
}

const sessionColumns = "id, project_key, wave_label, mode, surface, created_by, started_at, ended_at"
const actionColumns = "id, session_id, ts, mode, target_node_id, action_type, payload, reason"

// CreateSession persists a new open session.
func (r *PilotRepository) CreateSession(ctx context.Context, session *secondary.PilotSessionRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pilot_sessions (id, project_key, wave_label, mode, surface, created_by, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		session.ID, nullString(session.ProjectKey), nullString(session.WaveLabel),
		session.Mode, session.Surface, session.CreatedBy, session.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pilot session: %w", translateErr(err))
	}

	return nil
}

// GetSession retrieves a session by its ID.
func (r *PilotRepository) GetSession(ctx context.Context, id string) (*secondary.PilotSessionRecord, error) {
	record, err := r.scanSession(r.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM pilot_sessions WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pilot session %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pilot session: %w", err)
	}
	return record, nil
}

// ListSessions retrieves sessions, newest first.
func (r *PilotRepository) ListSessions(ctx context.Context, filters secondary.PilotSessionFilters) ([]*secondary.PilotSessionRecord, error) {
	query := "SELECT " + sessionColumns + " FROM pilot_sessions WHERE 1=1"
	args := []any{}

	if filters.Open {
		query += " AND ended_at IS NULL"
	}

	query += " ORDER BY started_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pilot sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*secondary.PilotSessionRecord
	for rows.Next() {
		record, err := r.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pilot session: %w", err)
		}
		sessions = append(sessions, record)
	}

	return sessions, rows.Err()
}

// CloseSession sets ended_at on an open session. The ended_at guard in
// the WHERE clause means a concurrent close loses cleanly: the first
// writer wins and the second updates zero rows.
func (r *PilotRepository) CloseSession(ctx context.Context, id string, endedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE pilot_sessions SET ended_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND ended_at IS NULL",
		endedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to close pilot session: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("pilot session %s is not open: %w", id, primary.ErrSessionClosed)
	}

	return nil
}

// RecordAction inserts an action. The session's open state is
// re-checked inside the same transaction as the insert, so an action
// can never land in a session that closed while the action was in
// flight. The stored ts is clamped so it stays strictly monotonic
// within the session.
func (r *PilotRepository) RecordAction(ctx context.Context, action *secondary.PilotActionRecord) (*secondary.PilotActionRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var endedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		"SELECT ended_at FROM pilot_sessions WHERE id = ?", action.SessionID,
	).Scan(&endedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("pilot session %s: %w", action.SessionID, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check session state: %w", err)
	}
	if endedAt.Valid {
		return nil, fmt.Errorf("pilot session %s: %w", action.SessionID, primary.ErrSessionClosed)
	}

	// Read the latest ts from its declared column; the driver only
	// converts DATETIME columns, not aggregate expressions.
	var lastTS time.Time
	err = tx.QueryRowContext(ctx,
		"SELECT ts FROM pilot_actions WHERE session_id = ? ORDER BY ts DESC, id DESC LIMIT 1",
		action.SessionID,
	).Scan(&lastTS)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read last action ts: %w", err)
	}

	ts := action.TS
	if err == nil {
		ts = pilot.NextActionTS(lastTS, ts)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO pilot_actions (session_id, ts, mode, target_node_id, action_type, payload, reason) VALUES (?, ?, ?, ?, ?, ?, ?)",
		action.SessionID, ts, action.Mode, nullString(action.TargetNodeID),
		action.ActionType, nullString(action.Payload), action.Reason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record pilot action: %w", translateErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read action ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pilot action: %w", err)
	}

	stored := *action
	stored.ID = id
	stored.TS = ts
	return &stored, nil
}

// ListActions retrieves a session's actions ordered by ts ascending.
func (r *PilotRepository) ListActions(ctx context.Context, sessionID string) ([]*secondary.PilotActionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+actionColumns+" FROM pilot_actions WHERE session_id = ? ORDER BY ts ASC, id ASC",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pilot actions: %w", err)
	}
	defer rows.Close()

	var actions []*secondary.PilotActionRecord
	for rows.Next() {
		var (
			targetNodeID sql.NullString
			payload      sql.NullString
		)
		record := &secondary.PilotActionRecord{}
		err := rows.Scan(&record.ID, &record.SessionID, &record.TS, &record.Mode,
			&targetNodeID, &record.ActionType, &payload, &record.Reason)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pilot action: %w", err)
		}
		record.TargetNodeID = targetNodeID.String
		record.Payload = payload.String
		actions = append(actions, record)
	}

	return actions, rows.Err()
}

// GetNextSessionID returns the next available session ID.
func (r *PilotRepository) GetNextSessionID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM pilot_sessions",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next session ID: %w", err)
	}

	return fmt.Sprintf("PSES-%03d", maxID+1), nil
}

func (r *PilotRepository) scanSession(row rowScanner) (*secondary.PilotSessionRecord, error) {
	var (
		projectKey sql.NullString
		waveLabel  sql.NullString
		endedAt    sql.NullTime
	)

	record := &secondary.PilotSessionRecord{}
	err := row.Scan(&record.ID, &projectKey, &waveLabel, &record.Mode, &record.Surface,
		&record.CreatedBy, &record.StartedAt, &endedAt)
	if err != nil {
		return nil, err
	}

	record.ProjectKey = projectKey.String
	record.WaveLabel = waveLabel.String
	if endedAt.Valid {
		t := endedAt.Time
		record.EndedAt = &t
	}

	return record, nil
}

// Ensure PilotRepository implements the interface
var _ secondary.PilotRepository = (*PilotRepository)(nil)
