package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// SyncRunRepository implements secondary.SyncRunRepository with SQLite.
type SyncRunRepository struct {
	db *sql.DB
}

// NewSyncRunRepository creates a new SQLite sync run repository.
func NewSyncRunRepository(db *sql.DB) *SyncRunRepository {
	return &SyncRunRepository{db: db}
}

const syncRunColumns = `id, repo_id, type, status, "trigger", started_at, finished_at, workflow_run_url, payload`

// Create persists a new run in pending status.
func (r *SyncRunRepository) Create(ctx context.Context, run *secondary.SyncRunRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, repo_id, type, status, "trigger", started_at, workflow_run_url, payload) VALUES (?, ?, ?, 'pending', ?, ?, ?, ?)`,
		run.ID, nullString(run.RepoID), run.Type, nullString(run.Trigger),
		run.StartedAt, nullString(run.WorkflowRunURL), nullString(run.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create sync run: %w", translateErr(err))
	}

	return nil
}

// MarkRunning transitions pending -> running. The partial unique index
// on sync_runs(repo_id) WHERE status = 'running' is the storage-level
// backstop for per-repo mutual exclusion; a violation means another run
// is already active.
func (r *SyncRunRepository) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE sync_runs SET status = 'running', started_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = 'pending'",
		startedAt, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sync run %s: %w", id, primary.ErrSyncInProgress)
		}
		return fmt.Errorf("failed to mark sync run running: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("sync run %s is not pending: %w", id, primary.ErrNotFound)
	}

	return nil
}

// Finalize transitions a run to a terminal status. The status guard in
// the WHERE clause keeps terminal runs immutable.
func (r *SyncRunRepository) Finalize(ctx context.Context, id, status string, finishedAt time.Time, payload string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE sync_runs SET status = ?, finished_at = ?, payload = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status IN ('pending', 'running')",
		status, finishedAt, nullString(payload), id,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize sync run: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("sync run %s is not active: %w", id, primary.ErrNotFound)
	}

	return nil
}

// GetByID retrieves a run by its ID.
func (r *SyncRunRepository) GetByID(ctx context.Context, id string) (*secondary.SyncRunRecord, error) {
	record, err := r.scanRun(r.db.QueryRowContext(ctx,
		"SELECT "+syncRunColumns+" FROM sync_runs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync run %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}
	return record, nil
}

// List retrieves runs matching the given filters, newest first.
func (r *SyncRunRepository) List(ctx context.Context, filters secondary.SyncRunFilters) ([]*secondary.SyncRunRecord, error) {
	query := "SELECT " + syncRunColumns + " FROM sync_runs WHERE 1=1"
	args := []any{}

	if filters.RepoID != "" {
		query += " AND repo_id = ?"
		args = append(args, filters.RepoID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY started_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*secondary.SyncRunRecord
	for rows.Next() {
		record, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}
		runs = append(runs, record)
	}

	return runs, rows.Err()
}

// GetNextID returns the next available run ID.
func (r *SyncRunRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM sync_runs",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next sync run ID: %w", err)
	}

	return fmt.Sprintf("RUN-%05d", maxID+1), nil
}

func (r *SyncRunRepository) scanRun(row rowScanner) (*secondary.SyncRunRecord, error) {
	var (
		repoID         sql.NullString
		trigger        sql.NullString
		finishedAt     sql.NullTime
		workflowRunURL sql.NullString
		payload        sql.NullString
	)

	record := &secondary.SyncRunRecord{}
	err := row.Scan(&record.ID, &repoID, &record.Type, &record.Status, &trigger,
		&record.StartedAt, &finishedAt, &workflowRunURL, &payload)
	if err != nil {
		return nil, err
	}

	record.RepoID = repoID.String
	record.Trigger = trigger.String
	if finishedAt.Valid {
		t := finishedAt.Time
		record.FinishedAt = &t
	}
	record.WorkflowRunURL = workflowRunURL.String
	record.Payload = payload.String

	return record, nil
}

// Ensure SyncRunRepository implements the interface
var _ secondary.SyncRunRepository = (*SyncRunRepository)(nil)
