package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// SotEventRepository implements secondary.SotEventRepository with
// SQLite. The log is append-only: this type deliberately has no update
// or delete methods.
type SotEventRepository struct {
	db *sql.DB
}

// NewSotEventRepository creates a new SQLite event repository.
func NewSotEventRepository(db *sql.DB) *SotEventRepository {
	return &SotEventRepository{db: db}
}

const sotEventColumns = "id, ts, source, kind, nh_id, event_id, summary, payload, repo_id, domain_id, created_at"

// Append inserts one event and returns it with its assigned ID.
func (r *SotEventRepository) Append(ctx context.Context, event *secondary.SotEventRecord) (*secondary.SotEventRecord, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO sot_events (ts, source, kind, nh_id, event_id, summary, payload, repo_id, domain_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		event.TS, event.Source, event.Kind, event.NhID, nullString(event.EventID),
		event.Summary, nullString(event.Payload), nullString(event.RepoID), nullString(event.DomainID),
	)
	if err != nil {
		err = translateErr(err)
		if errors.Is(err, primary.ErrConflict) {
			return nil, fmt.Errorf("event %s: %w", event.EventID, primary.ErrConflict)
		}
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read event ID: %w", err)
	}

	stored := *event
	stored.ID = id
	return &stored, nil
}

// Query retrieves events matching the filters, ordered by ts ascending.
// The id tiebreak keeps same-ts events in ingestion order.
func (r *SotEventRepository) Query(ctx context.Context, filters secondary.SotEventFilters) ([]*secondary.SotEventRecord, error) {
	query := "SELECT " + sotEventColumns + " FROM sot_events WHERE 1=1"
	args := []any{}

	if filters.RepoID != "" {
		query += " AND repo_id = ?"
		args = append(args, filters.RepoID)
	}
	if filters.DomainID != "" {
		query += " AND domain_id = ?"
		args = append(args, filters.DomainID)
	}
	if filters.Source != "" {
		query += " AND source = ?"
		args = append(args, filters.Source)
	}
	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filters.Kind)
	}
	if filters.Since != nil {
		query += " AND ts >= ?"
		args = append(args, *filters.Since)
	}
	if filters.Until != nil {
		query += " AND ts <= ?"
		args = append(args, *filters.Until)
	}

	query += " ORDER BY ts ASC, id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.SotEventRecord
	for rows.Next() {
		record, err := r.scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, record)
	}

	return events, rows.Err()
}

func (r *SotEventRepository) scanEvent(row rowScanner) (*secondary.SotEventRecord, error) {
	var (
		eventID   sql.NullString
		payload   sql.NullString
		repoID    sql.NullString
		domainID  sql.NullString
		createdAt time.Time
	)

	record := &secondary.SotEventRecord{}
	err := row.Scan(&record.ID, &record.TS, &record.Source, &record.Kind, &record.NhID,
		&eventID, &record.Summary, &payload, &repoID, &domainID, &createdAt)
	if err != nil {
		return nil, err
	}

	record.EventID = eventID.String
	record.Payload = payload.String
	record.RepoID = repoID.String
	record.DomainID = domainID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// Ensure SotEventRepository implements the interface
var _ secondary.SotEventRepository = (*SotEventRepository)(nil)
