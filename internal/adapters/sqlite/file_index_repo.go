package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/jai/internal/core/syncrun"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// FileIndexRepository implements secondary.FileIndexRepository with
// SQLite. The UNIQUE(repo_id, path) constraint is load-bearing: it is
// what turns re-indexing into an update instead of a duplicate row.
type FileIndexRepository struct {
	db *sql.DB
}

// NewFileIndexRepository creates a new SQLite file index repository.
func NewFileIndexRepository(db *sql.DB) *FileIndexRepository {
	return &FileIndexRepository{db: db}
}

const fileIndexColumns = "id, repo_id, path, dir, filename, extension, size_bytes, sha256, last_commit_sha, indexed_at, removed_at, sync_run_id"

// Upsert inserts or updates the row keyed by (repo_id, path).
// indexed_at always advances, even when the content hash is unchanged;
// an earlier tombstone is cleared because the file evidently exists
// again.
func (r *FileIndexRepository) Upsert(ctx context.Context, row *secondary.FileIndexRecord) (*secondary.FileIndexRecord, error) {
	dir, filename, extension := syncrun.PathParts(row.Path)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO file_index (repo_id, path, dir, filename, extension, size_bytes, sha256, last_commit_sha, indexed_at, sync_run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(repo_id, path) DO UPDATE SET
			dir = excluded.dir,
			filename = excluded.filename,
			extension = excluded.extension,
			size_bytes = excluded.size_bytes,
			sha256 = excluded.sha256,
			last_commit_sha = excluded.last_commit_sha,
			indexed_at = excluded.indexed_at,
			sync_run_id = excluded.sync_run_id,
			removed_at = NULL,
			updated_at = CURRENT_TIMESTAMP`,
		row.RepoID, row.Path, dir, filename, extension, row.SizeBytes, row.SHA256,
		nullString(row.LastCommitSHA), row.IndexedAt, nullString(row.SyncRunID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert file index row: %w", translateErr(err))
	}

	stored, err := r.GetByPath(ctx, row.RepoID, row.Path)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("file index row vanished after upsert: %w", primary.ErrNotFound)
	}
	return stored, nil
}

// GetByPath retrieves the row for one path.
func (r *FileIndexRepository) GetByPath(ctx context.Context, repoID, path string) (*secondary.FileIndexRecord, error) {
	record, err := r.scanRow(r.db.QueryRowContext(ctx,
		"SELECT "+fileIndexColumns+" FROM file_index WHERE repo_id = ? AND path = ?",
		repoID, path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file index row: %w", err)
	}
	return record, nil
}

// ListByRepo retrieves the current index for a repo, ordered by path.
// Every call re-queries, so the sequence is restartable by calling
// again.
func (r *FileIndexRepository) ListByRepo(ctx context.Context, repoID string, includeRemoved bool) ([]*secondary.FileIndexRecord, error) {
	query := "SELECT " + fileIndexColumns + " FROM file_index WHERE repo_id = ?"
	if !includeRemoved {
		query += " AND removed_at IS NULL"
	}
	query += " ORDER BY path ASC"

	rows, err := r.db.QueryContext(ctx, query, repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file index: %w", err)
	}
	defer rows.Close()

	var records []*secondary.FileIndexRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file index row: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// MarkRemoved tombstones a path missing from the latest snapshot.
// The row stays queryable; a later upsert of the same path revives it.
func (r *FileIndexRepository) MarkRemoved(ctx context.Context, repoID, path, syncRunID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE file_index SET removed_at = ?, sync_run_id = ?, updated_at = CURRENT_TIMESTAMP WHERE repo_id = ? AND path = ?",
		at, nullString(syncRunID), repoID, path,
	)
	if err != nil {
		return fmt.Errorf("failed to mark file removed: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("file index row %s:%s: %w", repoID, path, primary.ErrNotFound)
	}

	return nil
}

func (r *FileIndexRepository) scanRow(row rowScanner) (*secondary.FileIndexRecord, error) {
	var (
		lastCommitSHA sql.NullString
		removedAt     sql.NullTime
		syncRunID     sql.NullString
	)

	record := &secondary.FileIndexRecord{}
	err := row.Scan(&record.ID, &record.RepoID, &record.Path, &record.Dir, &record.Filename,
		&record.Extension, &record.SizeBytes, &record.SHA256, &lastCommitSHA,
		&record.IndexedAt, &removedAt, &syncRunID)
	if err != nil {
		return nil, err
	}

	record.LastCommitSHA = lastCommitSHA.String
	if removedAt.Valid {
		t := removedAt.Time
		record.RemovedAt = &t
	}
	record.SyncRunID = syncRunID.String

	return record, nil
}

// Ensure FileIndexRepository implements the interface
var _ secondary.FileIndexRepository = (*FileIndexRepository)(nil)
