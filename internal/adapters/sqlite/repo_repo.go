package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// RepoRepository implements secondary.RepoRepository with SQLite.
type RepoRepository struct {
	db *sql.DB
}

// NewRepoRepository creates a new SQLite repo repository.
func NewRepoRepository(db *sql.DB) *RepoRepository {
	return &RepoRepository{db: db}
}

const repoColumns = "id, name, github_url, local_path, default_branch, nh_id, notes, status, created_at, updated_at"

// Create persists a new repo.
func (r *RepoRepository) Create(ctx context.Context, repo *secondary.RepoRecord) error {
	defaultBranch := repo.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO repos (id, name, github_url, local_path, default_branch, nh_id, notes, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		repo.ID, repo.Name, nullString(repo.GithubURL), nullString(repo.LocalPath),
		defaultBranch, nullString(repo.NhID), nullString(repo.Notes), "active",
	)
	if err != nil {
		return fmt.Errorf("failed to create repo: %w", translateErr(err))
	}

	return nil
}

// GetByID retrieves a repo by its ID.
func (r *RepoRepository) GetByID(ctx context.Context, id string) (*secondary.RepoRecord, error) {
	record, err := r.scanRepo(r.db.QueryRowContext(ctx,
		"SELECT "+repoColumns+" FROM repos WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("repo %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repo: %w", err)
	}
	return record, nil
}

// GetByName retrieves a repo by its unique name.
func (r *RepoRepository) GetByName(ctx context.Context, name string) (*secondary.RepoRecord, error) {
	record, err := r.scanRepo(r.db.QueryRowContext(ctx,
		"SELECT "+repoColumns+" FROM repos WHERE name = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil // nil, nil for "not found" to distinguish from errors
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repo by name: %w", err)
	}
	return record, nil
}

// List retrieves repos matching the given filters.
func (r *RepoRepository) List(ctx context.Context, filters secondary.RepoFilters) ([]*secondary.RepoRecord, error) {
	query := "SELECT " + repoColumns + " FROM repos WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list repos: %w", err)
	}
	defer rows.Close()

	var repos []*secondary.RepoRecord
	for rows.Next() {
		record, err := r.scanRepo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repo: %w", err)
		}
		repos = append(repos, record)
	}

	return repos, rows.Err()
}

// Update updates an existing repo.
func (r *RepoRepository) Update(ctx context.Context, repo *secondary.RepoRecord) error {
	query := "UPDATE repos SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if repo.GithubURL != "" {
		query += ", github_url = ?"
		args = append(args, repo.GithubURL)
	}
	if repo.LocalPath != "" {
		query += ", local_path = ?"
		args = append(args, repo.LocalPath)
	}
	if repo.DefaultBranch != "" {
		query += ", default_branch = ?"
		args = append(args, repo.DefaultBranch)
	}
	if repo.NhID != "" {
		query += ", nh_id = ?"
		args = append(args, repo.NhID)
	}
	if repo.Notes != "" {
		query += ", notes = ?"
		args = append(args, repo.Notes)
	}

	query += " WHERE id = ?"
	args = append(args, repo.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update repo: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("repo %s: %w", repo.ID, primary.ErrNotFound)
	}

	return nil
}

// UpdateStatus updates the status of a repo.
func (r *RepoRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE repos SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update repo status: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("repo %s: %w", id, primary.ErrNotFound)
	}

	return nil
}

// Delete removes a repo from persistence.
func (r *RepoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM repos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete repo: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("repo %s: %w", id, primary.ErrNotFound)
	}

	return nil
}

// HasSyncRuns checks if any sync runs reference the repo.
func (r *RepoRepository) HasSyncRuns(ctx context.Context, repoID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sync_runs WHERE repo_id = ?", repoID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check sync runs: %w", err)
	}
	return count > 0, nil
}

// GetNextID returns the next available repo ID.
func (r *RepoRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM repos",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next repo ID: %w", err)
	}

	return fmt.Sprintf("REPO-%03d", maxID+1), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RepoRepository) scanRepo(row rowScanner) (*secondary.RepoRecord, error) {
	var (
		githubURL     sql.NullString
		localPath     sql.NullString
		defaultBranch sql.NullString
		nhID          sql.NullString
		notes         sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
	)

	record := &secondary.RepoRecord{}
	err := row.Scan(&record.ID, &record.Name, &githubURL, &localPath, &defaultBranch,
		&nhID, &notes, &record.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.GithubURL = githubURL.String
	record.LocalPath = localPath.String
	record.DefaultBranch = defaultBranch.String
	record.NhID = nhID.String
	record.Notes = notes.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Ensure RepoRepository implements the interface
var _ secondary.RepoRepository = (*RepoRepository)(nil)
