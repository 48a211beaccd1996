package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// DomainRepository implements secondary.DomainRepository with SQLite.
type DomainRepository struct {
	db *sql.DB
}

// NewDomainRepository creates a new SQLite domain repository.
func NewDomainRepository(db *sql.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

const domainColumns = "id, domain, repo_id, domain_key, engine_type, env, status, expires_at, created_at, updated_at"

// Create persists a new domain.
func (r *DomainRepository) Create(ctx context.Context, domain *secondary.DomainRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO domains (id, domain, repo_id, domain_key, engine_type, env, status, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		domain.ID, domain.Domain, nullString(domain.RepoID), nullString(domain.DomainKey),
		nullString(domain.EngineType), nullString(domain.Env), "active", nullTime(domain.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create domain: %w", translateErr(err))
	}

	return nil
}

// GetByID retrieves a domain by its ID.
func (r *DomainRepository) GetByID(ctx context.Context, id string) (*secondary.DomainRecord, error) {
	record, err := r.scanDomain(r.db.QueryRowContext(ctx,
		"SELECT "+domainColumns+" FROM domains WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("domain %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return record, nil
}

// GetByName retrieves a domain by its unique hostname/key.
func (r *DomainRepository) GetByName(ctx context.Context, name string) (*secondary.DomainRecord, error) {
	record, err := r.scanDomain(r.db.QueryRowContext(ctx,
		"SELECT "+domainColumns+" FROM domains WHERE domain = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain by name: %w", err)
	}
	return record, nil
}

// List retrieves domains matching the given filters.
func (r *DomainRepository) List(ctx context.Context, filters secondary.DomainFilters) ([]*secondary.DomainRecord, error) {
	query := "SELECT " + domainColumns + " FROM domains WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.RepoID != "" {
		query += " AND repo_id = ?"
		args = append(args, filters.RepoID)
	}

	query += " ORDER BY domain ASC"

	return r.queryDomains(ctx, query, args...)
}

// Update updates domain metadata.
func (r *DomainRepository) Update(ctx context.Context, domain *secondary.DomainRecord) error {
	query := "UPDATE domains SET updated_at = CURRENT_TIMESTAMP"
	args := []any{}

	if domain.DomainKey != "" {
		query += ", domain_key = ?"
		args = append(args, domain.DomainKey)
	}
	if domain.EngineType != "" {
		query += ", engine_type = ?"
		args = append(args, domain.EngineType)
	}
	if domain.Env != "" {
		query += ", env = ?"
		args = append(args, domain.Env)
	}
	if domain.ExpiresAt != nil {
		query += ", expires_at = ?"
		args = append(args, *domain.ExpiresAt)
	}

	query += " WHERE id = ?"
	args = append(args, domain.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update domain: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("domain %s: %w", domain.ID, primary.ErrNotFound)
	}

	return nil
}

// SetRepo updates the repo binding; empty repoID clears it.
func (r *DomainRepository) SetRepo(ctx context.Context, id, repoID string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE domains SET repo_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullString(repoID), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set domain repo: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("domain %s: %w", id, primary.ErrNotFound)
	}

	return nil
}

// ListExpiring retrieves domains with expires_at before the cutoff.
func (r *DomainRepository) ListExpiring(ctx context.Context, before time.Time) ([]*secondary.DomainRecord, error) {
	return r.queryDomains(ctx,
		"SELECT "+domainColumns+" FROM domains WHERE expires_at IS NOT NULL AND expires_at < ? ORDER BY expires_at ASC",
		before,
	)
}

// GetNextID returns the next available domain ID.
func (r *DomainRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM domains",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next domain ID: %w", err)
	}

	return fmt.Sprintf("DOM-%03d", maxID+1), nil
}

func (r *DomainRepository) queryDomains(ctx context.Context, query string, args ...any) ([]*secondary.DomainRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []*secondary.DomainRecord
	for rows.Next() {
		record, err := r.scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, record)
	}

	return domains, rows.Err()
}

func (r *DomainRepository) scanDomain(row rowScanner) (*secondary.DomainRecord, error) {
	var (
		repoID     sql.NullString
		domainKey  sql.NullString
		engineType sql.NullString
		env        sql.NullString
		expiresAt  sql.NullTime
		createdAt  time.Time
		updatedAt  time.Time
	)

	record := &secondary.DomainRecord{}
	err := row.Scan(&record.ID, &record.Domain, &repoID, &domainKey, &engineType,
		&env, &record.Status, &expiresAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.RepoID = repoID.String
	record.DomainKey = domainKey.String
	record.EngineType = engineType.String
	record.Env = env.String
	if expiresAt.Valid {
		t := expiresAt.Time
		record.ExpiresAt = &t
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure DomainRepository implements the interface
var _ secondary.DomainRepository = (*DomainRepository)(nil)
