// Package primary defines the primary ports (driving interfaces) for the
// JAI portal core: the service contracts consumed by the CLI and by any
// future transport layer.
package primary

import "context"

// RepoService defines the primary port for repository registry operations.
type RepoService interface {
	// CreateRepo registers a new tracked repository.
	CreateRepo(ctx context.Context, req CreateRepoRequest) (*Repo, error)

	// GetRepo retrieves a repository by ID.
	GetRepo(ctx context.Context, repoID string) (*Repo, error)

	// GetRepoByName retrieves a repository by its unique name.
	GetRepoByName(ctx context.Context, name string) (*Repo, error)

	// ListRepos lists repositories with optional filters.
	ListRepos(ctx context.Context, filters RepoFilters) ([]*Repo, error)

	// UpdateRepo updates a repository's configuration.
	UpdateRepo(ctx context.Context, req UpdateRepoRequest) error

	// ArchiveRepo archives a repository (soft delete).
	ArchiveRepo(ctx context.Context, repoID string) error

	// RestoreRepo restores an archived repository.
	RestoreRepo(ctx context.Context, repoID string) error

	// DeleteRepo hard-deletes a repository. Refused while sync runs
	// reference it.
	DeleteRepo(ctx context.Context, repoID string) error
}

// CreateRepoRequest contains parameters for registering a repository.
type CreateRepoRequest struct {
	Name          string
	GithubURL     string
	LocalPath     string
	DefaultBranch string
	NhID          string
	Notes         string // free-form JSON bag
}

// UpdateRepoRequest contains parameters for updating a repository.
type UpdateRepoRequest struct {
	RepoID        string
	GithubURL     string
	LocalPath     string
	DefaultBranch string
	NhID          string
	Notes         string
}

// Repo represents a tracked repository at the port boundary.
type Repo struct {
	ID            string
	Name          string
	GithubURL     string
	LocalPath     string
	DefaultBranch string
	NhID          string
	Notes         string
	Status        string
	CreatedAt     string
	UpdatedAt     string
}

// RepoFilters contains filter options for listing repositories.
type RepoFilters struct {
	Status string
}

// Repository status constants
const (
	RepoStatusActive   = "active"
	RepoStatusArchived = "archived"
)
