package app

import (
	"context"
	"fmt"

	"github.com/example/jai/internal/core/repo"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// RepoServiceImpl implements the RepoService interface.
type RepoServiceImpl struct {
	repos secondary.RepoRepository
}

// NewRepoService creates a new RepoService with injected dependencies.
func NewRepoService(repos secondary.RepoRepository) *RepoServiceImpl {
	return &RepoServiceImpl{repos: repos}
}

// CreateRepo registers a new tracked repository.
func (s *RepoServiceImpl) CreateRepo(ctx context.Context, req primary.CreateRepoRequest) (*primary.Repo, error) {
	existing, err := s.repos.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check repo name: %w", err)
	}

	guard := repo.CanCreateRepo(repo.CreateRepoContext{
		Name:       req.Name,
		NameExists: existing != nil,
	})
	if !guard.Allowed {
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", primary.ErrConflict, guard.Reason)
		}
		return nil, fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	id, err := s.repos.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate repo ID: %w", err)
	}

	record := &secondary.RepoRecord{
		ID:            id,
		Name:          req.Name,
		GithubURL:     req.GithubURL,
		LocalPath:     req.LocalPath,
		DefaultBranch: req.DefaultBranch,
		NhID:          req.NhID,
		Notes:         req.Notes,
	}
	if err := s.repos.Create(ctx, record); err != nil {
		return nil, err
	}

	return s.GetRepo(ctx, id)
}

// GetRepo retrieves a repository by ID.
func (s *RepoServiceImpl) GetRepo(ctx context.Context, repoID string) (*primary.Repo, error) {
	record, err := s.repos.GetByID(ctx, repoID)
	if err != nil {
		return nil, err
	}
	return repoRecordToDTO(record), nil
}

// GetRepoByName retrieves a repository by its unique name.
func (s *RepoServiceImpl) GetRepoByName(ctx context.Context, name string) (*primary.Repo, error) {
	record, err := s.repos.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("repo %q: %w", name, primary.ErrNotFound)
	}
	return repoRecordToDTO(record), nil
}

// ListRepos lists repositories with optional filters.
func (s *RepoServiceImpl) ListRepos(ctx context.Context, filters primary.RepoFilters) ([]*primary.Repo, error) {
	records, err := s.repos.List(ctx, secondary.RepoFilters{Status: filters.Status})
	if err != nil {
		return nil, err
	}

	repos := make([]*primary.Repo, len(records))
	for i, r := range records {
		repos[i] = repoRecordToDTO(r)
	}
	return repos, nil
}

// UpdateRepo updates a repository's configuration.
func (s *RepoServiceImpl) UpdateRepo(ctx context.Context, req primary.UpdateRepoRequest) error {
	return s.repos.Update(ctx, &secondary.RepoRecord{
		ID:            req.RepoID,
		GithubURL:     req.GithubURL,
		LocalPath:     req.LocalPath,
		DefaultBranch: req.DefaultBranch,
		NhID:          req.NhID,
		Notes:         req.Notes,
	})
}

// ArchiveRepo archives a repository.
func (s *RepoServiceImpl) ArchiveRepo(ctx context.Context, repoID string) error {
	record, err := s.repos.GetByID(ctx, repoID)
	if err != nil {
		return err
	}

	guard := repo.CanArchiveRepo(repo.ArchiveRepoContext{RepoID: repoID, Status: record.Status})
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	return s.repos.UpdateStatus(ctx, repoID, primary.RepoStatusArchived)
}

// RestoreRepo restores an archived repository.
func (s *RepoServiceImpl) RestoreRepo(ctx context.Context, repoID string) error {
	record, err := s.repos.GetByID(ctx, repoID)
	if err != nil {
		return err
	}

	guard := repo.CanRestoreRepo(repo.RestoreRepoContext{RepoID: repoID, Status: record.Status})
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	return s.repos.UpdateStatus(ctx, repoID, primary.RepoStatusActive)
}

// DeleteRepo hard-deletes a repository. Refused while sync runs
// reference it.
func (s *RepoServiceImpl) DeleteRepo(ctx context.Context, repoID string) error {
	if _, err := s.repos.GetByID(ctx, repoID); err != nil {
		return err
	}

	hasRuns, err := s.repos.HasSyncRuns(ctx, repoID)
	if err != nil {
		return err
	}

	guard := repo.CanDeleteRepo(repo.DeleteRepoContext{RepoID: repoID, HasSyncRuns: hasRuns})
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrConflict, guard.Reason)
	}

	return s.repos.Delete(ctx, repoID)
}

func repoRecordToDTO(r *secondary.RepoRecord) *primary.Repo {
	return &primary.Repo{
		ID:            r.ID,
		Name:          r.Name,
		GithubURL:     r.GithubURL,
		LocalPath:     r.LocalPath,
		DefaultBranch: r.DefaultBranch,
		NhID:          r.NhID,
		Notes:         r.Notes,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Ensure RepoServiceImpl implements the interface
var _ primary.RepoService = (*RepoServiceImpl)(nil)
