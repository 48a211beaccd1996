package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/jai/internal/core/domain"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// DomainServiceImpl implements the DomainService interface.
type DomainServiceImpl struct {
	domains secondary.DomainRepository
	repos   secondary.RepoRepository
}

// NewDomainService creates a new DomainService with injected dependencies.
func NewDomainService(domains secondary.DomainRepository, repos secondary.RepoRepository) *DomainServiceImpl {
	return &DomainServiceImpl{domains: domains, repos: repos}
}

// CreateDomain registers a deployed environment.
func (s *DomainServiceImpl) CreateDomain(ctx context.Context, req primary.CreateDomainRequest) (*primary.Domain, error) {
	existing, err := s.domains.GetByName(ctx, req.Domain)
	if err != nil {
		return nil, fmt.Errorf("failed to check domain name: %w", err)
	}

	repoMissing := false
	if req.RepoID != "" {
		r, err := s.repos.GetByName(ctx, req.RepoID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			// Accept either the repo ID or its name.
			if _, err := s.repos.GetByID(ctx, req.RepoID); err != nil {
				repoMissing = true
			}
		} else {
			req.RepoID = r.ID
		}
	}

	guard := domain.CanCreateDomain(domain.CreateDomainContext{
		Domain:      req.Domain,
		NameExists:  existing != nil,
		RepoID:      req.RepoID,
		RepoMissing: repoMissing,
	})
	if !guard.Allowed {
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", primary.ErrConflict, guard.Reason)
		}
		return nil, fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	id, err := s.domains.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate domain ID: %w", err)
	}

	record := &secondary.DomainRecord{
		ID:         id,
		Domain:     req.Domain,
		RepoID:     req.RepoID,
		DomainKey:  req.DomainKey,
		EngineType: req.EngineType,
		Env:        req.Env,
		ExpiresAt:  req.ExpiresAt,
	}
	if err := s.domains.Create(ctx, record); err != nil {
		return nil, err
	}

	return s.GetDomain(ctx, id)
}

// GetDomain retrieves a domain by ID.
func (s *DomainServiceImpl) GetDomain(ctx context.Context, domainID string) (*primary.Domain, error) {
	record, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	return domainRecordToDTO(record), nil
}

// GetDomainByName retrieves a domain by its unique hostname.
func (s *DomainServiceImpl) GetDomainByName(ctx context.Context, name string) (*primary.Domain, error) {
	record, err := s.domains.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("domain %q: %w", name, primary.ErrNotFound)
	}
	return domainRecordToDTO(record), nil
}

// ListDomains lists domains with optional filters.
func (s *DomainServiceImpl) ListDomains(ctx context.Context, filters primary.DomainFilters) ([]*primary.Domain, error) {
	records, err := s.domains.List(ctx, secondary.DomainFilters{
		Status: filters.Status,
		RepoID: filters.RepoID,
	})
	if err != nil {
		return nil, err
	}

	domains := make([]*primary.Domain, len(records))
	for i, d := range records {
		domains[i] = domainRecordToDTO(d)
	}
	return domains, nil
}

// UpdateDomain updates domain metadata.
func (s *DomainServiceImpl) UpdateDomain(ctx context.Context, req primary.UpdateDomainRequest) error {
	return s.domains.Update(ctx, &secondary.DomainRecord{
		ID:         req.DomainID,
		DomainKey:  req.DomainKey,
		EngineType: req.EngineType,
		Env:        req.Env,
		ExpiresAt:  req.ExpiresAt,
	})
}

// LinkRepo binds the domain to a repository.
func (s *DomainServiceImpl) LinkRepo(ctx context.Context, domainID, repoID string) error {
	if _, err := s.domains.GetByID(ctx, domainID); err != nil {
		return err
	}

	repoMissing := false
	if _, err := s.repos.GetByID(ctx, repoID); err != nil {
		repoMissing = true
	}

	guard := domain.CanLinkRepo(domain.LinkRepoContext{
		DomainID:    domainID,
		RepoID:      repoID,
		RepoMissing: repoMissing,
	})
	if !guard.Allowed {
		return fmt.Errorf("%w: %s", primary.ErrValidation, guard.Reason)
	}

	return s.domains.SetRepo(ctx, domainID, repoID)
}

// UnlinkRepo clears the domain's repository binding.
func (s *DomainServiceImpl) UnlinkRepo(ctx context.Context, domainID string) error {
	if _, err := s.domains.GetByID(ctx, domainID); err != nil {
		return err
	}
	return s.domains.SetRepo(ctx, domainID, "")
}

// ListExpiring lists domains whose lease expires before the cutoff.
func (s *DomainServiceImpl) ListExpiring(ctx context.Context, before time.Time) ([]*primary.Domain, error) {
	records, err := s.domains.ListExpiring(ctx, before)
	if err != nil {
		return nil, err
	}

	domains := make([]*primary.Domain, len(records))
	for i, d := range records {
		domains[i] = domainRecordToDTO(d)
	}
	return domains, nil
}

func domainRecordToDTO(d *secondary.DomainRecord) *primary.Domain {
	dto := &primary.Domain{
		ID:         d.ID,
		Domain:     d.Domain,
		RepoID:     d.RepoID,
		DomainKey:  d.DomainKey,
		EngineType: d.EngineType,
		Env:        d.Env,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.ExpiresAt != nil {
		dto.ExpiresAt = d.ExpiresAt.Format(time.RFC3339)
	}
	return dto
}

// Ensure DomainServiceImpl implements the interface
var _ primary.DomainService = (*DomainServiceImpl)(nil)
