package primary

import (
	"context"
	"time"
)

// DomainService defines the primary port for domain registry operations.
type DomainService interface {
	// CreateDomain registers a deployed environment. The repo link is
	// optional; a domain can exist unlinked.
	CreateDomain(ctx context.Context, req CreateDomainRequest) (*Domain, error)

	// GetDomain retrieves a domain by ID.
	GetDomain(ctx context.Context, domainID string) (*Domain, error)

	// GetDomainByName retrieves a domain by its unique hostname/key.
	GetDomainByName(ctx context.Context, name string) (*Domain, error)

	// ListDomains lists domains with optional filters.
	ListDomains(ctx context.Context, filters DomainFilters) ([]*Domain, error)

	// UpdateDomain updates domain metadata.
	UpdateDomain(ctx context.Context, req UpdateDomainRequest) error

	// LinkRepo binds the domain to a repository.
	LinkRepo(ctx context.Context, domainID, repoID string) error

	// UnlinkRepo clears the domain's repository binding.
	UnlinkRepo(ctx context.Context, domainID string) error

	// ListExpiring lists domains whose lease expires before the cutoff.
	ListExpiring(ctx context.Context, before time.Time) ([]*Domain, error)
}

// CreateDomainRequest contains parameters for registering a domain.
type CreateDomainRequest struct {
	Domain     string
	RepoID     string // optional
	DomainKey  string
	EngineType string
	Env        string
	ExpiresAt  *time.Time // optional lease expiry
}

// UpdateDomainRequest contains parameters for updating a domain.
type UpdateDomainRequest struct {
	DomainID   string
	DomainKey  string
	EngineType string
	Env        string
	ExpiresAt  *time.Time
}

// Domain represents a deployed environment at the port boundary.
type Domain struct {
	ID         string
	Domain     string
	RepoID     string // empty when unlinked
	DomainKey  string
	EngineType string
	Env        string
	Status     string
	ExpiresAt  string // RFC3339, empty when no lease
	CreatedAt  string
	UpdatedAt  string
}

// DomainFilters contains filter options for listing domains.
type DomainFilters struct {
	Status string
	RepoID string
}
