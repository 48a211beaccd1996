// Package domain contains the pure business logic for domain registry
// operations.
package domain

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// CreateDomainContext provides context for domain creation guards.
type CreateDomainContext struct {
	Domain      string
	NameExists  bool // true if a domain with this hostname already exists
	RepoID      string
	RepoMissing bool // true if a repo link was requested but the repo does not exist
}

// LinkRepoContext provides context for repo-link guards.
type LinkRepoContext struct {
	DomainID    string
	RepoID      string
	RepoMissing bool
}

// CanCreateDomain evaluates whether a domain can be registered.
// Rules:
// - Hostname must not be empty
// - Hostname must be unique
// - A requested repo link must resolve
func CanCreateDomain(ctx CreateDomainContext) GuardResult {
	if strings.TrimSpace(ctx.Domain) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "domain cannot be empty",
		}
	}

	if ctx.NameExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("domain %q already exists", ctx.Domain),
		}
	}

	if ctx.RepoID != "" && ctx.RepoMissing {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("repo %s does not exist", ctx.RepoID),
		}
	}

	return GuardResult{Allowed: true}
}

// CanLinkRepo evaluates whether a domain can be bound to a repo.
func CanLinkRepo(ctx LinkRepoContext) GuardResult {
	if strings.TrimSpace(ctx.RepoID) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "repo ID cannot be empty",
		}
	}

	if ctx.RepoMissing {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("repo %s does not exist", ctx.RepoID),
		}
	}

	return GuardResult{Allowed: true}
}

// GenerateDomainID generates a domain ID from the current max number.
func GenerateDomainID(currentMax int) string {
	return fmt.Sprintf("DOM-%03d", currentMax+1)
}
