// Package repo contains the pure business logic for repo registry
// operations. Guards are pure functions that evaluate preconditions
// without side effects.
package repo

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// CreateRepoContext provides context for repo creation guards.
type CreateRepoContext struct {
	Name       string
	NameExists bool // true if a repo with this name already exists
}

// ArchiveRepoContext provides context for repo archive guards.
type ArchiveRepoContext struct {
	RepoID string
	Status string
}

// RestoreRepoContext provides context for repo restore guards.
type RestoreRepoContext struct {
	RepoID string
	Status string
}

// DeleteRepoContext provides context for repo deletion guards.
type DeleteRepoContext struct {
	RepoID      string
	HasSyncRuns bool
}

// CanCreateRepo evaluates whether a repo can be registered.
// Rules:
// - Name must not be empty
// - Name must be unique
func CanCreateRepo(ctx CreateRepoContext) GuardResult {
	if strings.TrimSpace(ctx.Name) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "repo name cannot be empty",
		}
	}

	if ctx.NameExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("repo with name %q already exists", ctx.Name),
		}
	}

	return GuardResult{Allowed: true}
}

// CanArchiveRepo evaluates whether a repo can be archived.
// Rules:
// - Status must be "active"
func CanArchiveRepo(ctx ArchiveRepoContext) GuardResult {
	if ctx.Status != "active" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only archive active repos (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanRestoreRepo evaluates whether a repo can be restored.
// Rules:
// - Status must be "archived"
func CanRestoreRepo(ctx RestoreRepoContext) GuardResult {
	if ctx.Status != "archived" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("can only restore archived repos (current status: %s)", ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}

// CanDeleteRepo evaluates whether a repo can be hard-deleted.
// Rules:
// - No sync runs may reference this repo (the run history is audit data)
func CanDeleteRepo(ctx DeleteRepoContext) GuardResult {
	if ctx.HasSyncRuns {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot delete repo %s with recorded sync runs", ctx.RepoID),
		}
	}

	return GuardResult{Allowed: true}
}
