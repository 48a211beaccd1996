package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/jai/internal/ports/primary"
)

func TestRepoCreateAndGet(t *testing.T) {
	deps := setupDeps(t)
	svc := NewRepoService(deps.repos)
	ctx := context.Background()

	created, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{
		Name:      "portal",
		GithubURL: "https://github.com/example/portal",
		LocalPath: "/src/portal",
	})
	if err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}
	if created.ID != "REPO-001" {
		t.Errorf("repo ID = %q, want REPO-001", created.ID)
	}
	if created.Status != primary.RepoStatusActive {
		t.Errorf("Status = %q, want active", created.Status)
	}
	if created.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want the main default", created.DefaultBranch)
	}

	byName, err := svc.GetRepoByName(ctx, "portal")
	if err != nil {
		t.Fatalf("GetRepoByName() error = %v", err)
	}
	if byName.ID != created.ID {
		t.Errorf("GetRepoByName ID = %q, want %q", byName.ID, created.ID)
	}

	if _, err := svc.GetRepoByName(ctx, "nope"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("GetRepoByName(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRepoCreateValidation(t *testing.T) {
	deps := setupDeps(t)
	svc := NewRepoService(deps.repos)
	ctx := context.Background()

	if _, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: ""}); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("empty name error = %v, want ErrValidation", err)
	}

	if _, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: "portal"}); err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}
	if _, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: "portal"}); !errors.Is(err, primary.ErrConflict) {
		t.Errorf("duplicate name error = %v, want ErrConflict", err)
	}
}

func TestRepoArchiveRestore(t *testing.T) {
	deps := setupDeps(t)
	svc := NewRepoService(deps.repos)
	ctx := context.Background()

	created, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: "portal"})
	if err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}

	if err := svc.ArchiveRepo(ctx, created.ID); err != nil {
		t.Fatalf("ArchiveRepo() error = %v", err)
	}
	if err := svc.ArchiveRepo(ctx, created.ID); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("archiving an archived repo error = %v, want ErrValidation", err)
	}

	repos, err := svc.ListRepos(ctx, primary.RepoFilters{Status: primary.RepoStatusArchived})
	if err != nil {
		t.Fatalf("ListRepos() error = %v", err)
	}
	if len(repos) != 1 {
		t.Fatalf("archived list has %d repos, want 1", len(repos))
	}

	if err := svc.RestoreRepo(ctx, created.ID); err != nil {
		t.Fatalf("RestoreRepo() error = %v", err)
	}
	if err := svc.RestoreRepo(ctx, created.ID); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("restoring an active repo error = %v, want ErrValidation", err)
	}
}

func TestRepoDelete(t *testing.T) {
	deps := setupDeps(t)
	svc := NewRepoService(deps.repos)
	ctx := context.Background()

	created, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: "portal", LocalPath: "/src/portal"})
	if err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}

	// With sync history the delete is refused; the audit trail wins.
	source := newFakeSource()
	source.put("a.ts", "const a = 1")
	syncSvc := newSyncService(deps, source)
	if _, err := syncSvc.StartRun(ctx, primary.StartRunRequest{RepoID: created.ID}); err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}

	if err := svc.DeleteRepo(ctx, created.ID); !errors.Is(err, primary.ErrConflict) {
		t.Errorf("DeleteRepo(with runs) error = %v, want ErrConflict", err)
	}

	fresh, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: "scratch"})
	if err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}
	if err := svc.DeleteRepo(ctx, fresh.ID); err != nil {
		t.Fatalf("DeleteRepo() error = %v", err)
	}
	if _, err := svc.GetRepo(ctx, fresh.ID); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("GetRepo(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestRepoUpdate(t *testing.T) {
	deps := setupDeps(t)
	svc := NewRepoService(deps.repos)
	ctx := context.Background()

	created, err := svc.CreateRepo(ctx, primary.CreateRepoRequest{Name: "portal"})
	if err != nil {
		t.Fatalf("CreateRepo() error = %v", err)
	}

	err = svc.UpdateRepo(ctx, primary.UpdateRepoRequest{
		RepoID:        created.ID,
		LocalPath:     "/srv/checkouts/portal",
		DefaultBranch: "develop",
	})
	if err != nil {
		t.Fatalf("UpdateRepo() error = %v", err)
	}

	got, err := svc.GetRepo(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetRepo() error = %v", err)
	}
	if got.LocalPath != "/srv/checkouts/portal" || got.DefaultBranch != "develop" {
		t.Errorf("updated repo = %+v", got)
	}
}
