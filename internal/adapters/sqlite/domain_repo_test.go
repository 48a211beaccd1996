package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/jai/internal/adapters/sqlite"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

func TestDomainRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	domains := sqlite.NewDomainRepository(db)
	ctx := context.Background()

	repoID := seedRepo(t, db, "", "")

	t.Run("creates domain linked to a repo", func(t *testing.T) {
		err := domains.Create(ctx, &secondary.DomainRecord{
			ID:     "DOM-001",
			Domain: "app.example.com",
			RepoID: repoID,
			Env:    "prod",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := domains.GetByID(ctx, "DOM-001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.RepoID != repoID {
			t.Errorf("RepoID = %q, want %q", got.RepoID, repoID)
		}
	})

	t.Run("creates unlinked domain", func(t *testing.T) {
		err := domains.Create(ctx, &secondary.DomainRecord{
			ID:     "DOM-002",
			Domain: "orphan.example.com",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, _ := domains.GetByID(ctx, "DOM-002")
		if got.RepoID != "" {
			t.Errorf("RepoID = %q, want empty", got.RepoID)
		}
	})

	t.Run("duplicate hostname is a conflict", func(t *testing.T) {
		err := domains.Create(ctx, &secondary.DomainRecord{
			ID:     "DOM-003",
			Domain: "app.example.com",
		})
		if !errors.Is(err, primary.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("link to missing repo fails the foreign key", func(t *testing.T) {
		err := domains.Create(ctx, &secondary.DomainRecord{
			ID:     "DOM-004",
			Domain: "bad.example.com",
			RepoID: "REPO-999",
		})
		if !errors.Is(err, primary.ErrForeignKey) {
			t.Errorf("expected ErrForeignKey, got %v", err)
		}
	})
}

func TestDomainRepository_SetRepo(t *testing.T) {
	db := setupTestDB(t)
	domains := sqlite.NewDomainRepository(db)
	ctx := context.Background()

	repoID := seedRepo(t, db, "", "")
	if err := domains.Create(ctx, &secondary.DomainRecord{ID: "DOM-001", Domain: "a.example.com"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("links and unlinks", func(t *testing.T) {
		if err := domains.SetRepo(ctx, "DOM-001", repoID); err != nil {
			t.Fatalf("SetRepo failed: %v", err)
		}
		got, _ := domains.GetByID(ctx, "DOM-001")
		if got.RepoID != repoID {
			t.Errorf("RepoID = %q after link", got.RepoID)
		}

		if err := domains.SetRepo(ctx, "DOM-001", ""); err != nil {
			t.Fatalf("SetRepo clear failed: %v", err)
		}
		got, _ = domains.GetByID(ctx, "DOM-001")
		if got.RepoID != "" {
			t.Errorf("RepoID = %q after unlink, want empty", got.RepoID)
		}
	})
}

func TestDomainRepository_ListExpiring(t *testing.T) {
	db := setupTestDB(t)
	domains := sqlite.NewDomainRepository(db)
	ctx := context.Background()

	soon := time.Now().UTC().Add(24 * time.Hour)
	later := time.Now().UTC().Add(90 * 24 * time.Hour)

	fixtures := []struct {
		id, host  string
		expiresAt *time.Time
	}{
		{"DOM-001", "soon.example.com", &soon},
		{"DOM-002", "later.example.com", &later},
		{"DOM-003", "forever.example.com", nil},
	}
	for _, f := range fixtures {
		if err := domains.Create(ctx, &secondary.DomainRecord{
			ID: f.id, Domain: f.host, ExpiresAt: f.expiresAt,
		}); err != nil {
			t.Fatalf("Create %s failed: %v", f.id, err)
		}
	}

	got, err := domains.ListExpiring(ctx, time.Now().UTC().Add(30*24*time.Hour))
	if err != nil {
		t.Fatalf("ListExpiring failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 expiring domain, got %d", len(got))
	}
	if got[0].ID != "DOM-001" {
		t.Errorf("expiring domain = %s, want DOM-001", got[0].ID)
	}
}
