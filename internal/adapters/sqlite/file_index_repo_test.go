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

func TestFileIndexRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewFileIndexRepository(db)
	ctx := context.Background()

	repoID := seedRepo(t, db, "", "")

	t.Run("inserts new row with derived path parts", func(t *testing.T) {
		got, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID:    repoID,
			Path:      "src/app/page.tsx",
			SizeBytes: 1234,
			SHA256:    "abc123",
			IndexedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}

		if got.ID == 0 {
			t.Error("expected an assigned ID")
		}
		if got.Dir != "src/app" {
			t.Errorf("Dir = %q, want %q", got.Dir, "src/app")
		}
		if got.Filename != "page.tsx" {
			t.Errorf("Filename = %q, want %q", got.Filename, "page.tsx")
		}
		if got.Extension != "tsx" {
			t.Errorf("Extension = %q, want %q", got.Extension, "tsx")
		}
	})

	t.Run("same path updates in place, no duplicate row", func(t *testing.T) {
		first, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID:    repoID,
			Path:      "README.md",
			SHA256:    "aaa",
			IndexedAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("first Upsert failed: %v", err)
		}

		second, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID:    repoID,
			Path:      "README.md",
			SHA256:    "bbb",
			IndexedAt: time.Now().UTC().Add(time.Second),
		})
		if err != nil {
			t.Fatalf("second Upsert failed: %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("expected same row ID, got %d then %d", first.ID, second.ID)
		}
		if second.SHA256 != "bbb" {
			t.Errorf("SHA256 = %q, want %q", second.SHA256, "bbb")
		}
	})

	t.Run("indexed_at advances even when content is unchanged", func(t *testing.T) {
		t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
		t1 := t0.Add(time.Hour)

		if _, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID: repoID, Path: "a.txt", SHA256: "same", IndexedAt: t0,
		}); err != nil {
			t.Fatalf("first Upsert failed: %v", err)
		}

		got, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID: repoID, Path: "a.txt", SHA256: "same", IndexedAt: t1,
		})
		if err != nil {
			t.Fatalf("second Upsert failed: %v", err)
		}

		if !got.IndexedAt.Equal(t1) {
			t.Errorf("IndexedAt = %v, want %v", got.IndexedAt, t1)
		}
	})

	t.Run("upsert clears a tombstone", func(t *testing.T) {
		now := time.Now().UTC()
		if _, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID: repoID, Path: "ghost.go", SHA256: "x", IndexedAt: now,
		}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if err := repo.MarkRemoved(ctx, repoID, "ghost.go", "", now); err != nil {
			t.Fatalf("MarkRemoved failed: %v", err)
		}

		got, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID: repoID, Path: "ghost.go", SHA256: "y", IndexedAt: now.Add(time.Second),
		})
		if err != nil {
			t.Fatalf("reviving Upsert failed: %v", err)
		}
		if got.RemovedAt != nil {
			t.Errorf("expected tombstone cleared, got removed_at = %v", got.RemovedAt)
		}
	})

	t.Run("unknown repo fails the foreign key", func(t *testing.T) {
		_, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID: "REPO-999", Path: "x.txt", SHA256: "x", IndexedAt: time.Now().UTC(),
		})
		if !errors.Is(err, primary.ErrForeignKey) {
			t.Errorf("expected ErrForeignKey, got %v", err)
		}
	})
}

func TestFileIndexRepository_ListByRepo(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewFileIndexRepository(db)
	ctx := context.Background()

	repoID := seedRepo(t, db, "", "")
	now := time.Now().UTC()

	for _, path := range []string{"b.txt", "a.txt", "c.txt"} {
		if _, err := repo.Upsert(ctx, &secondary.FileIndexRecord{
			RepoID: repoID, Path: path, SHA256: "h-" + path, IndexedAt: now,
		}); err != nil {
			t.Fatalf("Upsert %s failed: %v", path, err)
		}
	}
	if err := repo.MarkRemoved(ctx, repoID, "c.txt", "", now); err != nil {
		t.Fatalf("MarkRemoved failed: %v", err)
	}

	t.Run("excludes tombstones by default, ordered by path", func(t *testing.T) {
		got, err := repo.ListByRepo(ctx, repoID, false)
		if err != nil {
			t.Fatalf("ListByRepo failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(got))
		}
		if got[0].Path != "a.txt" || got[1].Path != "b.txt" {
			t.Errorf("wrong order: %s, %s", got[0].Path, got[1].Path)
		}
	})

	t.Run("includeRemoved returns the tombstoned row too", func(t *testing.T) {
		got, err := repo.ListByRepo(ctx, repoID, true)
		if err != nil {
			t.Fatalf("ListByRepo failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(got))
		}
		if got[2].Path != "c.txt" || got[2].RemovedAt == nil {
			t.Errorf("expected c.txt tombstoned last, got %+v", got[2])
		}
	})
}

func TestFileIndexRepository_GetByPath(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewFileIndexRepository(db)
	ctx := context.Background()

	seedRepo(t, db, "", "")

	t.Run("returns nil nil for never-indexed path", func(t *testing.T) {
		got, err := repo.GetByPath(ctx, "REPO-001", "nope.txt")
		if err != nil {
			t.Fatalf("GetByPath failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})
}

func TestFileIndexRepository_MarkRemoved(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewFileIndexRepository(db)
	ctx := context.Background()

	seedRepo(t, db, "", "")

	t.Run("unknown path returns not found", func(t *testing.T) {
		err := repo.MarkRemoved(ctx, "REPO-001", "missing.txt", "", time.Now().UTC())
		if !errors.Is(err, primary.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
