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

func TestSotEventRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	events := sqlite.NewSotEventRepository(db)
	ctx := context.Background()

	t.Run("appends and assigns an ID", func(t *testing.T) {
		got, err := events.Append(ctx, &secondary.SotEventRecord{
			TS:      time.Now().UTC(),
			Source:  "github",
			Kind:    "push",
			Summary: "pushed 3 commits",
		})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if got.ID == 0 {
			t.Error("expected an assigned ID")
		}
	})

	t.Run("duplicate external event ID is a conflict", func(t *testing.T) {
		first := &secondary.SotEventRecord{
			TS: time.Now().UTC(), Source: "vercel", Kind: "deploy", EventID: "dpl_123",
		}
		if _, err := events.Append(ctx, first); err != nil {
			t.Fatalf("first Append failed: %v", err)
		}

		_, err := events.Append(ctx, &secondary.SotEventRecord{
			TS: time.Now().UTC(), Source: "vercel", Kind: "deploy", EventID: "dpl_123",
		})
		if !errors.Is(err, primary.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("events without external IDs never collide", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := events.Append(ctx, &secondary.SotEventRecord{
				TS: time.Now().UTC(), Source: "manual", Kind: "note",
			})
			if err != nil {
				t.Fatalf("Append %d failed: %v", i, err)
			}
		}
	})
}

func TestSotEventRepository_Query(t *testing.T) {
	db := setupTestDB(t)
	events := sqlite.NewSotEventRepository(db)
	ctx := context.Background()

	repoID := seedRepo(t, db, "", "")
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of ts order: the late arrival carries the earliest ts.
	for _, e := range []struct {
		ts     time.Time
		source string
	}{
		{base.Add(2 * time.Hour), "github"},
		{base.Add(1 * time.Hour), "vercel"},
		{base, "github"},
	} {
		if _, err := events.Append(ctx, &secondary.SotEventRecord{
			TS: e.ts, Source: e.source, Kind: "test", RepoID: repoID,
		}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	t.Run("ordered by ts, not by insertion", func(t *testing.T) {
		got, err := events.Query(ctx, secondary.SotEventFilters{RepoID: repoID})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 events, got %d", len(got))
		}
		if !got[0].TS.Equal(base) {
			t.Errorf("first event ts = %v, want %v", got[0].TS, base)
		}
		if got[0].ID <= got[1].ID && got[1].ID <= got[2].ID {
			t.Error("expected ts order to differ from insert order in this fixture")
		}
	})

	t.Run("source filter", func(t *testing.T) {
		got, err := events.Query(ctx, secondary.SotEventFilters{Source: "vercel"})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 vercel event, got %d", len(got))
		}
	})

	t.Run("since and until window", func(t *testing.T) {
		since := base.Add(30 * time.Minute)
		until := base.Add(90 * time.Minute)
		got, err := events.Query(ctx, secondary.SotEventFilters{Since: &since, Until: &until})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 event in window, got %d", len(got))
		}
		if got[0].Source != "vercel" {
			t.Errorf("wrong event in window: %+v", got[0])
		}
	})
}
