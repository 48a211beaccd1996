package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/jai/internal/adapters/sqlite"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

func TestToolRepository(t *testing.T) {
	db := setupTestDB(t)
	tools := sqlite.NewToolRepository(db)
	ctx := context.Background()

	t.Run("creates and retrieves by name", func(t *testing.T) {
		err := tools.Create(ctx, &secondary.ToolRecord{
			ID:          "TOOL-001",
			Name:        "rename-node",
			Title:       "Rename Node",
			InputSchema: `{"type":"object"}`,
			Tags:        "graph",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := tools.GetByName(ctx, "rename-node")
		if err != nil {
			t.Fatalf("GetByName failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected tool, got nil")
		}
		if got.InputSchema != `{"type":"object"}` {
			t.Errorf("InputSchema = %q", got.InputSchema)
		}
	})

	t.Run("unknown name returns nil nil", func(t *testing.T) {
		got, err := tools.GetByName(ctx, "missing")
		if err != nil {
			t.Fatalf("GetByName failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		err := tools.Create(ctx, &secondary.ToolRecord{ID: "TOOL-002", Name: "rename-node"})
		if !errors.Is(err, primary.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		if err := tools.Create(ctx, &secondary.ToolRecord{ID: "TOOL-002", Name: "create-node"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := tools.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 tools, got %d", len(got))
		}
		if got[0].Name != "create-node" {
			t.Errorf("first tool = %s, want create-node", got[0].Name)
		}
	})

	t.Run("delete removes the tool", func(t *testing.T) {
		if err := tools.Delete(ctx, "create-node"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		err := tools.Delete(ctx, "create-node")
		if !errors.Is(err, primary.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("next ID increments", func(t *testing.T) {
		id, err := tools.GetNextID(ctx)
		if err != nil {
			t.Fatalf("GetNextID failed: %v", err)
		}
		if id != "TOOL-002" {
			t.Errorf("id = %q, want TOOL-002", id)
		}
	})
}
