package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/jai/internal/ports/primary"
)

const deploySchema = `{
	"type": "object",
	"properties": {
		"environment": {"type": "string", "enum": ["staging", "production"]},
		"sha": {"type": "string"}
	},
	"required": ["environment"]
}`

func newToolService(deps *testDeps) *ToolServiceImpl {
	return NewToolService(deps.tools)
}

func TestToolRegisterAndGet(t *testing.T) {
	deps := setupDeps(t)
	svc := newToolService(deps)
	ctx := context.Background()

	tool, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{
		Name:        "deploy",
		Title:       "Deploy a repo",
		InputSchema: deploySchema,
		Tags:        "release",
	})
	if err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}
	if tool.ID != "TOOL-001" {
		t.Errorf("tool ID = %q, want TOOL-001", tool.ID)
	}

	got, err := svc.GetTool(ctx, "deploy")
	if err != nil {
		t.Fatalf("GetTool() error = %v", err)
	}
	if got.InputSchema != deploySchema {
		t.Error("stored input schema does not round-trip")
	}

	if _, err := svc.GetTool(ctx, "nope"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("GetTool(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestToolRegisterValidation(t *testing.T) {
	deps := setupDeps(t)
	svc := newToolService(deps)
	ctx := context.Background()

	if _, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{Name: "  "}); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}

	_, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{
		Name:        "broken",
		InputSchema: `{"type": "object",`,
	})
	if !errors.Is(err, primary.ErrValidation) {
		t.Errorf("malformed schema error = %v, want ErrValidation", err)
	}

	_, err = svc.RegisterTool(ctx, primary.RegisterToolRequest{
		Name:         "broken-output",
		OutputSchema: `{"type": 42}`,
	})
	if !errors.Is(err, primary.ErrValidation) {
		t.Errorf("uncompilable output schema error = %v, want ErrValidation", err)
	}

	if _, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{Name: "deploy"}); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}
	if _, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{Name: "deploy"}); !errors.Is(err, primary.ErrConflict) {
		t.Errorf("duplicate name error = %v, want ErrConflict", err)
	}
}

func TestToolValidateInput(t *testing.T) {
	deps := setupDeps(t)
	svc := newToolService(deps)
	ctx := context.Background()

	if _, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{
		Name:        "deploy",
		InputSchema: deploySchema,
	}); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}

	if err := svc.ValidateInput(ctx, "deploy", `{"environment": "production", "sha": "abc123"}`); err != nil {
		t.Errorf("conforming payload error = %v", err)
	}

	if err := svc.ValidateInput(ctx, "deploy", `{"sha": "abc123"}`); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("missing required property error = %v, want ErrValidation", err)
	}

	if err := svc.ValidateInput(ctx, "deploy", `{"environment": "qa"}`); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("enum violation error = %v, want ErrValidation", err)
	}

	if err := svc.ValidateInput(ctx, "deploy", `{broken`); !errors.Is(err, primary.ErrValidation) {
		t.Errorf("malformed payload error = %v, want ErrValidation", err)
	}

	if err := svc.ValidateInput(ctx, "unknown", `{}`); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("unknown tool error = %v, want ErrNotFound", err)
	}
}

func TestToolValidateInputNoSchema(t *testing.T) {
	deps := setupDeps(t)
	svc := newToolService(deps)
	ctx := context.Background()

	if _, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{Name: "freeform"}); err != nil {
		t.Fatalf("RegisterTool() error = %v", err)
	}

	// A tool without an input schema accepts anything.
	if err := svc.ValidateInput(ctx, "freeform", `{"whatever": true}`); err != nil {
		t.Errorf("schemaless tool error = %v", err)
	}
}

func TestToolListAndDelete(t *testing.T) {
	deps := setupDeps(t)
	svc := newToolService(deps)
	ctx := context.Background()

	for _, name := range []string{"deploy", "audit", "migrate"} {
		if _, err := svc.RegisterTool(ctx, primary.RegisterToolRequest{Name: name}); err != nil {
			t.Fatalf("RegisterTool(%s) error = %v", name, err)
		}
	}

	tools, err := svc.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 3 {
		t.Fatalf("listed %d tools, want 3", len(tools))
	}

	if err := svc.DeleteTool(ctx, "audit"); err != nil {
		t.Fatalf("DeleteTool() error = %v", err)
	}
	if err := svc.DeleteTool(ctx, "audit"); !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("repeat delete error = %v, want ErrNotFound", err)
	}

	tools, err = svc.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools) != 2 {
		t.Errorf("listed %d tools after delete, want 2", len(tools))
	}
}
