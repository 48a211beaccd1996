package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// ToolServiceImpl implements the ToolService interface. Schemas are
// compiled on registration so a bad document is rejected up front, and
// again on validation since definitions can change underneath a long
// process.
type ToolServiceImpl struct {
	tools secondary.ToolRepository
}

// NewToolService creates a new ToolService with injected dependencies.
func NewToolService(tools secondary.ToolRepository) *ToolServiceImpl {
	return &ToolServiceImpl{tools: tools}
}

// RegisterTool registers a tool after compiling its schemas.
func (s *ToolServiceImpl) RegisterTool(ctx context.Context, req primary.RegisterToolRequest) (*primary.Tool, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: tool name cannot be empty", primary.ErrValidation)
	}

	existing, err := s.tools.GetByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check tool name: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: tool %q already exists", primary.ErrConflict, req.Name)
	}

	if req.InputSchema != "" {
		if _, err := compileSchema(req.InputSchema); err != nil {
			return nil, fmt.Errorf("%w: input schema: %v", primary.ErrValidation, err)
		}
	}
	if req.OutputSchema != "" {
		if _, err := compileSchema(req.OutputSchema); err != nil {
			return nil, fmt.Errorf("%w: output schema: %v", primary.ErrValidation, err)
		}
	}

	id, err := s.tools.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tool ID: %w", err)
	}

	if err := s.tools.Create(ctx, &secondary.ToolRecord{
		ID:           id,
		Name:         req.Name,
		Title:        req.Title,
		InputSchema:  req.InputSchema,
		OutputSchema: req.OutputSchema,
		Tags:         req.Tags,
	}); err != nil {
		return nil, err
	}

	return s.GetTool(ctx, req.Name)
}

// GetTool retrieves a tool by its unique name.
func (s *ToolServiceImpl) GetTool(ctx context.Context, name string) (*primary.Tool, error) {
	record, err := s.tools.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("tool %q: %w", name, primary.ErrNotFound)
	}
	return toolRecordToDTO(record), nil
}

// ListTools lists all registered tools.
func (s *ToolServiceImpl) ListTools(ctx context.Context) ([]*primary.Tool, error) {
	records, err := s.tools.List(ctx)
	if err != nil {
		return nil, err
	}

	tools := make([]*primary.Tool, len(records))
	for i, r := range records {
		tools[i] = toolRecordToDTO(r)
	}
	return tools, nil
}

// DeleteTool removes a tool definition.
func (s *ToolServiceImpl) DeleteTool(ctx context.Context, name string) error {
	record, err := s.tools.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("tool %q: %w", name, primary.ErrNotFound)
	}
	return s.tools.Delete(ctx, name)
}

// ValidateInput validates a JSON payload against the tool's input
// schema.
func (s *ToolServiceImpl) ValidateInput(ctx context.Context, toolName, payload string) error {
	record, err := s.tools.GetByName(ctx, toolName)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("tool %q: %w", toolName, primary.ErrNotFound)
	}
	if record.InputSchema == "" {
		return nil
	}

	schema, err := compileSchema(record.InputSchema)
	if err != nil {
		return fmt.Errorf("tool %q has an uncompilable input schema: %w", toolName, err)
	}

	instance, err := jsonschema.UnmarshalJSON(strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: payload is not valid JSON: %v", primary.ErrValidation, err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: payload does not conform to tool %q input schema: %v",
			primary.ErrValidation, toolName, err)
	}

	return nil
}

func compileSchema(raw string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func toolRecordToDTO(r *secondary.ToolRecord) *primary.Tool {
	return &primary.Tool{
		ID:           r.ID,
		Name:         r.Name,
		Title:        r.Title,
		InputSchema:  r.InputSchema,
		OutputSchema: r.OutputSchema,
		Tags:         r.Tags,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Ensure ToolServiceImpl implements the interface
var _ primary.ToolService = (*ToolServiceImpl)(nil)
