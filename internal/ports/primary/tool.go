package primary

import "context"

// ToolService defines the primary port for the tool capability registry.
// The core reads tool schemas to validate pilot action payload shapes;
// it does not own tool semantics.
type ToolService interface {
	// RegisterTool registers a tool. Schemas must compile as JSON Schema.
	RegisterTool(ctx context.Context, req RegisterToolRequest) (*Tool, error)

	// GetTool retrieves a tool by its unique name.
	GetTool(ctx context.Context, name string) (*Tool, error)

	// ListTools lists all registered tools.
	ListTools(ctx context.Context) ([]*Tool, error)

	// DeleteTool removes a tool definition.
	DeleteTool(ctx context.Context, name string) error

	// ValidateInput validates a JSON payload against the tool's input
	// schema. Returns ErrNotFound if no such tool is registered and
	// ErrValidation if the payload does not conform.
	ValidateInput(ctx context.Context, toolName, payload string) error
}

// RegisterToolRequest contains parameters for registering a tool.
type RegisterToolRequest struct {
	Name         string
	Title        string
	InputSchema  string // JSON Schema document
	OutputSchema string // JSON Schema document
	Tags         string
}

// Tool represents a tool definition at the port boundary.
type Tool struct {
	ID           string
	Name         string
	Title        string
	InputSchema  string
	OutputSchema string
	Tags         string
	CreatedAt    string
	UpdatedAt    string
}
