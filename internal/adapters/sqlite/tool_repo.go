package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/ports/secondary"
)

// ToolRepository implements secondary.ToolRepository with SQLite.
type ToolRepository struct {
	db *sql.DB
}

// NewToolRepository creates a new SQLite tool repository.
func NewToolRepository(db *sql.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

const toolColumns = "id, name, title, input_schema, output_schema, tags, created_at, updated_at"

// Create persists a new tool definition.
func (r *ToolRepository) Create(ctx context.Context, tool *secondary.ToolRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO jai_tools (id, name, title, input_schema, output_schema, tags) VALUES (?, ?, ?, ?, ?, ?)",
		tool.ID, tool.Name, nullString(tool.Title), nullString(tool.InputSchema),
		nullString(tool.OutputSchema), nullString(tool.Tags),
	)
	if err != nil {
		return fmt.Errorf("failed to create tool: %w", translateErr(err))
	}

	return nil
}

// GetByName retrieves a tool by its unique name.
func (r *ToolRepository) GetByName(ctx context.Context, name string) (*secondary.ToolRecord, error) {
	record, err := r.scanTool(r.db.QueryRowContext(ctx,
		"SELECT "+toolColumns+" FROM jai_tools WHERE name = ?", name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}
	return record, nil
}

// List retrieves all tools ordered by name.
func (r *ToolRepository) List(ctx context.Context) ([]*secondary.ToolRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+toolColumns+" FROM jai_tools ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	var tools []*secondary.ToolRecord
	for rows.Next() {
		record, err := r.scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		tools = append(tools, record)
	}

	return tools, rows.Err()
}

// Delete removes a tool definition.
func (r *ToolRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM jai_tools WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete tool: %w", translateErr(err))
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("tool %s: %w", name, primary.ErrNotFound)
	}

	return nil
}

// GetNextID returns the next available tool ID.
func (r *ToolRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM jai_tools",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next tool ID: %w", err)
	}

	return fmt.Sprintf("TOOL-%03d", maxID+1), nil
}

func (r *ToolRepository) scanTool(row rowScanner) (*secondary.ToolRecord, error) {
	var (
		title        sql.NullString
		inputSchema  sql.NullString
		outputSchema sql.NullString
		tags         sql.NullString
		createdAt    time.Time
		updatedAt    time.Time
	)

	record := &secondary.ToolRecord{}
	err := row.Scan(&record.ID, &record.Name, &title, &inputSchema, &outputSchema,
		&tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Title = title.String
	record.InputSchema = inputSchema.String
	record.OutputSchema = outputSchema.String
	record.Tags = tags.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure ToolRepository implements the interface
var _ secondary.ToolRepository = (*ToolRepository)(nil)
