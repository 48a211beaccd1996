package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// ToolCmd returns the tool command
func ToolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Manage the tool capability registry",
		Long:  `Register tool definitions with JSON Schemas and validate payloads against them.`,
	}

	cmd.AddCommand(toolRegisterCmd())
	cmd.AddCommand(toolListCmd())
	cmd.AddCommand(toolShowCmd())
	cmd.AddCommand(toolDeleteCmd())
	cmd.AddCommand(toolValidateCmd())

	return cmd
}

func toolRegisterCmd() *cobra.Command {
	var title, inputSchemaFile, outputSchemaFile, tags string

	cmd := &cobra.Command{
		Use:   "register [name]",
		Short: "Register a tool definition",
		Long: `Register a tool definition. Schemas are compiled on registration so a
broken document is rejected immediately.

Example:
  jai tool register rename-node --title "Rename Node" --input-schema rename.schema.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			inputSchema, err := readSchemaFile(inputSchemaFile)
			if err != nil {
				return err
			}
			outputSchema, err := readSchemaFile(outputSchemaFile)
			if err != nil {
				return err
			}

			tool, err := wire.ToolService().RegisterTool(ctx, primary.RegisterToolRequest{
				Name:         args[0],
				Title:        title,
				InputSchema:  inputSchema,
				OutputSchema: outputSchema,
				Tags:         tags,
			})
			if err != nil {
				return fmt.Errorf("failed to register tool: %w", err)
			}

			fmt.Printf("✓ Registered tool %s: %s\n", tool.ID, tool.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Human-readable title")
	cmd.Flags().StringVar(&inputSchemaFile, "input-schema", "", "Path to the input JSON Schema")
	cmd.Flags().StringVar(&outputSchemaFile, "output-schema", "", "Path to the output JSON Schema")
	cmd.Flags().StringVar(&tags, "tags", "", "Comma-separated tags")

	return cmd
}

func toolListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			tools, err := wire.ToolService().ListTools(ctx)
			if err != nil {
				return fmt.Errorf("failed to list tools: %w", err)
			}

			if len(tools) == 0 {
				fmt.Println("No tools registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTITLE\tTAGS")
			fmt.Fprintln(w, "--\t----\t-----\t----")

			for _, t := range tools {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Title, t.Tags)
			}

			return w.Flush()
		},
	}
}

func toolShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show a tool definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			tool, err := wire.ToolService().GetTool(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get tool: %w", err)
			}

			fmt.Printf("Tool: %s (%s)\n", tool.Name, tool.ID)
			if tool.Title != "" {
				fmt.Printf("  Title: %s\n", tool.Title)
			}
			if tool.Tags != "" {
				fmt.Printf("  Tags: %s\n", tool.Tags)
			}
			if tool.InputSchema != "" {
				fmt.Printf("  Input Schema:\n%s\n", tool.InputSchema)
			}
			if tool.OutputSchema != "" {
				fmt.Printf("  Output Schema:\n%s\n", tool.OutputSchema)
			}

			return nil
		},
	}
}

func toolDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a tool definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			if err := wire.ToolService().DeleteTool(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete tool: %w", err)
			}

			fmt.Printf("✓ Deleted tool %s\n", args[0])
			return nil
		},
	}
}

func toolValidateCmd() *cobra.Command {
	var payloadFile string

	cmd := &cobra.Command{
		Use:   "validate [name] [payload]",
		Short: "Validate a JSON payload against a tool's input schema",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			payload := ""
			if len(args) == 2 {
				payload = args[1]
			} else if payloadFile != "" {
				data, err := os.ReadFile(payloadFile)
				if err != nil {
					return fmt.Errorf("failed to read payload file: %w", err)
				}
				payload = string(data)
			} else {
				return fmt.Errorf("provide a payload argument or --file")
			}

			if err := wire.ToolService().ValidateInput(ctx, args[0], payload); err != nil {
				return fmt.Errorf("payload rejected: %w", err)
			}

			fmt.Printf("✓ Payload conforms to tool %q input schema\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&payloadFile, "file", "f", "", "Read the payload from a file")

	return cmd
}

func readSchemaFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return string(data), nil
}
