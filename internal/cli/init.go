package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/config"
	"github.com/example/jai/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var actor, defaultRepo, dbPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the JAI database and workspace config",
		Long: `Initialize the JAI database schema and write .jai/config.json in the
current directory. Safe to run repeatedly; the schema uses IF NOT EXISTS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			// The config is written before the database opens so a
			// db_path set here is honored by this same invocation.
			if _, err := config.LoadConfig(cwd); err == nil {
				fmt.Println("✓ Existing .jai/config.json kept")
			} else {
				cfg := &config.Config{
					Version:     "1",
					Actor:       actor,
					DefaultRepo: defaultRepo,
					DBPath:      dbPath,
				}
				if err := config.SaveConfig(cwd, cfg); err != nil {
					return err
				}
				fmt.Println("✓ Wrote .jai/config.json")
			}

			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}

			path, err := db.GetDBPath()
			if err != nil {
				return err
			}
			fmt.Printf("✓ Database ready at %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "Actor identity recorded on pilot sessions")
	cmd.Flags().StringVar(&defaultRepo, "default-repo", "", "Repo used by sync commands when the argument is omitted")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database file location (default ~/.jai/jai.db)")

	return cmd
}
