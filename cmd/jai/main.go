package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/cli"
	"github.com/example/jai/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "jai",
		Short:   "JAI - sync and event-correlation engine for the JAI estate",
		Version: version.String(),
		Long: `JAI tracks repositories and deployed domains, keeps a synced file index
per repo, correlates external events into a single source-of-truth log,
and audits pilot sessions acting on the estate.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.DetectAndStoreActor()
		},
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.RepoCmd())
	rootCmd.AddCommand(cli.DomainCmd())
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.EventCmd())
	rootCmd.AddCommand(cli.PilotCmd())
	rootCmd.AddCommand(cli.ToolCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
