package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/jai/internal/db"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show an overview of the tracked estate",
		Long: `Display a one-screen overview: tracked repos with their latest sync
outcome, open pilot sessions, and domains expiring soon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			if path, err := db.GetDBPath(); err == nil {
				fmt.Printf("JAI Status (db: %s)\n\n", path)
			} else {
				fmt.Println("JAI Status")
				fmt.Println()
			}

			repos, err := wire.RepoService().ListRepos(ctx, primary.RepoFilters{Status: primary.RepoStatusActive})
			if err != nil {
				return fmt.Errorf("failed to list repos: %w", err)
			}

			if len(repos) == 0 {
				fmt.Println("No active repos. Register one with `jai repo create`.")
			} else {
				fmt.Printf("Repos (%d active):\n", len(repos))
				for _, r := range repos {
					fmt.Printf("  %s %s%s\n", r.ID, r.Name, latestRunMarker(ctx, r.ID))
				}
			}
			fmt.Println()

			sessions, err := wire.PilotService().ListSessions(ctx, primary.SessionFilters{Open: true})
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if len(sessions) == 0 {
				fmt.Println("No open pilot sessions.")
			} else {
				fmt.Printf("Open pilot sessions (%d):\n", len(sessions))
				for _, s := range sessions {
					fmt.Printf("  %s %s on %s by %s (since %s)\n",
						s.ID, s.Mode, s.Surface, s.CreatedBy, s.StartedAt)
				}
			}
			fmt.Println()

			expiring, err := wire.DomainService().ListExpiring(ctx, time.Now().Add(30*24*time.Hour))
			if err != nil {
				return fmt.Errorf("failed to list expiring domains: %w", err)
			}

			if len(expiring) > 0 {
				warn := color.New(color.FgYellow)
				warn.Printf("Domains expiring within 30 days (%d):\n", len(expiring))
				for _, d := range expiring {
					fmt.Printf("  %s %s expires %s\n", d.ID, d.Domain, d.ExpiresAt)
				}
			}

			return nil
		},
	}
}

// latestRunMarker renders the most recent sync outcome for a repo.
func latestRunMarker(ctx context.Context, repoID string) string {
	runs, err := wire.SyncService().ListRuns(ctx, primary.SyncRunFilters{RepoID: repoID, Limit: 1})
	if err != nil || len(runs) == 0 {
		return color.New(color.FgHiBlack).Sprint(" [never synced]")
	}

	run := runs[0]
	switch run.Status {
	case "succeeded":
		return color.New(color.FgHiGreen).Sprintf(" [%s %s]", run.ID, run.Status)
	case "partial":
		return color.New(color.FgYellow).Sprintf(" [%s %s]", run.ID, run.Status)
	case "failed":
		return color.New(color.FgRed).Sprintf(" [%s %s]", run.ID, run.Status)
	default:
		return color.New(color.FgCyan).Sprintf(" [%s %s]", run.ID, run.Status)
	}
}
