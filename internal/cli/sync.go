package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/adapters/fs"
	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run and inspect repo sync passes",
		Long:  `Run file index sync passes and inspect their history.`,
	}

	cmd.AddCommand(syncRunCmd())
	cmd.AddCommand(syncListCmd())
	cmd.AddCommand(syncShowCmd())
	cmd.AddCommand(syncCancelCmd())
	cmd.AddCommand(syncFilesCmd())
	cmd.AddCommand(syncWatchCmd())

	return cmd
}

func syncRunCmd() *cobra.Command {
	var trigger string

	cmd := &cobra.Command{
		Use:   "run [repo-id-or-name]",
		Short: "Run one sync pass against a repo (default_repo when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			ref, err := repoRefOrDefault(args)
			if err != nil {
				return err
			}
			repo, err := resolveRepo(ctx, ref)
			if err != nil {
				return err
			}

			run, err := wire.SyncService().StartRun(ctx, primary.StartRunRequest{
				RepoID:  repo.ID,
				Trigger: trigger,
			})
			if err != nil && !errors.Is(err, primary.ErrPartialFailure) {
				return fmt.Errorf("sync failed: %w", err)
			}

			if errors.Is(err, primary.ErrPartialFailure) {
				fmt.Printf("⚠ Run %s finished partial\n", run.ID)
			} else {
				fmt.Printf("✓ Run %s finished %s\n", run.ID, run.Status)
			}
			fmt.Printf("  %s\n", run.Payload)

			return nil
		},
	}

	cmd.Flags().StringVarP(&trigger, "trigger", "t", "manual", "What initiated this run")

	return cmd
}

func syncListCmd() *cobra.Command {
	var repoRef, status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sync runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			filters := primary.SyncRunFilters{Status: status, Limit: limit}
			if repoRef != "" {
				repo, err := resolveRepo(ctx, repoRef)
				if err != nil {
					return err
				}
				filters.RepoID = repo.ID
			}

			runs, err := wire.SyncService().ListRuns(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No sync runs found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tREPO\tTYPE\tSTATUS\tTRIGGER\tSTARTED\tFINISHED")
			fmt.Fprintln(w, "--\t----\t----\t------\t-------\t-------\t--------")

			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.RepoID, r.Type, r.Status, r.Trigger, r.StartedAt, r.FinishedAt)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&repoRef, "repo", "r", "", "Filter by repo ID or name")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")

	return cmd
}

func syncShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show sync run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			run, err := wire.SyncService().GetRun(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get run: %w", err)
			}

			fmt.Printf("Run: %s\n", run.ID)
			fmt.Printf("  Repo: %s\n", run.RepoID)
			fmt.Printf("  Type: %s\n", run.Type)
			fmt.Printf("  Status: %s\n", run.Status)
			fmt.Printf("  Trigger: %s\n", run.Trigger)
			fmt.Printf("  Started: %s\n", run.StartedAt)
			if run.FinishedAt != "" {
				fmt.Printf("  Finished: %s\n", run.FinishedAt)
			}
			if run.WorkflowRunURL != "" {
				fmt.Printf("  Workflow: %s\n", run.WorkflowRunURL)
			}
			if run.Payload != "" {
				fmt.Printf("  Outcome: %s\n", run.Payload)
			}

			return nil
		},
	}
}

func syncCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [run-id]",
		Short: "Request cancellation of a running sync",
		Long: `Request cooperative cancellation of a running sync.

The cancellation flag lives in the process executing the run, so this
only takes effect when invoked from the same process, e.g. against a
run started by an embedded service. A run started by "jai sync run" in
another terminal cannot be cancelled from here; interrupt that process
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			if err := wire.SyncService().Cancel(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to cancel run: %w", err)
			}

			fmt.Printf("✓ Cancellation requested for run %s\n", args[0])
			return nil
		},
	}
}

func syncFilesCmd() *cobra.Command {
	var includeRemoved bool

	cmd := &cobra.Command{
		Use:   "files [repo-id-or-name]",
		Short: "List a repo's current file index (default_repo when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			ref, err := repoRefOrDefault(args)
			if err != nil {
				return err
			}
			repo, err := resolveRepo(ctx, ref)
			if err != nil {
				return err
			}

			files, err := wire.SyncService().ListFiles(ctx, repo.ID, includeRemoved)
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			if len(files) == 0 {
				fmt.Println("No indexed files. Run a sync first:")
				fmt.Printf("  jai sync run %s\n", repo.Name)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "PATH\tSIZE\tSHA256\tINDEXED\tREMOVED")
			fmt.Fprintln(w, "----\t----\t------\t-------\t-------")

			for _, f := range files {
				sha := f.SHA256
				if len(sha) > 12 {
					sha = sha[:12]
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					f.Path, f.SizeBytes, sha, f.IndexedAt, f.RemovedAt)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&includeRemoved, "removed", false, "Include tombstoned files")

	return cmd
}

func syncWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [repo-id-or-name]",
		Short: "Watch a repo's local path and sync on change",
		Long: `Watch a repo's local path and run a sync pass whenever files change.
Changes are debounced so a burst of writes triggers one pass. Stop with Ctrl-C.
Falls back to the workspace default_repo when the argument is omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			ref, err := repoRefOrDefault(args)
			if err != nil {
				return err
			}
			repo, err := resolveRepo(ctx, ref)
			if err != nil {
				return err
			}
			if repo.LocalPath == "" {
				return fmt.Errorf("repo %s has no local path to watch", repo.ID)
			}

			runOnce := func() {
				run, err := wire.SyncService().StartRun(ctx, primary.StartRunRequest{
					RepoID:  repo.ID,
					Trigger: "watch",
				})
				switch {
				case err == nil:
					fmt.Printf("✓ Run %s finished %s\n", run.ID, run.Status)
				case errors.Is(err, primary.ErrPartialFailure):
					fmt.Printf("⚠ Run %s finished partial\n", run.ID)
				case errors.Is(err, primary.ErrSyncInProgress):
					fmt.Println("· sync already in progress, skipping")
				default:
					fmt.Fprintf(os.Stderr, "sync failed: %v\n", err)
				}
			}

			watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher := fs.NewWatcher(repo.LocalPath, debounce, runOnce)

			fmt.Printf("Watching %s (repo %s), debounce %s. Ctrl-C to stop.\n",
				repo.LocalPath, repo.ID, debounce)
			runOnce() // initial pass so the index starts fresh

			if err := watcher.Run(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch failed: %w", err)
			}
			fmt.Println("Stopped watching.")
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "Quiet period before a change triggers a sync")

	return cmd
}
