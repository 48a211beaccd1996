package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// RepoCmd returns the repo command
func RepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage tracked repositories",
		Long:  `Register and manage the repositories JAI tracks and syncs.`,
	}

	cmd.AddCommand(repoCreateCmd())
	cmd.AddCommand(repoListCmd())
	cmd.AddCommand(repoShowCmd())
	cmd.AddCommand(repoUpdateCmd())
	cmd.AddCommand(repoArchiveCmd())
	cmd.AddCommand(repoRestoreCmd())
	cmd.AddCommand(repoDeleteCmd())

	return cmd
}

func repoCreateCmd() *cobra.Command {
	var githubURL, localPath, defaultBranch, nhID, notes string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Register a new tracked repository",
		Long: `Register a new tracked repository.

Examples:
  jai repo create jai --github-url https://github.com/org/jai
  jai repo create portal --path ~/src/portal --default-branch develop`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := wire.RepoService().CreateRepo(ctx, primary.CreateRepoRequest{
				Name:          args[0],
				GithubURL:     githubURL,
				LocalPath:     localPath,
				DefaultBranch: defaultBranch,
				NhID:          nhID,
				Notes:         notes,
			})
			if err != nil {
				return fmt.Errorf("failed to create repo: %w", err)
			}

			fmt.Printf("✓ Created repo %s: %s\n", repo.ID, repo.Name)
			if repo.GithubURL != "" {
				fmt.Printf("  GitHub: %s\n", repo.GithubURL)
			}
			if repo.LocalPath != "" {
				fmt.Printf("  Path: %s\n", repo.LocalPath)
			}
			fmt.Printf("  Default Branch: %s\n", repo.DefaultBranch)

			return nil
		},
	}

	cmd.Flags().StringVarP(&githubURL, "github-url", "u", "", "GitHub URL")
	cmd.Flags().StringVarP(&localPath, "path", "p", "", "Local path to sync from")
	cmd.Flags().StringVarP(&defaultBranch, "default-branch", "b", "main", "Default branch name")
	cmd.Flags().StringVar(&nhID, "nh-id", "", "External correlation ID")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes (JSON)")

	return cmd
}

func repoListCmd() *cobra.Command {
	var status string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			filters := primary.RepoFilters{}
			if !all && status == "" {
				filters.Status = primary.RepoStatusActive
			} else if status != "" {
				filters.Status = status
			}

			repos, err := wire.RepoService().ListRepos(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to list repos: %w", err)
			}

			if len(repos) == 0 {
				fmt.Println("No repos found.")
				fmt.Println()
				fmt.Println("Register your first repo:")
				fmt.Println("  jai repo create my-repo --path ~/src/my-repo")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPATH\tBRANCH\tSTATUS")
			fmt.Fprintln(w, "--\t----\t----\t------\t------")

			for _, r := range repos {
				path := r.LocalPath
				if len(path) > 40 {
					path = path[:37] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Name, path, r.DefaultBranch, r.Status)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (active, archived)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include archived repos")

	return cmd
}

func repoShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id-or-name]",
		Short: "Show repository details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := resolveRepo(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Repo: %s (%s)\n", repo.Name, repo.ID)
			fmt.Printf("  Status: %s\n", repo.Status)
			if repo.GithubURL != "" {
				fmt.Printf("  GitHub: %s\n", repo.GithubURL)
			}
			if repo.LocalPath != "" {
				fmt.Printf("  Path: %s\n", repo.LocalPath)
			}
			fmt.Printf("  Default Branch: %s\n", repo.DefaultBranch)
			if repo.NhID != "" {
				fmt.Printf("  NH ID: %s\n", repo.NhID)
			}
			if repo.Notes != "" {
				fmt.Printf("  Notes: %s\n", repo.Notes)
			}
			fmt.Printf("  Created: %s\n", repo.CreatedAt)
			fmt.Printf("  Updated: %s\n", repo.UpdatedAt)

			return nil
		},
	}
}

func repoUpdateCmd() *cobra.Command {
	var githubURL, localPath, defaultBranch, nhID, notes string

	cmd := &cobra.Command{
		Use:   "update [id-or-name]",
		Short: "Update repository configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := resolveRepo(ctx, args[0])
			if err != nil {
				return err
			}

			if err := wire.RepoService().UpdateRepo(ctx, primary.UpdateRepoRequest{
				RepoID:        repo.ID,
				GithubURL:     githubURL,
				LocalPath:     localPath,
				DefaultBranch: defaultBranch,
				NhID:          nhID,
				Notes:         notes,
			}); err != nil {
				return fmt.Errorf("failed to update repo: %w", err)
			}

			fmt.Printf("✓ Updated repo %s\n", repo.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&githubURL, "github-url", "u", "", "GitHub URL")
	cmd.Flags().StringVarP(&localPath, "path", "p", "", "Local path to sync from")
	cmd.Flags().StringVarP(&defaultBranch, "default-branch", "b", "", "Default branch name")
	cmd.Flags().StringVar(&nhID, "nh-id", "", "External correlation ID")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes (JSON)")

	return cmd
}

func repoArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [id-or-name]",
		Short: "Archive a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := resolveRepo(ctx, args[0])
			if err != nil {
				return err
			}

			if err := wire.RepoService().ArchiveRepo(ctx, repo.ID); err != nil {
				return fmt.Errorf("failed to archive repo: %w", err)
			}

			fmt.Printf("✓ Archived repo %s\n", repo.ID)
			return nil
		},
	}
}

func repoRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [id-or-name]",
		Short: "Restore an archived repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := resolveRepo(ctx, args[0])
			if err != nil {
				return err
			}

			if err := wire.RepoService().RestoreRepo(ctx, repo.ID); err != nil {
				return fmt.Errorf("failed to restore repo: %w", err)
			}

			fmt.Printf("✓ Restored repo %s\n", repo.ID)
			return nil
		},
	}
}

func repoDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id-or-name]",
		Short: "Delete a repository (refused once sync runs exist)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := resolveRepo(ctx, args[0])
			if err != nil {
				return err
			}

			if err := wire.RepoService().DeleteRepo(ctx, repo.ID); err != nil {
				return fmt.Errorf("failed to delete repo: %w", err)
			}

			fmt.Printf("✓ Deleted repo %s\n", repo.ID)
			return nil
		},
	}
}

// resolveRepo accepts either a REPO-XXX ID or a repo name.
func resolveRepo(ctx context.Context, ref string) (*primary.Repo, error) {
	if repo, err := wire.RepoService().GetRepo(ctx, ref); err == nil {
		return repo, nil
	}
	repo, err := wire.RepoService().GetRepoByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("no repo with ID or name %q: %w", ref, err)
	}
	return repo, nil
}
