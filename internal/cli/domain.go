package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// DomainCmd returns the domain command
func DomainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage deployed domains",
		Long:  `Register and manage the deployed environments JAI tracks.`,
	}

	cmd.AddCommand(domainCreateCmd())
	cmd.AddCommand(domainListCmd())
	cmd.AddCommand(domainShowCmd())
	cmd.AddCommand(domainUpdateCmd())
	cmd.AddCommand(domainLinkCmd())
	cmd.AddCommand(domainUnlinkCmd())
	cmd.AddCommand(domainExpiringCmd())

	return cmd
}

func domainCreateCmd() *cobra.Command {
	var repoRef, domainKey, engineType, env, expires string

	cmd := &cobra.Command{
		Use:   "create [hostname]",
		Short: "Register a deployed domain",
		Long: `Register a deployed domain.

Examples:
  jai domain create app.example.com --repo jai --env prod
  jai domain create preview-42.example.dev --env preview --expires 2026-09-30T00:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			req := primary.CreateDomainRequest{
				Domain:     args[0],
				RepoID:     repoRef,
				DomainKey:  domainKey,
				EngineType: engineType,
				Env:        env,
			}
			if expires != "" {
				t, err := time.Parse(time.RFC3339, expires)
				if err != nil {
					return fmt.Errorf("invalid --expires value %q: %w", expires, err)
				}
				req.ExpiresAt = &t
			}

			d, err := wire.DomainService().CreateDomain(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to create domain: %w", err)
			}

			fmt.Printf("✓ Created domain %s: %s\n", d.ID, d.Domain)
			if d.RepoID != "" {
				fmt.Printf("  Repo: %s\n", d.RepoID)
			}
			if d.ExpiresAt != "" {
				fmt.Printf("  Expires: %s\n", d.ExpiresAt)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&repoRef, "repo", "r", "", "Repo ID or name to link")
	cmd.Flags().StringVar(&domainKey, "key", "", "Domain key")
	cmd.Flags().StringVar(&engineType, "engine", "", "Engine type")
	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment (prod, staging, preview)")
	cmd.Flags().StringVar(&expires, "expires", "", "Lease expiry (RFC3339)")

	return cmd
}

func domainListCmd() *cobra.Command {
	var status, repoID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			domains, err := wire.DomainService().ListDomains(ctx, primary.DomainFilters{
				Status: status,
				RepoID: repoID,
			})
			if err != nil {
				return fmt.Errorf("failed to list domains: %w", err)
			}

			if len(domains) == 0 {
				fmt.Println("No domains found.")
				return nil
			}

			printDomainTable(domains)
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status")
	cmd.Flags().StringVarP(&repoID, "repo", "r", "", "Filter by repo ID")

	return cmd
}

func domainShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id-or-hostname]",
		Short: "Show domain details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			d, err := wire.DomainService().GetDomain(ctx, args[0])
			if err != nil {
				d, err = wire.DomainService().GetDomainByName(ctx, args[0])
				if err != nil {
					return fmt.Errorf("no domain with ID or hostname %q: %w", args[0], err)
				}
			}

			fmt.Printf("Domain: %s (%s)\n", d.Domain, d.ID)
			fmt.Printf("  Status: %s\n", d.Status)
			if d.RepoID != "" {
				fmt.Printf("  Repo: %s\n", d.RepoID)
			}
			if d.DomainKey != "" {
				fmt.Printf("  Key: %s\n", d.DomainKey)
			}
			if d.EngineType != "" {
				fmt.Printf("  Engine: %s\n", d.EngineType)
			}
			if d.Env != "" {
				fmt.Printf("  Env: %s\n", d.Env)
			}
			if d.ExpiresAt != "" {
				fmt.Printf("  Expires: %s\n", d.ExpiresAt)
			}
			fmt.Printf("  Created: %s\n", d.CreatedAt)

			return nil
		},
	}
}

func domainUpdateCmd() *cobra.Command {
	var domainKey, engineType, env, expires string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update domain metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			req := primary.UpdateDomainRequest{
				DomainID:   args[0],
				DomainKey:  domainKey,
				EngineType: engineType,
				Env:        env,
			}
			if expires != "" {
				t, err := time.Parse(time.RFC3339, expires)
				if err != nil {
					return fmt.Errorf("invalid --expires value %q: %w", expires, err)
				}
				req.ExpiresAt = &t
			}

			if err := wire.DomainService().UpdateDomain(ctx, req); err != nil {
				return fmt.Errorf("failed to update domain: %w", err)
			}

			fmt.Printf("✓ Updated domain %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&domainKey, "key", "", "Domain key")
	cmd.Flags().StringVar(&engineType, "engine", "", "Engine type")
	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment")
	cmd.Flags().StringVar(&expires, "expires", "", "Lease expiry (RFC3339)")

	return cmd
}

func domainLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link [domain-id] [repo-id-or-name]",
		Short: "Bind a domain to a repo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			repo, err := resolveRepo(ctx, args[1])
			if err != nil {
				return err
			}

			if err := wire.DomainService().LinkRepo(ctx, args[0], repo.ID); err != nil {
				return fmt.Errorf("failed to link domain: %w", err)
			}

			fmt.Printf("✓ Linked domain %s to repo %s\n", args[0], repo.ID)
			return nil
		},
	}
}

func domainUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink [domain-id]",
		Short: "Clear a domain's repo binding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			if err := wire.DomainService().UnlinkRepo(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to unlink domain: %w", err)
			}

			fmt.Printf("✓ Unlinked domain %s\n", args[0])
			return nil
		},
	}
}

func domainExpiringCmd() *cobra.Command {
	var within time.Duration

	cmd := &cobra.Command{
		Use:   "expiring",
		Short: "List domains whose lease expires soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			domains, err := wire.DomainService().ListExpiring(ctx, time.Now().Add(within))
			if err != nil {
				return fmt.Errorf("failed to list expiring domains: %w", err)
			}

			if len(domains) == 0 {
				fmt.Printf("No domains expiring within %s.\n", within)
				return nil
			}

			printDomainTable(domains)
			return nil
		},
	}

	cmd.Flags().DurationVarP(&within, "within", "w", 30*24*time.Hour, "Expiry window")

	return cmd
}

func printDomainTable(domains []*primary.Domain) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tREPO\tENV\tSTATUS\tEXPIRES")
	fmt.Fprintln(w, "--\t------\t----\t---\t------\t-------")

	for _, d := range domains {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Domain, d.RepoID, d.Env, d.Status, d.ExpiresAt)
	}

	w.Flush()
}
