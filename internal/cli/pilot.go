package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// PilotCmd returns the pilot command
func PilotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pilot",
		Short: "Manage pilot sessions and their action audit trail",
		Long: `Open pilot sessions, record audited actions against them, and close
them. Every action carries a mandatory reason; the trail is append-only.`,
	}

	cmd.AddCommand(pilotStartCmd())
	cmd.AddCommand(pilotActionCmd())
	cmd.AddCommand(pilotCloseCmd())
	cmd.AddCommand(pilotShowCmd())
	cmd.AddCommand(pilotListCmd())

	return cmd
}

func pilotStartCmd() *cobra.Command {
	var mode, surface, projectKey, waveLabel string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a new pilot session",
		Long: `Open a new pilot session.

Examples:
  jai pilot start --mode copilot --surface graph
  jai pilot start --mode autopilot --surface cli --project jai --wave wave-3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			session, err := wire.PilotService().StartSession(ctx, primary.StartSessionRequest{
				Mode:       mode,
				Surface:    surface,
				CreatedBy:  GetActorID(),
				ProjectKey: projectKey,
				WaveLabel:  waveLabel,
			})
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}

			fmt.Printf("✓ Started session %s (%s on %s) as %s\n",
				session.ID, session.Mode, session.Surface, session.CreatedBy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Session mode (copilot, autopilot)")
	cmd.Flags().StringVarP(&surface, "surface", "s", "", "Surface the session runs on")
	cmd.Flags().StringVarP(&projectKey, "project", "p", "", "Project key")
	cmd.Flags().StringVarP(&waveLabel, "wave", "w", "", "Wave label")

	return cmd
}

func pilotActionCmd() *cobra.Command {
	var mode, target, payload, reason string

	cmd := &cobra.Command{
		Use:   "action [session-id] [action-type]",
		Short: "Record an audited action on an open session",
		Long: `Record an audited action on an open session. --reason is mandatory:
the audit trail stores why every action was taken.

Example:
  jai pilot action PSES-001 rename-node --target REPO-001 --reason "stale name"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			session, err := wire.PilotService().GetSession(ctx, args[0])
			if err != nil {
				return err
			}

			actionMode := mode
			if actionMode == "" {
				actionMode = session.Mode
			}

			action, err := wire.PilotService().RecordAction(ctx, primary.RecordActionRequest{
				SessionID:    session.ID,
				Mode:         actionMode,
				ActionType:   args[1],
				Reason:       reason,
				TargetNodeID: target,
				Payload:      payload,
			})
			if err != nil {
				return fmt.Errorf("failed to record action: %w", err)
			}

			fmt.Printf("✓ Recorded action #%d (%s) at %s\n", action.ID, action.ActionType, action.TS)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Action mode (defaults to the session mode)")
	cmd.Flags().StringVarP(&target, "target", "t", "", "Target node reference")
	cmd.Flags().StringVar(&payload, "payload", "", "Action payload (opaque; validated only when a tool named after the action type is registered)")
	cmd.Flags().StringVar(&reason, "reason", "", "Why this action was taken (required)")
	cmd.MarkFlagRequired("reason")

	return cmd
}

func pilotCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close [session-id]",
		Short: "Close a pilot session (idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			session, err := wire.PilotService().CloseSession(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to close session: %w", err)
			}

			fmt.Printf("✓ Session %s closed at %s\n", session.ID, session.EndedAt)
			return nil
		},
	}
}

func pilotShowCmd() *cobra.Command {
	var withActions bool

	cmd := &cobra.Command{
		Use:   "show [session-id]",
		Short: "Show a session and optionally its action trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			session, err := wire.PilotService().GetSession(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get session: %w", err)
			}

			fmt.Printf("Session: %s\n", session.ID)
			fmt.Printf("  Mode: %s\n", session.Mode)
			fmt.Printf("  Surface: %s\n", session.Surface)
			fmt.Printf("  Created By: %s\n", session.CreatedBy)
			if session.ProjectKey != "" {
				fmt.Printf("  Project: %s\n", session.ProjectKey)
			}
			if session.WaveLabel != "" {
				fmt.Printf("  Wave: %s\n", session.WaveLabel)
			}
			fmt.Printf("  Started: %s\n", session.StartedAt)
			if session.EndedAt != "" {
				fmt.Printf("  Ended: %s\n", session.EndedAt)
			} else {
				fmt.Printf("  Ended: (open)\n")
			}

			if !withActions {
				return nil
			}

			actions, err := wire.PilotService().ListActions(ctx, session.ID)
			if err != nil {
				return fmt.Errorf("failed to list actions: %w", err)
			}

			if len(actions) == 0 {
				fmt.Println("\nNo actions recorded.")
				return nil
			}

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "#\tTS\tMODE\tTYPE\tTARGET\tREASON")
			fmt.Fprintln(w, "-\t--\t----\t----\t------\t------")

			for _, a := range actions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					a.ID, a.TS, a.Mode, a.ActionType, a.TargetNodeID, a.Reason)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&withActions, "actions", "a", false, "Include the action trail")

	return cmd
}

func pilotListCmd() *cobra.Command {
	var open bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pilot sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			sessions, err := wire.PilotService().ListSessions(ctx, primary.SessionFilters{
				Open:  open,
				Limit: limit,
			})
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tMODE\tSURFACE\tBY\tSTARTED\tENDED")
			fmt.Fprintln(w, "--\t----\t-------\t--\t-------\t-----")

			for _, s := range sessions {
				ended := s.EndedAt
				if ended == "" {
					ended = "(open)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.Mode, s.Surface, s.CreatedBy, s.StartedAt, ended)
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "Only open sessions")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to list")

	return cmd
}
