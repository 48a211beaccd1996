package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/jai/internal/ports/primary"
	"github.com/example/jai/internal/wire"
)

// EventCmd returns the event command
func EventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Append and query SoT events",
		Long:  `Append events to the source-of-truth log and query it. Events are immutable.`,
	}

	cmd.AddCommand(eventAppendCmd())
	cmd.AddCommand(eventListCmd())
	cmd.AddCommand(eventIngestCmd())

	return cmd
}

func eventAppendCmd() *cobra.Command {
	var ts, nhID, eventID, summary, payload, repoRef, domainName string

	cmd := &cobra.Command{
		Use:   "append [source] [kind]",
		Short: "Append one event",
		Long: `Append one event to the SoT log.

Examples:
  jai event append github push --repo jai --summary "pushed 3 commits"
  jai event append vercel deploy --domain app.example.com --event-id dpl_123`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			req := primary.AppendEventRequest{
				Source:     args[0],
				Kind:       args[1],
				NhID:       nhID,
				EventID:    eventID,
				Summary:    summary,
				Payload:    payload,
				DomainName: domainName,
			}
			if ts != "" {
				t, err := time.Parse(time.RFC3339, ts)
				if err != nil {
					return fmt.Errorf("invalid --ts value %q: %w", ts, err)
				}
				req.TS = t
			}
			if repoRef != "" {
				repo, err := resolveRepo(ctx, repoRef)
				if err != nil {
					return err
				}
				req.RepoID = repo.ID
			}

			ev, err := wire.EventService().Append(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to append event: %w", err)
			}

			fmt.Printf("✓ Appended event #%d (%s/%s at %s)\n", ev.ID, ev.Source, ev.Kind, ev.TS)
			return nil
		},
	}

	cmd.Flags().StringVar(&ts, "ts", "", "Event-occurred time (RFC3339, defaults to now)")
	cmd.Flags().StringVar(&nhID, "nh-id", "", "External correlation ID")
	cmd.Flags().StringVar(&eventID, "event-id", "", "External event ID for dedupe")
	cmd.Flags().StringVarP(&summary, "summary", "m", "", "Human-readable summary")
	cmd.Flags().StringVar(&payload, "payload", "", "Canonical payload (JSON)")
	cmd.Flags().StringVarP(&repoRef, "repo", "r", "", "Correlated repo ID or name")
	cmd.Flags().StringVarP(&domainName, "domain", "d", "", "Correlated domain hostname")

	return cmd
}

func eventListCmd() *cobra.Command {
	var source, kind, repoRef, domainID, since, until string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Query events, ordered by when they occurred",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			filters := primary.EventFilters{
				Source:   source,
				Kind:     kind,
				DomainID: domainID,
				Limit:    limit,
			}
			if repoRef != "" {
				repo, err := resolveRepo(ctx, repoRef)
				if err != nil {
					return err
				}
				filters.RepoID = repo.ID
			}
			if since != "" {
				t, err := time.Parse(time.RFC3339, since)
				if err != nil {
					return fmt.Errorf("invalid --since value %q: %w", since, err)
				}
				filters.Since = &t
			}
			if until != "" {
				t, err := time.Parse(time.RFC3339, until)
				if err != nil {
					return fmt.Errorf("invalid --until value %q: %w", until, err)
				}
				filters.Until = &t
			}

			events, err := wire.EventService().Query(ctx, filters)
			if err != nil {
				return fmt.Errorf("failed to query events: %w", err)
			}

			if len(events) == 0 {
				fmt.Println("No events found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tTS\tSOURCE\tKIND\tREPO\tDOMAIN\tSUMMARY")
			fmt.Fprintln(w, "--\t--\t------\t----\t----\t------\t-------")

			for _, e := range events {
				summary := e.Summary
				if len(summary) > 50 {
					summary = summary[:47] + "..."
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.TS, e.Source, e.Kind, e.RepoID, e.DomainID, summary)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Filter by source")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Filter by kind")
	cmd.Flags().StringVarP(&repoRef, "repo", "r", "", "Filter by repo ID or name")
	cmd.Flags().StringVarP(&domainID, "domain", "d", "", "Filter by domain ID")
	cmd.Flags().StringVar(&since, "since", "", "Only events at or after this time (RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "Only events before this time (RFC3339)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum events to list")

	return cmd
}

func eventIngestCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a batch of event envelopes (NDJSON)",
		Long: `Ingest a batch of event envelopes, one JSON object per line, from a
file or stdin. Each envelope succeeds or fails on its own; failures are
reported per line and never abort the batch.

Example:
  cat events.ndjson | jai event ingest`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			var in io.Reader = os.Stdin
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", file, err)
				}
				defer f.Close()
				in = f
			}

			envelopes, parseErrors, err := readEnvelopes(in)
			if err != nil {
				return err
			}

			results, err := wire.EventService().IngestBatch(ctx, envelopes)
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}

			ok := 0
			for _, res := range results {
				if res.OK {
					ok++
					continue
				}
				fmt.Fprintf(os.Stderr, "✗ event %q: %s\n", res.EventID, res.Error)
			}
			for _, pe := range parseErrors {
				fmt.Fprintln(os.Stderr, "✗ "+pe)
			}

			failed := len(results) - ok + len(parseErrors)
			fmt.Printf("Ingested %d/%d events (%d failed)\n", ok, len(results)+len(parseErrors), failed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "NDJSON file (defaults to stdin)")

	return cmd
}

// readEnvelopes parses one envelope per line. Unparseable lines are
// collected as errors so the rest of the batch still ingests.
func readEnvelopes(in io.Reader) ([]primary.EventEnvelope, []string, error) {
	var envelopes []primary.EventEnvelope
	var parseErrors []string

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var env primary.EventEnvelope
		if err := json.Unmarshal(line, &env); err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}
		envelopes = append(envelopes, env)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read input: %w", err)
	}

	return envelopes, parseErrors, nil
}
