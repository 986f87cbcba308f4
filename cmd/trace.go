package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/learnpath/internal/store"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Inspect recorded API requests and LLM calls",
}

// withStore opens the event store for a trace subcommand.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, repo store.EventRepo) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	return fn(context.Background(), s.EventRepo())
}

func parseID(arg string) (int, error) {
	var id int
	if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", arg, err)
	}
	return id, nil
}

var traceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent API requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")

		return withStore(cmd, func(ctx context.Context, repo store.EventRepo) error {
			events, err := repo.QueryRequestEvents(ctx, store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			if len(events) == 0 {
				fmt.Println("No requests recorded.")
				return nil
			}

			fmt.Printf("%-5s  %-19s  %-6s  %-44s  %6s  %7s  %s\n",
				"ID", "Timestamp", "Method", "URL", "Status", "Ms", "OK")
			fmt.Println(strings.Repeat("─", 100))

			for _, e := range events {
				if failed && e.Success {
					continue
				}
				status := "-"
				if e.Status != 0 {
					status = fmt.Sprintf("%d", e.Status)
				}
				mark := okMark(e.Success)
				if e.Pending() {
					mark = "pending"
				}
				fmt.Printf("%-5d  %-19s  %-6s  %-44s  %6s  %7d  %s\n",
					e.ID,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Method,
					truncate(e.URL, 44),
					status,
					e.LatencyMs,
					mark,
				)
			}
			return nil
		})
	},
}

var traceViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View one API request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, repo store.EventRepo) error {
			e, err := repo.GetRequestEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("ID:        %d\n", e.ID)
			fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("Request:   %s %s\n", e.Method, e.URL)
			switch {
			case e.Pending():
				fmt.Println("Status:    pending (never settled)")
			case e.Status != 0:
				fmt.Printf("Status:    %d\n", e.Status)
			default:
				fmt.Println("Status:    no response")
			}
			fmt.Printf("Latency:   %dms\n", e.LatencyMs)
			fmt.Printf("Success:   %v\n", e.Success)
			if e.ErrorMessage != "" {
				fmt.Printf("Error:     %s\n", e.ErrorMessage)
			}
			return nil
		})
	},
}

var tracePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old API request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		return withStore(cmd, func(ctx context.Context, repo store.EventRepo) error {
			n, err := repo.PruneRequestEvents(ctx, keep)
			if err != nil {
				return fmt.Errorf("prune events: %w", err)
			}
			fmt.Printf("Deleted %d request event(s), kept the newest %d.\n", n, keep)
			return nil
		})
	},
}

func okMark(success bool) string {
	if success {
		return "✓"
	}
	return "✗"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	traceListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	traceListCmd.Flags().Bool("failed", false, "Only show failed requests")
	tracePruneCmd.Flags().Int("keep", 500, "Number of most recent events to keep")

	traceCmd.AddCommand(traceListCmd)
	traceCmd.AddCommand(traceViewCmd)
	traceCmd.AddCommand(tracePruneCmd)
	traceCmd.AddCommand(traceLLMCmd)
	traceCmd.AddCommand(traceStatsCmd)
}
