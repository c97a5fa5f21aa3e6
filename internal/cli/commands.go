package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/charliek/errboard/internal/api"
	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/render"
)

// Client command flags
var (
	jsonOutput    bool
	callsFilter   string
	callsTemplate bool
	callsMode     string
	callsWidth    int
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and snapshot status",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := NewClient(apiAddr).GetStatus()
		if err != nil {
			return fmt.Errorf("%w\nIs errboard running? Try 'errboard serve' first", err)
		}
		if jsonOutput {
			return writeJSONOutput(cmd.OutOrStdout(), status)
		}
		printStatus(cmd.OutOrStdout(), status)
		return nil
	},
}

// callsCmd represents the calls command
var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Show HTTP calls with errors",
	Long: `Show the calls-with-errors table.

The filter matches endpoint paths case-insensitively. It is a regular
expression unless --mode substring is given or the pattern is invalid.

Examples:
  errboard calls                      # Full table
  errboard calls --filter orders      # Paths containing "orders"
  errboard calls --filter '^api\.'    # Paths starting with "api."
  errboard calls --template           # Short preview`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := NewClient(apiAddr).GetCalls(CallsParams{
			Filter:   callsFilter,
			Template: callsTemplate,
			Mode:     callsMode,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSONOutput(cmd.OutOrStdout(), resp)
		}
		printCalls(cmd.OutOrStdout(), resp, callsWidth)
		return nil
	},
}

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List stack events",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := NewClient(apiAddr).GetEvents()
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSONOutput(cmd.OutOrStdout(), resp)
		}
		printEvents(cmd.OutOrStdout(), resp)
		return nil
	},
}

// eventCmd represents the event command
var eventCmd = &cobra.Command{
	Use:   "event <index>",
	Short: "Show one stack event in its vendor viewer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event index %q", args[0])
		}

		resp, err := NewClient(apiAddr).GetEvent(index)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSONOutput(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Body)
		return nil
	},
}

// reloadCmd represents the reload command
var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the server's snapshot file",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := NewClient(apiAddr).Reload()
		if err != nil {
			return fmt.Errorf("reload failed: %w", err)
		}
		if jsonOutput {
			return writeJSONOutput(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reloaded %s: %d calls, %d events\n",
			resp.Snapshot.Path, resp.Snapshot.Calls, resp.Snapshot.Events)
		return nil
	},
}

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print snapshot reloads as they happen",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		return NewClient(apiAddr).StreamUpdates(ctx, func(u api.UpdateResponse) {
			if jsonOutput {
				if err := writeJSONOutput(out, u); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to encode update: %v\n", err)
				}
				return
			}
			printUpdate(out, u)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, callsCmd, eventsCmd, eventCmd, reloadCmd, watchCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
		rootCmd.AddCommand(clientCommand(c))
	}

	callsCmd.Flags().StringVarP(&callsFilter, "filter", "f", "", "Filter paths (case-insensitive)")
	callsCmd.Flags().BoolVar(&callsTemplate, "template", false, "Show the short template preview")
	callsCmd.Flags().StringVar(&callsMode, "mode", "", "Filter mode: pattern or substring")
	callsCmd.Flags().IntVarP(&callsWidth, "width", "w", constants.DefaultTableWidth, "Table width")
}

// writeJSONOutput writes v as one JSON document
func writeJSONOutput(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printStatus prints server status
func printStatus(w io.Writer, status *api.StatusResponse) {
	fmt.Fprintf(w, "Status: %s\n", status.Status)
	fmt.Fprintf(w, "Uptime: %s\n", formatDuration(time.Duration(status.UptimeSeconds)*time.Second))
	if status.ConfigFile != "" {
		fmt.Fprintf(w, "Config: %s\n", status.ConfigFile)
	}

	snap := status.Snapshot
	fmt.Fprintf(w, "Snapshot: %s\n", valueOr(snap.Path, "(none)"))
	if snap.Loaded {
		fmt.Fprintf(w, "Loaded: %s\n", snap.LoadedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Calls: %d  Events: %d  Watchers: %d\n", snap.Calls, snap.Events, snap.Subscribers)
	}
}

// printCalls prints the search box state and the table, or the empty state
func printCalls(w io.Writer, resp *api.CallsResponse, width int) {
	search := resp.Search
	switch {
	case search.Disabled:
		fmt.Fprintf(w, "%s: (disabled)\n", search.Placeholder)
	case search.Value != "":
		fmt.Fprintf(w, "%s: %s\n", search.Placeholder, search.Value)
	}

	if resp.Table == nil {
		fmt.Fprintln(w, valueOr(resp.EmptyMessage, constants.NoMetricDataMessage))
		return
	}

	fmt.Fprintln(w, render.NewTableRenderer(width).RenderTable(*resp.Table))
	if resp.FilteredCount < resp.TotalCount {
		fmt.Fprintf(w, "(showing %d of %d calls, %s match)\n", resp.FilteredCount, resp.TotalCount, resp.MatchMode)
	}
}

// printEvents prints the stack event list
func printEvents(w io.Writer, resp *api.EventListResponse) {
	if len(resp.Events) == 0 {
		fmt.Fprintln(w, "No stack events.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tSOURCE\tNAME")
	fmt.Fprintln(tw, "-----\t------\t----")
	for _, ev := range resp.Events {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", ev.Index, valueOr(ev.Source, "-"), ev.Name)
	}
	tw.Flush()
}

// printUpdate prints one snapshot reload
func printUpdate(w io.Writer, u api.UpdateResponse) {
	ts := u.LoadedAt
	if t, err := time.Parse(time.RFC3339Nano, u.LoadedAt); err == nil {
		ts = t.Format("15:04:05")
	}
	fmt.Fprintf(w, "%s snapshot reloaded: %d calls, %d events\n", ts, u.Calls, u.Events)
}

// formatDuration formats a duration nicely
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
