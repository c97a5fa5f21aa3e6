package cli

import (
	"github.com/spf13/cobra"

	"github.com/charliek/errboard/internal/tui"
)

// Dashboard command flags
var dashboardSnapshot string

// dashboardCmd opens the TUI on a local snapshot without starting a server
var dashboardCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the dashboard on a local snapshot",
	Long: `Open the interactive dashboard on a snapshot file without starting
the API server. Press r in the dashboard to reload the file.

Examples:
  errboard tui                        # Snapshot from errboard.yaml
  errboard tui --snapshot dash.json   # Explicit snapshot file`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardSnapshot, "snapshot", "s", "", "Snapshot file (overrides config)")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dashboardSnapshot != "" {
		cfg.Snapshot = dashboardSnapshot
	}

	closeLog, err := setupLogging(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.Snapshot)
	defer store.Close()

	return tui.Run(store, tui.Options{
		Table: tableOptions(cfg),
		Help:  tui.HelpConfig{TitleSuffix: "(local)"},
	})
}
