package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charliek/errboard/internal/api"
	"github.com/charliek/errboard/internal/config"
	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/logger"
	"github.com/charliek/errboard/internal/metrics"
	"github.com/charliek/errboard/internal/runstate"
	"github.com/charliek/errboard/internal/snapshot"
	"github.com/charliek/errboard/internal/tui"
	"github.com/charliek/errboard/internal/widget"
)

// logFileName is where logs go while a TUI owns the terminal
const logFileName = "errboard.log"

// Serve command flags
var (
	servePort     int
	serveTUI      bool
	serveSnapshot string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Start the dashboard API server on a snapshot file.

The server loads the snapshot at startup and again on 'errboard reload',
POST /api/v1/reload or SIGHUP.

Examples:
  errboard serve                          # Use errboard.yaml
  errboard serve --snapshot dash.json     # Serve a snapshot without a config
  errboard serve --tui                    # Serve and open the dashboard`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "API port (overrides config)")
	serveCmd.Flags().BoolVar(&serveTUI, "tui", false, "Open the dashboard TUI while serving")
	serveCmd.Flags().StringVarP(&serveSnapshot, "snapshot", "s", "", "Snapshot file (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// errboardDir returns the errboard home directory path (~/.errboard)
func errboardDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return runstate.DirName
	}
	return filepath.Join(home, runstate.DirName)
}

// tokenPath returns the path to the token file
func tokenPath() string {
	return filepath.Join(errboardDir(), "token")
}

// generateToken generates a cryptographically secure random token
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// saveToken saves the token to ~/.errboard/token
func saveToken(token string) error {
	dir := errboardDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating errboard directory: %w", err)
	}
	// Write token with restrictive permissions (owner read/write only)
	if err := os.WriteFile(tokenPath(), []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// loadToken loads the token from ~/.errboard/token
func loadToken() (string, error) {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// isLocalhost checks if the host is a localhost address
func isLocalhost(host string) bool {
	return host == "" || host == "127.0.0.1" || host == "localhost" || host == "::1"
}

// isAuthRequired determines if authentication should be enabled based on config
func isAuthRequired(cfg *config.Config) bool {
	// Explicit config takes precedence
	if cfg.API.Auth != nil {
		return *cfg.API.Auth
	}
	// Auto-determine: auth required unless binding to localhost only
	return !isLocalhost(cfg.API.Host)
}

// tableOptions builds the calls table defaults from config
func tableOptions(cfg *config.Config) widget.CallsTableOptions {
	return widget.CallsTableOptions{
		TemplateRows: cfg.Table.TemplateRows,
		Mode:         widget.ParseMatchMode(cfg.Filter.Mode),
	}
}

// setupLogging configures logrus from config. While a TUI owns the terminal
// logs go to .errboard/errboard.log; the returned func releases that file.
func setupLogging(cfg *config.Config, toFile bool) (func(), error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger.SetupLogger(level, cfg.Log.Format)

	if !toFile {
		return func() {}, nil
	}

	if err := runstate.EnsureDir(""); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(runstate.Dir(""), logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// openStore creates the snapshot store and performs the initial load. A
// failed load is logged and the server starts without data.
func openStore(path string) *snapshot.Store {
	store := snapshot.NewStore(path, constants.DefaultSubscriptionBuffer)
	if path == "" {
		log.Warn("No snapshot file configured; the dashboard starts empty")
		return store
	}

	if err := store.Load(); err != nil {
		logger.LogSnapshotError(path, err)
	} else {
		logger.LogSnapshotLoaded(path, store.Stats())
	}
	return store
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Override from flags
	if servePort > 0 {
		if servePort > 65535 {
			return fmt.Errorf("invalid port: %d (must be 1-65535)", servePort)
		}
		cfg.API.Port = servePort
	}
	if serveSnapshot != "" {
		cfg.Snapshot = serveSnapshot
	}

	closeLog, err := setupLogging(cfg, serveTUI)
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStore(cfg.Snapshot)
	defer store.Close()

	// Determine if authentication is required
	authEnabled := isAuthRequired(cfg)
	var token string

	// Generate authentication token only if auth is enabled
	if authEnabled {
		token, err = generateToken()
		if err != nil {
			return fmt.Errorf("generating auth token: %w", err)
		}
		if err := saveToken(token); err != nil {
			return fmt.Errorf("saving auth token: %w", err)
		}
	} else if !isLocalhost(cfg.API.Host) {
		// Warning: auth explicitly disabled on non-localhost
		fmt.Fprintf(os.Stderr, "WARNING: Auth disabled while binding to all interfaces (%s)\n", cfg.API.Host)
		fmt.Fprintf(os.Stderr, "         Any network client can read this dashboard.\n")
	}

	// Create API handlers and server
	handlers := api.NewHandlers(store, api.HandlersConfig{
		ConfigFile: cfg.Path(),
		Table:      tableOptions(cfg),
	}, metrics.New())
	apiServer := api.NewServer(api.ServerConfig{
		Host:        cfg.API.Host,
		Port:        cfg.API.Port,
		AuthEnabled: authEnabled,
		Token:       token,
	}, handlers)

	// Record where we listen so client commands can find us
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	state := &runstate.State{
		PID:          os.Getpid(),
		Port:         cfg.API.Port,
		Host:         cfg.API.Host,
		StartedAt:    time.Now(),
		ConfigFile:   cfg.Path(),
		Snapshot:     cfg.Snapshot,
		AuthRequired: authEnabled,
	}
	if err := state.Write(cwd); err != nil {
		log.WithError(err).Warn("Could not write state file")
	}
	defer func() {
		if err := runstate.Remove(cwd); err != nil {
			log.WithError(err).Warn("Could not remove state file")
		}
	}()

	out := cmd.OutOrStdout()
	scope := "network accessible"
	if isLocalhost(cfg.API.Host) {
		scope = "local only"
	}
	authNote := "no auth"
	if authEnabled {
		authNote = "auth enabled"
	}
	if !serveTUI {
		fmt.Fprintf(out, "API server: http://%s (%s, %s)\n", apiServer.Addr(), scope, authNote)
		if authEnabled {
			fmt.Fprintf(out, "Auth token saved to: %s\n", tokenPath())
		}
	}

	// Start API server in background
	serverErr := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Set up signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	var runErr error
	if serveTUI {
		// Run TUI - it blocks until quit
		runErr = tui.Run(store, tui.Options{
			Table: tableOptions(cfg),
			Help: tui.HelpConfig{
				TitleSuffix: "(serving on " + apiServer.Addr() + ")",
				QuitMessage: "Quit (stops the API server)",
			},
		})
	} else {
		runErr = waitForShutdown(out, store, sigCh, serverErr)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("API server shutdown error")
	}

	if !serveTUI {
		fmt.Fprintln(out, "Shutdown complete")
	}
	return runErr
}

// waitForShutdown blocks until a terminating signal or a server failure.
// SIGHUP reloads the snapshot.
func waitForShutdown(out io.Writer, store *snapshot.Store, sigCh <-chan os.Signal, serverErr <-chan error) error {
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				reloadStore(store)
				continue
			}
			fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
			return nil
		case err := <-serverErr:
			return fmt.Errorf("API server: %w", err)
		}
	}
}

// reloadStore re-reads the snapshot file and logs the outcome
func reloadStore(store *snapshot.Store) {
	if err := store.Load(); err != nil {
		logger.LogSnapshotError(store.Path(), err)
		return
	}
	logger.LogSnapshotLoaded(store.Path(), store.Stats())
}
