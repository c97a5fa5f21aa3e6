package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/charliek/errboard/internal/config"
	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/runstate"
)

// Version is stamped by the release build.
var Version = "dev"

var (
	configPath string
	apiAddr    string
	verbose    bool
)

// annotationClient marks commands that talk to a running server.
const annotationClient = "errboard/client"

func clientCommand(c *cobra.Command) *cobra.Command {
	if c.Annotations == nil {
		c.Annotations = map[string]string{}
	}
	c.Annotations[annotationClient] = "true"
	return c
}

var rootCmd = &cobra.Command{
	Use:   "errboard",
	Short: "An error dashboard for HTTP calls and stack events",
	Long: `errboard serves an error dashboard built from a snapshot file.

The calls view lists HTTP endpoints with their request, 4xx and 5xx counts
and can be narrowed with a case-insensitive path filter. The events view
opens stack events from Sentry, Datadog, Stackdriver and other vendors in
the matching viewer. Both are available in the TUI and over a JSON API.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Annotations[annotationClient] != "" && !cmd.Flags().Changed("addr") {
			apiAddr = discoverAPIAddress()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "errboard version %s\n", Version)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", constants.DefaultConfigFile, "Config file")
	flags.StringVar(&apiAddr, "addr", constants.DefaultAPIAddress, "Address of a running errboard server")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.SetVersionTemplate("errboard version {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the config file. Without an explicit --config, a missing
// default file yields the built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) && !cmd.Flags().Changed("config") {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadAPIAddrFromConfig derives a client address from the api section of
// the config file, or "" when the file cannot be loaded. Wildcard listen
// hosts are dialled on loopback.
func loadAPIAddrFromConfig() string {
	cfg, err := config.Load(configPath)
	if err != nil {
		return ""
	}

	host := cfg.API.Host
	switch host {
	case "", "0.0.0.0", "::":
		host = constants.DefaultAPIHost
	}
	port := cfg.API.Port
	if port == 0 {
		port = constants.DefaultAPIPort
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// discoverAPIAddress picks the server address for client commands: the
// state file of a server running in this directory, then the config file,
// then the default.
func discoverAPIAddress() string {
	if cwd, err := os.Getwd(); err == nil {
		if state, err := runstate.Load(cwd); err == nil {
			return state.Address()
		}
	}
	if addr := loadAPIAddrFromConfig(); addr != "" {
		return addr
	}
	return constants.DefaultAPIAddress
}
