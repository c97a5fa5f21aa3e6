// Package constants provides shared configuration values used across the errboard application.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "errboard.yaml"

	// DefaultAPIHost is the default host for the API server
	DefaultAPIHost = "127.0.0.1"

	// DefaultAPIPort is the default port for the API server
	DefaultAPIPort = 5656

	// DefaultAPIAddress is the default API address for client connections
	DefaultAPIAddress = "http://127.0.0.1:5656"

	// DefaultLogLevel is used when the config does not name a level
	DefaultLogLevel = "info"

	// DefaultLogFormat is used when the config does not name a formatter
	DefaultLogFormat = "text"
)

// Timeout and duration defaults
const (
	// DefaultRequestTimeout is the default timeout for API requests
	DefaultRequestTimeout = 30 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Calls table defaults
const (
	// DefaultTemplateRows is how many rows a template preview shows
	DefaultTemplateRows = 5

	// DefaultTableWidth is the terminal width used when none is known
	DefaultTableWidth = 100

	// SearchPlaceholder is shown in the empty path filter box
	SearchPlaceholder = "Filter by Path"

	// NoMetricDataMessage is shown instead of the table when there are no records
	NoMetricDataMessage = "No data available for the selected period."
)

// Filter modes
const (
	// FilterModePattern treats filter text as a case-insensitive pattern
	FilterModePattern = "pattern"

	// FilterModeSubstring treats filter text as a plain substring
	FilterModeSubstring = "substring"
)

// IconPrefix is prepended to a vendor tag to form its icon key
const IconPrefix = "integrations/"

// DefaultSubscriptionBuffer is the default size for reload subscription buffers
const DefaultSubscriptionBuffer = 16
