package api

import (
	"encoding/json"
	"time"

	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/snapshot"
	"github.com/charliek/errboard/internal/widget"
)

// Match modes reported by GET /calls
const (
	MatchModeRegex   = "regex"
	MatchModeLiteral = "literal"
)

// StatusResponse represents the response for GET /status
type StatusResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	ConfigFile    string         `json:"config_file,omitempty"`
	APIVersion    string         `json:"api_version"`
	Snapshot      snapshot.Stats `json:"snapshot"`
}

// CallsResponse represents the response for GET /calls. Table is omitted
// when the metric set is empty, in which case EmptyMessage is set.
type CallsResponse struct {
	Search        widget.SearchBox `json:"search"`
	EmptyMessage  string           `json:"empty_message,omitempty"`
	Table         *widget.Table    `json:"table,omitempty"`
	FilteredCount int              `json:"filtered_count"`
	TotalCount    int              `json:"total_count"`
	MatchMode     string           `json:"match_mode,omitempty"`
}

// EventListResponse represents the response for GET /events
type EventListResponse struct {
	Events []EventSummary `json:"events"`
}

// EventSummary represents a single stack event in listings
type EventSummary struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// EventResponse represents the response for GET /events/{index}
type EventResponse struct {
	Index   int             `json:"index"`
	Name    string          `json:"name"`
	Source  string          `json:"source"`
	Viewer  string          `json:"viewer"`
	Icon    string          `json:"icon,omitempty"`
	Body    string          `json:"body"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ReloadResponse represents the response for POST /reload
type ReloadResponse struct {
	Success  bool           `json:"success"`
	Snapshot snapshot.Stats `json:"snapshot"`
}

// UpdateResponse is one event of the snapshot update stream
type UpdateResponse struct {
	LoadedAt string `json:"loaded_at"`
	Calls    int    `json:"calls"`
	Events   int    `json:"events"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToEventSummary converts a stack event to its listing form
func ToEventSummary(index int, ev domain.StackEvent) EventSummary {
	return EventSummary{
		Index:  index,
		Name:   ev.Name,
		Source: ev.SourceTag(),
	}
}

// ToUpdateResponse converts a snapshot update to its stream form
func ToUpdateResponse(u snapshot.Update) UpdateResponse {
	return UpdateResponse{
		LoadedAt: u.LoadedAt.Format(time.RFC3339Nano),
		Calls:    u.Calls,
		Events:   u.Events,
	}
}

// matchModeName reports how the current filter is applied
func matchModeName(m *widget.PathMatcher) string {
	switch {
	case m == nil:
		return ""
	case m.Literal():
		return MatchModeLiteral
	default:
		return MatchModeRegex
	}
}
