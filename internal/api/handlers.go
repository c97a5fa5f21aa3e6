package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/logger"
	"github.com/charliek/errboard/internal/metrics"
	"github.com/charliek/errboard/internal/render"
	"github.com/charliek/errboard/internal/snapshot"
	"github.com/charliek/errboard/internal/widget"
)

// HandlersConfig configures the HTTP handlers
type HandlersConfig struct {
	ConfigFile string
	// Table is the default calls table configuration; requests may override
	// template mode and match mode.
	Table     widget.CallsTableOptions
	Formatter widget.PayloadFormatter
}

// Handlers contains all HTTP handlers
type Handlers struct {
	store     *snapshot.Store
	config    HandlersConfig
	counters  *metrics.Counters
	startedAt time.Time
}

// NewHandlers creates new HTTP handlers
func NewHandlers(store *snapshot.Store, config HandlersConfig, counters *metrics.Counters) *Handlers {
	if config.Formatter == nil {
		config.Formatter = render.NewPayloadFormatter(0)
	}
	return &Handlers{
		store:     store,
		config:    config,
		counters:  counters,
		startedAt: time.Now(),
	}
}

// GetStatus handles GET /api/v1/status
func (h *Handlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	stats := h.store.Stats()

	status := "ok"
	if !stats.Loaded {
		status = "no_snapshot"
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:        status,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		ConfigFile:    h.config.ConfigFile,
		APIVersion:    "v1",
		Snapshot:      stats,
	})
}

// tableCapture is a TableRenderer that keeps the table instead of drawing
// it, so the API can return the table data to the client.
type tableCapture struct {
	table *widget.Table
}

func (c *tableCapture) RenderTable(t widget.Table) string {
	c.table = &t
	return ""
}

// GetCalls handles GET /api/v1/calls
func (h *Handlers) GetCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := h.store.Calls()
	if err != nil {
		writeError(w, err)
		return
	}

	opts, err := parseCallsParams(r, h.config.Table)
	if err != nil {
		writeError(w, err)
		return
	}

	table := widget.NewCallsTable(opts)
	table.SetFilter(r.URL.Query().Get("filter"))

	var capture tableCapture
	view := table.Render(calls, &capture)

	resp := CallsResponse{
		Search:        view.Search,
		EmptyMessage:  view.EmptyMessage,
		Table:         capture.table,
		FilteredCount: view.Visible,
		TotalCount:    len(calls),
	}

	// An empty set is never filtered.
	if !view.Empty() {
		resp.MatchMode = matchModeName(table.Matcher())
		if resp.MatchMode != "" {
			h.counters.FilterQueries.Inc(resp.MatchMode)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetEvents handles GET /api/v1/events
func (h *Handlers) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.Events()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := EventListResponse{
		Events: make([]EventSummary, len(events)),
	}
	for i, ev := range events {
		resp.Events[i] = ToEventSummary(i, ev)
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetEvent handles GET /api/v1/events/{index}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %q", domain.ErrInvalidIndex, raw))
		return
	}

	ev, err := h.store.Event(index)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := &recordingFormatter{next: h.config.Formatter}
	body := widget.Dispatch(ev, rec)

	h.counters.EventViews.Inc(rec.viewer)
	logger.LogEventViewed(index, ev.SourceTag(), rec.viewer)

	writeJSON(w, http.StatusOK, EventResponse{
		Index:   index,
		Name:    ev.Name,
		Source:  ev.SourceTag(),
		Viewer:  rec.viewer,
		Icon:    rec.icon,
		Body:    body,
		Payload: ev.Payload,
	})
}

// Reload handles POST /api/v1/reload
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(); err != nil {
		logger.LogSnapshotError(h.store.Path(), err)
		writeError(w, err)
		return
	}

	stats := h.store.Stats()
	logger.LogSnapshotLoaded(h.store.Path(), stats)
	writeJSON(w, http.StatusOK, ReloadResponse{Success: true, Snapshot: stats})
}

// parseCallsParams applies the template and mode query parameters on top of
// the default table options
func parseCallsParams(r *http.Request, defaults widget.CallsTableOptions) (widget.CallsTableOptions, error) {
	opts := defaults
	query := r.URL.Query()

	if v := query.Get("template"); v != "" {
		template, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: template must be a boolean, got %q", domain.ErrInvalidParameter, v)
		}
		opts.Template = template
	}

	switch v := query.Get("mode"); v {
	case "":
	case constants.FilterModePattern, constants.FilterModeSubstring:
		opts.Mode = widget.ParseMatchMode(v)
	default:
		return opts, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidParameter, v)
	}

	return opts, nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error encoding JSON response")
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := domain.ErrCodeInternal
	message := "an internal error occurred"

	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		status = http.StatusNotFound
		code = domain.ErrCodeEventNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidIndex):
		status = http.StatusBadRequest
		code = domain.ErrCodeInvalidIndex
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidParameter):
		status = http.StatusBadRequest
		code = domain.ErrCodeInvalidParameter
		message = err.Error()
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		status = http.StatusServiceUnavailable
		code = domain.ErrCodeSnapshotUnavailable
		message = err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		message = "request timed out"
	default:
		// Log the actual error but return a sanitized message to avoid
		// leaking internal paths
		log.WithError(err).Error("Internal error")
	}

	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
