package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// StreamUpdates handles GET /api/v1/stream (SSE). Each snapshot reload is
// sent as one UpdateResponse event.
func (h *Handlers) StreamUpdates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	subID, ch := h.store.Subscribe()
	defer h.store.Unsubscribe(subID)

	// Send initial comment to establish connection
	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	// The subscription buffer drops updates for slow clients; write errors
	// and client disconnects end the handler and release the subscription.
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-ch:
			if !ok {
				return
			}

			data, err := json.Marshal(ToUpdateResponse(update))
			if err != nil {
				continue
			}

			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				log.WithError(err).Debug("SSE write error (client likely disconnected)")
				return
			}
			flusher.Flush()
		}
	}
}
