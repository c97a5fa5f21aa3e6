package api

import (
	"encoding/json"

	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/widget"
)

// Viewer names reported in EventResponse
const (
	ViewerSentry = "sentry"
	ViewerJSON   = "json"
)

// recordingFormatter wraps a PayloadFormatter and remembers which viewer
// the dispatcher chose.
type recordingFormatter struct {
	next   widget.PayloadFormatter
	viewer string
	icon   string
}

func (f *recordingFormatter) Sentry(payload json.RawMessage) string {
	f.viewer = ViewerSentry
	f.icon = widget.IconKey(domain.TagSentry)
	return f.next.Sentry(payload)
}

func (f *recordingFormatter) JSON(title string, payload json.RawMessage, icon string) string {
	f.viewer = ViewerJSON
	f.icon = icon
	return f.next.JSON(title, payload, icon)
}
