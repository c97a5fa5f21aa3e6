package widget

import (
	"encoding/json"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

//go:generate mockgen -source=dispatch.go -destination=../mocks/formatter/formatter.go -package=formatter_mock

// Icon keys of the vendors with a fixed icon.
const (
	IconDatadog     = constants.IconPrefix + domain.TagDatadog
	IconStackdriver = constants.IconPrefix + domain.TagStackdriver
)

// PayloadFormatter renders vendor payloads. Sentry gets a dedicated viewer;
// every other vendor goes through the generic structured viewer.
type PayloadFormatter interface {
	Sentry(payload json.RawMessage) string
	JSON(title string, payload json.RawMessage, icon string) string
}

// IconKey returns the icon key for a vendor tag.
func IconKey(tag string) string {
	return constants.IconPrefix + tag
}

// Dispatch renders ev with exactly one viewer chosen by its source. Every
// source, known or not, produces output.
func Dispatch(ev domain.StackEvent, f PayloadFormatter) string {
	return domain.MatchSource[string](ev.Source, dispatchCases{ev: ev, f: f})
}

type dispatchCases struct {
	ev domain.StackEvent
	f  PayloadFormatter
}

func (d dispatchCases) Sentry() string {
	return d.f.Sentry(d.ev.Payload)
}

func (d dispatchCases) Datadog() string {
	return d.f.JSON(d.ev.Name, d.ev.Payload, IconDatadog)
}

func (d dispatchCases) Stackdriver() string {
	return d.f.JSON(d.ev.Name, d.ev.Payload, IconStackdriver)
}

func (d dispatchCases) Other(tag string) string {
	return d.f.JSON(d.ev.Name, d.ev.Payload, IconKey(tag))
}
