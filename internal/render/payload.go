package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/widget"
)

// defaultRuleWidth is used when the formatter has no width
const defaultRuleWidth = 60

// vendorLabels maps icon tags to display names
var vendorLabels = map[string]string{
	domain.TagSentry:      "Sentry",
	domain.TagDatadog:     "Datadog",
	domain.TagStackdriver: "Stackdriver",
	"newrelic":            "New Relic",
	"rollbar":             "Rollbar",
	"bugsnag":             "Bugsnag",
	"honeybadger":         "Honeybadger",
	"appsignal":           "AppSignal",
}

// PayloadFormatter implements widget.PayloadFormatter for terminals.
type PayloadFormatter struct {
	// Width is the width of the rule drawn under viewer headers.
	Width int
}

// NewPayloadFormatter creates a formatter for the given terminal width.
func NewPayloadFormatter(width int) *PayloadFormatter {
	return &PayloadFormatter{Width: width}
}

// VendorLabel returns the display name for an icon key such as
// "integrations/datadog".
func VendorLabel(icon string) string {
	tag := strings.TrimPrefix(icon, constants.IconPrefix)
	if tag == "" {
		return "Unknown"
	}
	if label, ok := vendorLabels[tag]; ok {
		return label
	}
	first, size := utf8.DecodeRuneInString(tag)
	return string(unicode.ToUpper(first)) + tag[size:]
}

// JSON is the generic structured viewer: a header with the event title and
// vendor, followed by the indented payload.
func (f *PayloadFormatter) JSON(title string, payload json.RawMessage, icon string) string {
	if title == "" {
		title = "(untitled)"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("  ")
	b.WriteString(vendorStyle.Render(VendorLabel(icon)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(f.rule()))
	b.WriteString("\n")
	b.WriteString(PrettyJSON(payload))
	return b.String()
}

// Sentry is the dedicated viewer for Sentry events. Payloads that do not
// decode as a Sentry event fall back to the generic viewer.
func (f *PayloadFormatter) Sentry(payload json.RawMessage) string {
	ev, err := decodeSentryEvent(payload)
	if err != nil || ev.empty() {
		return f.JSON("Sentry event", payload, widget.IconKey(domain.TagSentry))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(ev.title()))
	b.WriteString("  ")
	b.WriteString(vendorStyle.Render(VendorLabel(domain.TagSentry)))
	if ev.Level != "" {
		b.WriteString("  ")
		b.WriteString(levelStyle.Render(strings.ToUpper(ev.Level)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(f.rule()))
	b.WriteString("\n")

	if msg := ev.message(); msg != "" && len(ev.Exception.Values) > 0 {
		b.WriteString(msg)
		b.WriteString("\n\n")
	}

	for i, exc := range ev.Exception.Values {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(exceptionStyle.Render(exc.heading()))
		b.WriteString("\n")
		if exc.Stacktrace == nil {
			continue
		}
		frames := exc.Stacktrace.Frames
		// Sentry lists frames outermost first; show the crash site on top.
		for j := len(frames) - 1; j >= 0; j-- {
			b.WriteString(frames[j].line())
			b.WriteString("\n")
			if ctx := strings.TrimSpace(frames[j].ContextLine); ctx != "" {
				b.WriteString(dimStyle.Render("      " + ctx))
				b.WriteString("\n")
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (f *PayloadFormatter) rule() string {
	w := f.Width
	if w <= 0 {
		w = defaultRuleWidth
	}
	return strings.Repeat("─", w)
}

// PrettyJSON indents payload by two spaces. Payloads that are not valid JSON
// are returned unchanged.
func PrettyJSON(payload json.RawMessage) string {
	if len(bytes.TrimSpace(payload)) == 0 {
		return dimStyle.Render("(empty payload)")
	}

	var out bytes.Buffer
	if err := json.Indent(&out, payload, "", "  "); err != nil {
		return string(payload)
	}
	return out.String()
}

type sentryEvent struct {
	EventID   string          `json:"event_id"`
	Message   json.RawMessage `json:"message"`
	Level     string          `json:"level"`
	Culprit   string          `json:"culprit"`
	Exception struct {
		Values []sentryException `json:"values"`
	} `json:"exception"`
}

type sentryException struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	Stacktrace *struct {
		Frames []sentryFrame `json:"frames"`
	} `json:"stacktrace"`
}

type sentryFrame struct {
	Filename    string `json:"filename"`
	AbsPath     string `json:"abs_path"`
	Function    string `json:"function"`
	Lineno      int    `json:"lineno"`
	ContextLine string `json:"context_line"`
	InApp       bool   `json:"in_app"`
}

func decodeSentryEvent(payload json.RawMessage) (sentryEvent, error) {
	var ev sentryEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return sentryEvent{}, err
	}
	return ev, nil
}

func (e sentryEvent) empty() bool {
	return e.message() == "" && len(e.Exception.Values) == 0
}

// message accepts both the plain string form and the logentry object form.
func (e sentryEvent) message() string {
	if len(e.Message) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		return s
	}

	var entry struct {
		Formatted string `json:"formatted"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(e.Message, &entry); err != nil {
		return ""
	}
	if entry.Formatted != "" {
		return entry.Formatted
	}
	return entry.Message
}

func (e sentryEvent) title() string {
	if len(e.Exception.Values) > 0 {
		// The last value is the exception that was raised.
		return e.Exception.Values[len(e.Exception.Values)-1].heading()
	}
	if msg := e.message(); msg != "" {
		return msg
	}
	return "Sentry event"
}

func (x sentryException) heading() string {
	switch {
	case x.Type != "" && x.Value != "":
		return x.Type + ": " + x.Value
	case x.Type != "":
		return x.Type
	case x.Value != "":
		return x.Value
	default:
		return "Exception"
	}
}

func (fr sentryFrame) line() string {
	file := fr.Filename
	if file == "" {
		file = fr.AbsPath
	}
	if file == "" {
		file = "?"
	}

	fn := fr.Function
	if fn == "" {
		fn = "<anonymous>"
	}

	loc := file
	if fr.Lineno > 0 {
		loc = fmt.Sprintf("%s:%d", loc, fr.Lineno)
	}

	line := fmt.Sprintf("  %s  %s", fn, loc)
	if !fr.InApp {
		return dimStyle.Render(line)
	}
	return line
}
