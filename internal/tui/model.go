package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/render"
	"github.com/charliek/errboard/internal/snapshot"
	"github.com/charliek/errboard/internal/widget"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeEvent
	ModeHelp
)

// ViewMode selects the widget shown in the main area
type ViewMode int

const (
	ViewModeCalls ViewMode = iota
	ViewModeEvents
)

// Source is the data the dashboard reads. *snapshot.Store satisfies it.
type Source interface {
	Current() (snapshot.Snapshot, error)
	Load() error
}

// Options configures the dashboard.
type Options struct {
	Table widget.CallsTableOptions
	Help  HelpConfig
}

// Model is the bubbletea model for the dashboard
type Model struct {
	BaseModel

	source    Source
	calls     widget.CallsTable
	tables    *render.TableRenderer
	formatter *render.PayloadFormatter

	// Current data
	metricSet domain.MetricSet
	events    []domain.StackEvent
	loadErr   error

	// Events view cursor
	selected int

	// Last reload result for feedback
	lastReloadAt  time.Time
	lastReloadErr error
	notice        string
}

// NewModel creates a new dashboard model and reads the current data from
// source.
func NewModel(source Source, opts Options) Model {
	// The dashboard always shows the full table
	opts.Table.Template = false

	m := Model{
		BaseModel: newBaseModel(opts.Help),
		source:    source,
		calls:     widget.NewCallsTable(opts.Table),
		tables:    render.NewTableRenderer(constants.DefaultTableWidth),
		formatter: render.NewPayloadFormatter(constants.DefaultTableWidth),
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// SnapshotMsg is sent when the store publishes a new snapshot
type SnapshotMsg snapshot.Update

// ReloadResultMsg is sent when a reload operation completes
type ReloadResultMsg struct {
	Err error
}

// NoticeClearMsg is sent to clear the status notice after a delay
type NoticeClearMsg struct{}

// noticeClearDelay is how long to show a notice before clearing
const noticeClearDelay = 3 * time.Second

// noticeClearCmd returns a command that clears the notice after a delay
func noticeClearCmd() tea.Cmd {
	return tea.Tick(noticeClearDelay, func(t time.Time) tea.Msg {
		return NoticeClearMsg{}
	})
}

// reloadCmd reloads the source off the update loop
func reloadCmd(source Source) tea.Cmd {
	return func() tea.Msg {
		return ReloadResultMsg{Err: source.Load()}
	}
}

// refresh reads the metric set and events from the source. An unavailable
// snapshot is shown as empty data.
func (m *Model) refresh() {
	snap, err := m.source.Current()
	m.loadErr = err
	m.metricSet = snap.Calls.Chart
	m.events = snap.Events

	if m.selected >= len(m.events) {
		m.selected = max(len(m.events)-1, 0)
	}
}

// filterDisabled reports whether the path input can take focus
func (m Model) filterDisabled() bool {
	return m.calls.Search(m.metricSet).Disabled
}

// selectedEvent returns the event under the cursor
func (m Model) selectedEvent() (domain.StackEvent, bool) {
	if m.selected < 0 || m.selected >= len(m.events) {
		return domain.StackEvent{}, false
	}
	return m.events[m.selected], true
}
