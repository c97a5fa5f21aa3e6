package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charliek/errboard/internal/render"
	"github.com/charliek/errboard/internal/widget"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		m.tables = render.NewTableRenderer(msg.Width)
		m.formatter = render.NewPayloadFormatter(m.modal.Width)
		m.updateViewport()

	case SnapshotMsg:
		m.lastReloadAt = msg.LoadedAt
		m.refresh()
		m.leaveDisabledFilter()
		m.updateViewport()

	case ReloadResultMsg:
		m.lastReloadErr = msg.Err
		if msg.Err == nil {
			m.notice = "Snapshot reloaded"
			m.refresh()
			m.leaveDisabledFilter()
			m.updateViewport()
		} else {
			m.notice = ""
		}
		cmds = append(cmds, noticeClearCmd())

	case NoticeClearMsg:
		m.notice = ""
		m.lastReloadErr = nil
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle mode-specific keys first
	switch m.mode {
	case ModeFilter:
		return m.handleFilterKey(msg)
	case ModeEvent:
		m.handleEventKey(msg)
		return m, nil
	case ModeHelp:
		m.handleHelpKey(msg)
		return m, nil
	}

	// Normal mode keys
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		return m, reloadCmd(m.source)

	case "?":
		m.mode = ModeHelp
		return m, nil

	case "tab":
		if m.viewMode == ViewModeCalls {
			m.viewMode = ViewModeEvents
		} else {
			m.viewMode = ViewModeCalls
		}
		m.updateViewport()
		return m, nil
	}

	if m.viewMode == ViewModeEvents {
		m.handleEventsKey(msg)
		return m, nil
	}
	return m.handleCallsKey(msg)
}

// handleCallsKey handles normal mode keys in the calls view
func (m Model) handleCallsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/", "s":
		if m.filterDisabled() {
			return m, nil
		}
		m.mode = ModeFilter
		m.textInput.SetValue(m.calls.Filter())
		m.textInput.CursorEnd()
		return m, m.textInput.Focus()

	case "esc":
		m.applyFilter("")
		return m, nil
	}

	handleScrollKey(&m.viewport, msg)
	return m, nil
}

// handleFilterKey handles keys while the path input has focus. Every edit
// is applied to the table immediately.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = ModeNormal
		m.textInput.Blur()
		m.textInput.SetValue("")
		m.applyFilter("")
		return m, nil

	case "enter":
		m.mode = ModeNormal
		m.textInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.applyFilter(m.textInput.Value())
	return m, cmd
}

// applyFilter sets the table filter and redraws
func (m *Model) applyFilter(raw string) {
	m.calls.SetFilter(raw)
	m.updateViewport()
}

// leaveDisabledFilter drops focus from the path input once there is no data
// to filter.
func (m *Model) leaveDisabledFilter() {
	if m.mode == ModeFilter && m.filterDisabled() {
		m.mode = ModeNormal
		m.textInput.Blur()
	}
}

// handleEventsKey handles normal mode keys in the events list
func (m *Model) handleEventsKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.events)-1 {
			m.selected++
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.selected = max(len(m.events)-1, 0)
	case "enter":
		m.openEvent()
		return
	default:
		return
	}
	m.updateViewport()
}

// openEvent renders the selected event into the modal viewer
func (m *Model) openEvent() {
	ev, ok := m.selectedEvent()
	if !ok {
		return
	}
	m.modal.SetContent(widget.Dispatch(ev, m.formatter))
	m.modal.GotoTop()
	m.mode = ModeEvent
}

// handleEventKey handles keys while the event viewer is open
func (m *Model) handleEventKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.mode = ModeNormal
		return
	}
	handleScrollKey(&m.modal, msg)
}
