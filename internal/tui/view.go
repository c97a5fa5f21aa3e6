package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/errboard/internal/render"
	"github.com/charliek/errboard/internal/widget"
)

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.helpView()
	case ModeEvent:
		return m.modalView()
	default:
		return m.mainView(m.panel(m.secondRow()), m.statusLeft(), m.statusRight())
	}
}

// updateViewport updates the viewport content
func (m *Model) updateViewport() {
	if m.viewMode == ViewModeEvents {
		m.viewport.SetContent(m.eventsContent())
		return
	}
	m.viewport.SetContent(m.callsContent())
}

// callsContent renders the calls table or its empty state
func (m Model) callsContent() string {
	view := m.calls.Render(m.metricSet, m.tables)
	if view.Empty() {
		msg := dimStyle.Render(view.EmptyMessage)
		if m.loadErr != nil {
			msg += "\n" + dimStyle.Render(truncateError(m.loadErr, maxErrorDisplayLen))
		}
		return msg
	}
	return view.Body
}

// eventsContent renders the stack event list with the cursor
func (m Model) eventsContent() string {
	if len(m.events) == 0 {
		return dimStyle.Render("No stack events.")
	}

	lines := make([]string, len(m.events))
	for i, ev := range m.events {
		vendor := fmt.Sprintf("%-12s", render.VendorLabel(widget.IconKey(ev.SourceTag())))
		name := ev.Name
		if name == "" {
			name = "(untitled)"
		}

		cursor := "  "
		if i == m.selected {
			cursor = "> "
			name = selectedStyle.Render(name)
		}
		lines[i] = fmt.Sprintf("%s%3d  %s %s", cursor, i, vendorStyle.Render(vendor), name)
	}
	return strings.Join(lines, "\n")
}

// secondRow renders the header row under the title: the path input in the
// calls view, a hint in the events view.
func (m Model) secondRow() string {
	if m.viewMode == ViewModeEvents {
		return dimStyle.Render("Enter: open event")
	}

	search := m.calls.Search(m.metricSet)
	switch {
	case m.mode == ModeFilter:
		return m.textInput.View()
	case search.Disabled:
		return dimStyle.Render(m.textInput.Prompt + search.Placeholder + " (no data)")
	case search.Value == "":
		return dimStyle.Render(m.textInput.Prompt + search.Placeholder)
	default:
		return m.textInput.Prompt + search.Value
	}
}

// statusLeft renders mode hints and reload feedback
func (m Model) statusLeft() string {
	if m.mode == ModeFilter {
		return "Enter: keep filter | ESC: clear"
	}

	left := "Tab: switch view | ? for help"
	if m.viewMode == ViewModeCalls && m.calls.Filter() != "" {
		left = fmt.Sprintf("Filter: %s (ESC to clear)", m.calls.Filter())
	}

	switch {
	case m.lastReloadErr != nil:
		left += " | " + errorStyle.Render("Reload failed: "+truncateError(m.lastReloadErr, maxErrorDisplayLen))
	case m.notice != "":
		left += " | " + m.notice
	case !m.lastReloadAt.IsZero():
		left += " | Loaded " + m.lastReloadAt.Format("15:04:05")
	}
	return left
}

// statusRight renders the view indicator and counts
func (m Model) statusRight() string {
	if m.viewMode == ViewModeEvents {
		pos := 0
		if len(m.events) > 0 {
			pos = m.selected + 1
		}
		return fmt.Sprintf("[Events] %d/%d events", pos, len(m.events))
	}

	mode := "regex"
	if matcher := m.calls.Matcher(); matcher != nil && matcher.Literal() {
		mode = "literal"
	}
	visible := len(m.calls.Visible(m.metricSet))
	return fmt.Sprintf("[Calls] [%s] %d/%d calls", mode, visible, len(m.metricSet))
}

// modalView renders the open stack event in its viewer
func (m Model) modalView() string {
	title := "Event"
	if ev, ok := m.selectedEvent(); ok {
		title = fmt.Sprintf("Event %d: %s", m.selected, render.VendorLabel(widget.IconKey(ev.SourceTag())))
	}

	header := titleStyle.Render(title) + "  " + dimStyle.Render("ESC: close | j/k: scroll")
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.modal.View())
	return modalStyle.Width(max(m.width-2, 1)).Render(body)
}
