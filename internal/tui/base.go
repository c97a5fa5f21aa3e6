package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/charliek/errboard/internal/constants"
)

// maxErrorDisplayLen is the maximum length of error messages in the status bar
const maxErrorDisplayLen = 60

// filterCharLimit caps the path filter input
const filterCharLimit = 200

// Layout heights around the main viewport
const (
	headerHeight = 3 // Title row, search row, margin
	footerHeight = 2 // Status bar
	modalChrome  = 4 // Modal border and title
)

// HelpConfig configures the help view for different run modes
type HelpConfig struct {
	// TitleSuffix is appended to "errboard" (e.g., "(serving on 127.0.0.1:5656)")
	TitleSuffix string
	// QuitMessage describes what happens on quit (e.g., "Quit (stops the API server)")
	QuitMessage string
}

// BaseModel holds the UI chrome shared by every view: viewports, the filter
// input, the current mode and the terminal dimensions.
type BaseModel struct {
	// UI components
	viewport  viewport.Model
	modal     viewport.Model
	textInput textinput.Model

	// Mode
	mode     Mode
	viewMode ViewMode

	// Dimensions
	width  int
	height int
	ready  bool

	// Help configuration
	helpConfig HelpConfig
}

// newBaseModel creates a new BaseModel with the given help configuration
func newBaseModel(helpConfig HelpConfig) BaseModel {
	ti := textinput.New()
	ti.Placeholder = constants.SearchPlaceholder
	ti.Prompt = "Path: "
	ti.CharLimit = filterCharLimit
	ti.Width = 40

	return BaseModel{
		textInput:  ti,
		mode:       ModeNormal,
		viewMode:   ViewModeCalls,
		helpConfig: helpConfig,
	}
}

// handleWindowSize handles window resize messages
func (b *BaseModel) handleWindowSize(msg tea.WindowSizeMsg) {
	b.width = msg.Width
	b.height = msg.Height

	viewportHeight := max(msg.Height-headerHeight-footerHeight, 1)
	modalWidth := max(msg.Width-modalChrome, 1)
	modalHeight := max(msg.Height-modalChrome, 1)

	if !b.ready {
		b.viewport = viewport.New(msg.Width, viewportHeight)
		b.viewport.YPosition = headerHeight
		b.modal = viewport.New(modalWidth, modalHeight)
		b.ready = true
	} else {
		b.viewport.Width = msg.Width
		b.viewport.Height = viewportHeight
		b.modal.Width = modalWidth
		b.modal.Height = modalHeight
	}
}

// handleHelpKey handles keys in help mode. Any key closes help.
func (b *BaseModel) handleHelpKey(tea.KeyMsg) {
	b.mode = ModeNormal
}

// handleScrollKey scrolls vp. Returns true if the key was handled.
func handleScrollKey(vp *viewport.Model, msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		vp.LineUp(1)
	case "down", "j":
		vp.LineDown(1)
	case "pgup":
		vp.HalfViewUp()
	case "pgdown":
		vp.HalfViewDown()
	case "home", "g":
		vp.GotoTop()
	case "end", "G":
		vp.GotoBottom()
	default:
		return false
	}
	return true
}

// panel renders the header: the title with view tabs, and a second row
func (b *BaseModel) panel(second string) string {
	title := titleStyle.Render("errboard")
	if b.helpConfig.TitleSuffix != "" {
		title += " " + dimStyle.Render(b.helpConfig.TitleSuffix)
	}

	tabs := []string{
		tabLabel("Calls", b.viewMode == ViewModeCalls),
		tabLabel("Events", b.viewMode == ViewModeEvents),
	}

	top := title + "  " + strings.Join(tabs, " ")
	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, top, second))
}

func tabLabel(name string, active bool) string {
	if active {
		return activeTabStyle.Render("[" + name + "]")
	}
	return inactiveTabStyle.Render(" " + name + " ")
}

// statusBar renders the bottom status bar
func (b *BaseModel) statusBar(left, right string) string {
	leftWidth := max(b.width-lipgloss.Width(right)-4, 0)

	leftPart := statusStyle.Width(leftWidth).Render(left)
	rightPart := statusStyle.Render(right)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPart, "  ", rightPart)
}

// mainView renders the main TUI layout
func (b *BaseModel) mainView(panel, left, right string) string {
	var sb strings.Builder

	sb.WriteString(panel)
	sb.WriteString("\n")

	sb.WriteString(b.viewport.View())
	sb.WriteString("\n")

	sb.WriteString(b.statusBar(left, right))

	return sb.String()
}

// helpView renders the help overlay based on current view mode
func (b *BaseModel) helpView() string {
	if b.viewMode == ViewModeEvents {
		return b.eventsHelpView()
	}
	return b.callsHelpView()
}

func (b *BaseModel) helpTitle(view string) (string, string) {
	title := "errboard"
	if b.helpConfig.TitleSuffix != "" {
		title += " " + b.helpConfig.TitleSuffix
	}
	title += " [" + view + " View]"

	quitMsg := "Quit"
	if b.helpConfig.QuitMessage != "" {
		quitMsg = b.helpConfig.QuitMessage
	}
	return title, quitMsg
}

// callsHelpView renders the help overlay for the calls table
func (b *BaseModel) callsHelpView() string {
	title, quitMsg := b.helpTitle("Calls")

	help := fmt.Sprintf(`
%s

Views:
  Tab        Switch to Events view

Navigation:
  j/↓        Scroll down
  k/↑        Scroll up
  g/Home     Go to top
  G/End      Go to bottom
  PgUp/PgDn  Page up/down

Filtering:
  / or s     Filter by path (case-insensitive, live)
  Enter      Keep filter and leave the input
  ESC        Clear filter

Other:
  r          Reload snapshot
  ?          Toggle help
  q/Ctrl+C   %s

Press any key to close help...
`, title, quitMsg)

	return helpStyle.Render(help)
}

// eventsHelpView renders the help overlay for the stack events list
func (b *BaseModel) eventsHelpView() string {
	title, quitMsg := b.helpTitle("Events")

	help := fmt.Sprintf(`
%s

Views:
  Tab        Switch to Calls view

Navigation:
  j/↓        Select next event
  k/↑        Select previous event
  g/Home     First event
  G/End      Last event
  Enter      Open event viewer
  ESC        Close event viewer

Other:
  r          Reload snapshot
  ?          Toggle help
  q/Ctrl+C   %s

Press any key to close help...
`, title, quitMsg)

	return helpStyle.Render(help)
}

// truncateError truncates an error message to maxLen characters
func truncateError(err error, maxLen int) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > maxLen {
		return msg[:maxLen-3] + "..."
	}
	return msg
}
