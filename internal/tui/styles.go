package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	// UI colors
	headerBg    = lipgloss.Color("235")
	statusBg    = lipgloss.Color("236")
	helpBg      = lipgloss.Color("234")
	errorColor  = lipgloss.Color("9")
	dimColor    = lipgloss.Color("8")
	accentColor = lipgloss.Color("14") // Cyan
	activeColor = lipgloss.Color("10") // Green
	borderColor = lipgloss.Color("240")
)

// Styles
var (
	// Header style
	headerStyle = lipgloss.NewStyle().
			Background(headerBg).
			Padding(0, 1).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	// Tab styles for the view switcher
	activeTabStyle = lipgloss.NewStyle().
			Foreground(activeColor).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(dimColor)

	// Status bar style
	statusStyle = lipgloss.NewStyle().
			Background(statusBg).
			Padding(0, 1)

	// Help overlay style
	helpStyle = lipgloss.NewStyle().
			Background(helpBg).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	// Event viewer modal
	modalStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	// Error indicator style
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(errorColor).
			Bold(true)

	// Selected row in the events list
	selectedStyle = lipgloss.NewStyle().
			Foreground(activeColor).
			Bold(true)

	vendorStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)
