package render

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	getColor     = lipgloss.Color("10") // Green
	postColor    = lipgloss.Color("12") // Blue
	putColor     = lipgloss.Color("11") // Yellow
	deleteColor  = lipgloss.Color("9")  // Red
	otherColor   = lipgloss.Color("8")  // Gray
	borderColor  = lipgloss.Color("240")
	dimColor     = lipgloss.Color("8")
	accentColor  = lipgloss.Color("14") // Cyan
	warningColor = lipgloss.Color("208")
)

// Styles
var (
	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(borderColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	vendorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	levelStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	exceptionStyle = lipgloss.NewStyle().
			Foreground(deleteColor).
			Bold(true)
)

// methodStyle returns the badge style for an HTTP verb.
func methodStyle(method string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch method {
	case "GET":
		return base.Foreground(getColor)
	case "POST":
		return base.Foreground(postColor)
	case "PUT", "PATCH":
		return base.Foreground(putColor)
	case "DELETE":
		return base.Foreground(deleteColor)
	default:
		return base.Foreground(otherColor)
	}
}
