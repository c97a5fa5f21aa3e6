// Package render draws widget output for terminals: tables through
// lipgloss/table and stack event payloads through lipgloss styles.
package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/widget"
)

// minColumnWidth keeps narrow terminals from collapsing a column entirely
const minColumnWidth = 4

// minMethodWidth fits the longest standard verb plus cell padding, so method
// badges never wrap.
const minMethodWidth = len(domain.MethodOptions) + 2

// imageMarker is appended to path cells that point at an image
const imageMarker = " [img]"

// TableRenderer draws widget tables with lipgloss/table.
type TableRenderer struct {
	// Width is the total width to lay columns out in.
	Width int
}

// NewTableRenderer creates a renderer for the given terminal width.
func NewTableRenderer(width int) *TableRenderer {
	return &TableRenderer{Width: width}
}

// RenderTable implements widget.TableRenderer.
func (r *TableRenderer) RenderTable(t widget.Table) string {
	widths := r.columnWidths(t.Columns)

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Title
	}

	rows := t.DisplayRows()
	data := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				line[j] = formatCell(col.Kind, row[j], widths[j])
			}
		}
		data[i] = line
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerCellStyle
			}
			if col >= 0 && col < len(widths) {
				style = style.Width(widths[col])
			}
			return style
		})

	if t.Size == widget.SizeSmall {
		tbl = tbl.BorderColumn(false).BorderLeft(false).BorderRight(false)
	}

	return tbl.String()
}

// columnWidths converts the percentage widths of cols into cell widths.
func (r *TableRenderer) columnWidths(cols []widget.Column) []int {
	total := r.Width
	if total <= 0 {
		total = constants.DefaultTableWidth
	}

	widths := make([]int, len(cols))
	for i, col := range cols {
		floor := minColumnWidth
		if col.Kind == widget.CellMethod {
			floor = minMethodWidth
		}
		widths[i] = max(total*col.Width/100, floor)
	}
	return widths
}

// formatCell applies the column's cell presentation. width includes padding.
func formatCell(kind widget.CellKind, cell widget.Cell, width int) string {
	if cell.Text == "" {
		return ""
	}

	switch kind {
	case widget.CellMethod:
		return methodStyle(cell.Text).Inline(true).Render(cell.Text)
	case widget.CellPath:
		room := width - 2
		if cell.Image {
			room -= len(imageMarker)
		}
		text := TruncateMiddle(cell.Text, room)
		if cell.Image {
			text += dimStyle.Render(imageMarker)
		}
		return text
	default:
		return cell.Text
	}
}

// TruncateMiddle shortens s to at most max runes by replacing its middle
// with an ellipsis, keeping both the host and the tail of a path visible.
func TruncateMiddle(s string, max int) string {
	runes := []rune(s)
	if max <= 0 {
		return ""
	}
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}

	keep := max - 1
	head := (keep + 1) / 2
	tail := keep - head
	return string(runes[:head]) + "…" + string(runes[len(runes)-tail:])
}
