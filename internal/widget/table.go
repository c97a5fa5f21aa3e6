package widget

// Size is the size hint passed to a table renderer.
type Size string

const (
	SizeSmall   Size = "small"
	SizeDefault Size = "default"
)

// CellKind tells a renderer which cell presentation a column uses.
type CellKind string

const (
	// CellText is a plain value.
	CellText CellKind = "text"
	// CellMethod is an HTTP verb shown as a coloured badge.
	CellMethod CellKind = "method"
	// CellPath is a host-path, possibly pointing at an image.
	CellPath CellKind = "path"
)

// Column describes one column of a generic table.
type Column struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Width int      `json:"width"` // percent of the table width
	Kind  CellKind `json:"kind"`
}

// Cell is one rendered value. An empty Text is a blank cell.
type Cell struct {
	Text  string `json:"text"`
	Image bool   `json:"image,omitempty"`
}

// Table is everything a tabular renderer needs: column specs, row data and a
// size hint. It holds no behaviour so it can travel over the API unchanged.
type Table struct {
	Columns      []Column `json:"columns"`
	Rows         [][]Cell `json:"rows"`
	Size         Size     `json:"size"`
	Template     bool     `json:"template,omitempty"`
	TemplateRows int      `json:"template_rows,omitempty"`
}

// DisplayRows returns the rows a renderer should draw. In template mode only
// the first TemplateRows rows are shown.
func (t Table) DisplayRows() [][]Cell {
	if t.Template && t.TemplateRows > 0 && len(t.Rows) > t.TemplateRows {
		return t.Rows[:t.TemplateRows]
	}
	return t.Rows
}

// Hidden returns how many rows DisplayRows leaves out.
func (t Table) Hidden() int {
	return len(t.Rows) - len(t.DisplayRows())
}

// TableRenderer draws a Table. Implementations must be deterministic: the
// same Table always yields the same output.
type TableRenderer interface {
	RenderTable(t Table) string
}
