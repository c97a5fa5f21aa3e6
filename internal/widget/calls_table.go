// Package widget holds the dashboard's error widgets: the calls-with-errors
// table with its path filter, and the stack event viewer dispatch.
//
// Widgets only read the data they are given. Drawing is delegated to the
// TableRenderer and PayloadFormatter collaborators.
package widget

import (
	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

// CallsTableOptions configures a CallsTable.
type CallsTableOptions struct {
	// Template renders a short preview, as used in dashboard templates.
	Template bool
	// TemplateRows is the preview length; <= 0 means DefaultTemplateRows.
	TemplateRows int
	// Mode selects pattern or substring matching for the filter.
	Mode MatchMode
}

// SearchBox is the state of the path filter input.
type SearchBox struct {
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
	Disabled    bool   `json:"disabled"`
}

// CallsView is the output of one render of the calls table.
type CallsView struct {
	Search SearchBox
	// EmptyMessage is set, and Body left empty, when there are no records.
	EmptyMessage string
	// Body is the renderer's output for the visible rows.
	Body string
	// Visible is the number of rows that passed the filter.
	Visible int
}

// Empty reports whether the view shows the empty state instead of a table.
func (v CallsView) Empty() bool {
	return v.EmptyMessage != ""
}

// CallsTable is the calls-with-errors widget. Its only state is the filter
// text, which starts empty and changes only through SetFilter.
type CallsTable struct {
	opts    CallsTableOptions
	filter  string
	matcher *PathMatcher
}

// NewCallsTable creates a calls table with an empty filter.
func NewCallsTable(opts CallsTableOptions) CallsTable {
	if opts.TemplateRows <= 0 {
		opts.TemplateRows = constants.DefaultTemplateRows
	}
	return CallsTable{opts: opts}
}

// SetFilter replaces the filter text with the raw input value. The value is
// kept exactly as typed.
func (c *CallsTable) SetFilter(raw string) {
	c.filter = raw
	c.matcher = nil
	if raw != "" {
		c.matcher = NewPathMatcher(raw, c.opts.Mode)
	}
}

// Filter returns the current filter text.
func (c CallsTable) Filter() string {
	return c.filter
}

// Matcher returns the active matcher, nil when the filter is empty.
func (c CallsTable) Matcher() *PathMatcher {
	return c.matcher
}

// Options returns the table's configuration.
func (c CallsTable) Options() CallsTableOptions {
	return c.opts
}

// Visible returns the records whose host-path matches the filter, in input
// order. With an empty filter the set is returned as is.
func (c CallsTable) Visible(set domain.MetricSet) domain.MetricSet {
	if c.filter == "" || c.matcher == nil {
		return set
	}

	result := make(domain.MetricSet, 0, len(set))
	for _, rec := range set {
		if c.matcher.Match(rec.URLHostpath) {
			result = append(result, rec)
		}
	}
	return result
}

// Table builds the column specs and cells for the visible records.
func (c CallsTable) Table(set domain.MetricSet) Table {
	visible := c.Visible(set)

	rows := make([][]Cell, len(visible))
	for i, rec := range visible {
		row := make([]Cell, len(callColumns))
		for j, col := range callColumns {
			row[j] = col.cell(rec)
		}
		rows[i] = row
	}

	return Table{
		Columns:      CallColumns(),
		Rows:         rows,
		Size:         SizeSmall,
		Template:     c.opts.Template,
		TemplateRows: c.opts.TemplateRows,
	}
}

// Search returns the filter box state for set.
func (c CallsTable) Search(set domain.MetricSet) SearchBox {
	return SearchBox{
		Placeholder: constants.SearchPlaceholder,
		Value:       c.filter,
		Disabled:    len(set) == 0,
	}
}

// Render draws the widget. An empty set yields the empty-state message and
// never reaches the renderer.
func (c CallsTable) Render(set domain.MetricSet, r TableRenderer) CallsView {
	view := CallsView{Search: c.Search(set)}

	if len(set) == 0 {
		view.EmptyMessage = constants.NoMetricDataMessage
		return view
	}

	table := c.Table(set)
	view.Visible = len(table.Rows)
	view.Body = r.RenderTable(table)
	return view
}
