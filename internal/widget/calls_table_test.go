package widget

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charliek/errboard/internal/constants"
	"github.com/charliek/errboard/internal/domain"
)

// recordingRenderer captures every table it is asked to draw.
type recordingRenderer struct {
	tables []Table
}

func (r *recordingRenderer) RenderTable(t Table) string {
	r.tables = append(r.tables, t)
	return fmt.Sprintf("table:%d", len(t.DisplayRows()))
}

func makeRecord(method, path string, all, c4, c5 int64) domain.MetricRecord {
	return domain.MetricRecord{
		Method:      domain.HTTPMethod(method),
		URLHostpath: path,
		AllRequests: domain.Count(all),
		Count4xx:    domain.Count(c4),
		Count5xx:    domain.Count(c5),
	}
}

func sampleSet() domain.MetricSet {
	return domain.MetricSet{
		makeRecord("GET", "/api/users", 100, 4, 1),
		makeRecord("POST", "/api/orders", 50, 2, 3),
		makeRecord("GET", "/health", 900, 0, 0),
	}
}

func TestNewCallsTable(t *testing.T) {
	table := NewCallsTable(CallsTableOptions{})

	assert.Empty(t, table.Filter())
	assert.Nil(t, table.Matcher())
	assert.Equal(t, constants.DefaultTemplateRows, table.Options().TemplateRows)
}

func TestCallsTable_EmptySet(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})

	view := table.Render(domain.MetricSet{}, r)

	assert.True(t, view.Empty())
	assert.Equal(t, constants.NoMetricDataMessage, view.EmptyMessage)
	assert.Empty(t, view.Body)
	assert.Empty(t, r.tables, "renderer must not be called for an empty set")
	assert.True(t, view.Search.Disabled)
	assert.Equal(t, constants.SearchPlaceholder, view.Search.Placeholder)
}

func TestCallsTable_NilSetIsEmpty(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})

	view := table.Render(nil, r)

	assert.True(t, view.Empty())
	assert.Empty(t, r.tables)
}

func TestCallsTable_NoFilterPassesAllInOrder(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})
	set := sampleSet()

	view := table.Render(set, r)

	require.Len(t, r.tables, 1)
	assert.False(t, view.Empty())
	assert.False(t, view.Search.Disabled)
	assert.Equal(t, 3, view.Visible)

	rows := r.tables[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "/api/users", rows[0][1].Text)
	assert.Equal(t, "/api/orders", rows[1][1].Text)
	assert.Equal(t, "/health", rows[2][1].Text)
}

func TestCallsTable_FilterKeepsMatchingRows(t *testing.T) {
	table := NewCallsTable(CallsTableOptions{})
	table.SetFilter("api")

	visible := table.Visible(sampleSet())

	require.Len(t, visible, 2)
	assert.Equal(t, "/api/users", visible[0].URLHostpath)
	assert.Equal(t, "/api/orders", visible[1].URLHostpath)
}

func TestCallsTable_FilterIsRawInput(t *testing.T) {
	table := NewCallsTable(CallsTableOptions{})

	table.SetFilter(" api")
	assert.Equal(t, " api", table.Filter(), "filter text must not be trimmed")
	assert.Empty(t, table.Visible(sampleSet()))

	table.SetFilter("")
	assert.Len(t, table.Visible(sampleSet()), 3)
	assert.Nil(t, table.Matcher())
}

func TestCallsTable_FilterCaseInsensitive(t *testing.T) {
	table := NewCallsTable(CallsTableOptions{})
	table.SetFilter("HEALTH")

	visible := table.Visible(sampleSet())

	require.Len(t, visible, 1)
	assert.Equal(t, "/health", visible[0].URLHostpath)
}

func TestCallsTable_FilterNoMatchStillRendersTable(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})
	table.SetFilter("nothing-matches")

	view := table.Render(sampleSet(), r)

	assert.False(t, view.Empty(), "empty state is only for an empty input set")
	require.Len(t, r.tables, 1)
	assert.Empty(t, r.tables[0].Rows)
	assert.Equal(t, "nothing-matches", view.Search.Value)
}

func TestCallsTable_DoesNotMutateInput(t *testing.T) {
	set := sampleSet()
	before := append(domain.MetricSet(nil), set...)

	table := NewCallsTable(CallsTableOptions{})
	table.SetFilter("orders")
	_ = table.Render(set, &recordingRenderer{})

	assert.Equal(t, before, set)
}

func TestCallsTable_Columns(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})
	table.Render(sampleSet(), r)

	require.Len(t, r.tables, 1)
	got := r.tables[0]

	assert.Equal(t, SizeSmall, got.Size)
	require.Len(t, got.Columns, 5)
	keys := make([]string, len(got.Columns))
	for i, c := range got.Columns {
		keys[i] = c.Key
	}
	assert.Equal(t, []string{"method", "urlHostpath", "allRequests", "4xx", "5xx"}, keys)
	assert.Equal(t, CellMethod, got.Columns[0].Kind)
	assert.Equal(t, CellPath, got.Columns[1].Kind)
	assert.Equal(t, 8, got.Columns[0].Width)
	assert.Equal(t, 40, got.Columns[1].Width)

	assert.Equal(t, []Cell{{Text: "GET"}, {Text: "/api/users"}, {Text: "100"}, {Text: "4"}, {Text: "1"}}, got.Rows[0])
}

func TestCallsTable_MissingFieldsAreBlank(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})

	table.Render(domain.MetricSet{{URLHostpath: "/partial"}}, r)

	require.Len(t, r.tables, 1)
	row := r.tables[0].Rows[0]
	assert.Equal(t, "", row[0].Text)
	assert.Equal(t, "/partial", row[1].Text)
	assert.Equal(t, "", row[2].Text)
	assert.Equal(t, "", row[3].Text)
	assert.Equal(t, "", row[4].Text)
}

func TestCallsTable_MissingPathAndFilter(t *testing.T) {
	table := NewCallsTable(CallsTableOptions{})
	table.SetFilter("api")

	visible := table.Visible(domain.MetricSet{{Method: "GET"}})
	assert.Empty(t, visible)
}

func TestCallsTable_ImagePaths(t *testing.T) {
	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{})

	table.Render(domain.MetricSet{
		{URLHostpath: "cdn.io/logo.PNG"},
		{URLHostpath: "cdn.io/img/hero.webp?v=3"},
		{URLHostpath: "cdn.io/app.js"},
	}, r)

	rows := r.tables[0].Rows
	assert.True(t, rows[0][1].Image)
	assert.True(t, rows[1][1].Image)
	assert.False(t, rows[2][1].Image)
}

func TestCallsTable_TemplateMode(t *testing.T) {
	set := make(domain.MetricSet, 8)
	for i := range set {
		set[i] = makeRecord("GET", fmt.Sprintf("/api/%d", i), 1, 0, 0)
	}

	r := &recordingRenderer{}
	table := NewCallsTable(CallsTableOptions{Template: true, TemplateRows: 3})
	view := table.Render(set, r)

	require.Len(t, r.tables, 1)
	got := r.tables[0]
	assert.True(t, got.Template)
	assert.Len(t, got.Rows, 8)
	assert.Len(t, got.DisplayRows(), 3)
	assert.Equal(t, 5, got.Hidden())
	assert.Equal(t, "table:3", view.Body)
	assert.Equal(t, 8, view.Visible)
}

func TestCallsTable_RenderIsIdempotent(t *testing.T) {
	table := NewCallsTable(CallsTableOptions{})
	table.SetFilter("api")
	set := sampleSet()

	first := table.Render(set, &recordingRenderer{})
	second := table.Render(set, &recordingRenderer{})

	assert.Equal(t, first, second)
	assert.Equal(t, table.Table(set), table.Table(set))
}
