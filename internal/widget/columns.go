package widget

import (
	"path"
	"strings"

	"github.com/charliek/errboard/internal/domain"
)

// callColumn pairs a column spec with the function that extracts its cell.
type callColumn struct {
	Column
	cell func(domain.MetricRecord) Cell
}

var callColumns = []callColumn{
	{Column{Key: "method", Title: "Method", Width: 8, Kind: CellMethod}, methodCell},
	{Column{Key: "urlHostpath", Title: "Path", Width: 40, Kind: CellPath}, pathCell},
	{Column{Key: "allRequests", Title: "Requests", Width: 15, Kind: CellText}, func(r domain.MetricRecord) Cell {
		return Cell{Text: domain.FormatCount(r.AllRequests)}
	}},
	{Column{Key: "4xx", Title: "4xx", Width: 15, Kind: CellText}, func(r domain.MetricRecord) Cell {
		return Cell{Text: domain.FormatCount(r.Count4xx)}
	}},
	{Column{Key: "5xx", Title: "5xx", Width: 15, Kind: CellText}, func(r domain.MetricRecord) Cell {
		return Cell{Text: domain.FormatCount(r.Count5xx)}
	}},
}

// CallColumns returns the fixed column specs of the calls table.
func CallColumns() []Column {
	cols := make([]Column, len(callColumns))
	for i, c := range callColumns {
		cols[i] = c.Column
	}
	return cols
}

func methodCell(r domain.MetricRecord) Cell {
	return Cell{Text: string(r.Method.Normalize())}
}

func pathCell(r domain.MetricRecord) Cell {
	return Cell{Text: r.URLHostpath, Image: isImagePath(r.URLHostpath)}
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".avif": true,
	".ico":  true,
	".bmp":  true,
}

// isImagePath reports whether a host-path points at an image resource,
// ignoring any query string or fragment.
func isImagePath(p string) bool {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return imageExtensions[strings.ToLower(path.Ext(p))]
}
