package table

import "strings"

// Cell is one keyed cell of a row.
type Cell struct {
	Key  string
	Text string
}

// Row is one body row of the table.
type Row struct {
	ID    string
	Type  string
	Cells []Cell
}

// Cell returns the trimmed text of the cell with the given key, or "" when
// the row has no such cell.
func (r Row) Cell(key string) string {
	for _, c := range r.Cells {
		if c.Key == key {
			return strings.TrimSpace(c.Text)
		}
	}
	return ""
}

// Text returns the full text of the row, hidden cells included.
func (r Row) Text() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}

// View is the rendered page a Controller reads its inputs from and applies
// its outputs to.
type View interface {
	// HasTable reports whether the view shows a table at all.
	HasTable() bool

	// ColumnKeys lists the keys of the column toggle controls.
	ColumnKeys() []string
	ColumnChecked(key string) bool
	SetColumnChecked(key string, checked bool)
	// SetColumnHidden hides or shows the header and every cell of a column.
	SetColumnHidden(key string, hidden bool)

	SearchText() string
	TypeFilter() string

	// Rows returns the body rows in their current order.
	Rows() []Row
	SetRowHidden(id string, hidden bool)
	SetRowOrder(ids []string)

	SetVisibleCount(n int)
	SetTotalCount(n int)

	// SortableKeys lists the columns whose headers carry a sort icon.
	SortableKeys() []string
	SetSortIcon(key string, icon SortIcon)
}
