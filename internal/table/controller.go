// Package table implements the filter, sort and column visibility logic of
// the participant list against an injected View.
package table

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"skare/internal/debug"
)

// DefaultLocale is used for string collation when no locale is configured.
var DefaultLocale = language.Czech

// Controller derives row visibility, row order and column visibility from
// the controls of a View.
type Controller struct {
	view       View
	sort       *SortState
	collator   *collate.Collator
	dateColumn string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLocale sets the collation locale for string columns.
func WithLocale(tag language.Tag) Option {
	return func(c *Controller) {
		c.collator = collate.New(tag)
	}
}

// Attach binds a controller to v and applies the initial column visibility
// and counts. It returns false, and does nothing, when v has no table.
func Attach(v View, opts ...Option) (*Controller, bool) {
	if v == nil || !v.HasTable() {
		return nil, false
	}
	c := &Controller{
		view:       v,
		sort:       NewSortState(),
		dateColumn: ColDOB,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.collator == nil {
		c.collator = collate.New(DefaultLocale)
	}
	c.UpdateColumnVisibility()
	c.UpdateCounts()
	return c, true
}

// SortState returns the controller's sort state.
func (c *Controller) SortState() *SortState {
	return c.sort
}

// Filter returns the current filter control values.
func (c *Controller) Filter() FilterState {
	return FilterState{
		SearchText: c.view.SearchText(),
		TypeFilter: c.view.TypeFilter(),
	}
}

// Snapshot is the filter and sort a controller currently applies.
type Snapshot struct {
	Filter     FilterState
	SortColumn string
	Ascending  bool
}

// Sorted reports whether a sort column is active.
func (s Snapshot) Sorted() bool {
	return s.SortColumn != ""
}

// State returns a snapshot of the current filter and sort.
func (c *Controller) State() Snapshot {
	s := Snapshot{Filter: c.Filter(), SortColumn: c.sort.Current}
	if s.SortColumn != "" {
		s.Ascending, _ = c.sort.Direction(s.SortColumn)
	}
	return s
}

// UpdateColumnVisibility hides every column whose toggle is unchecked and
// shows every column whose toggle is checked.
func (c *Controller) UpdateColumnVisibility() {
	for _, key := range c.view.ColumnKeys() {
		c.view.SetColumnHidden(key, !c.view.ColumnChecked(key))
	}
}

// FilterTable shows the rows matching both the type filter and the search
// text and hides the rest. It returns the number of visible rows.
func (c *Controller) FilterTable() int {
	f := c.Filter()
	search := strings.ToLower(f.SearchText)

	visible := 0
	for _, row := range c.view.Rows() {
		matchesType := f.TypeFilter == "" || row.Type == f.TypeFilter
		matchesSearch := search == "" || strings.Contains(strings.ToLower(row.Text()), search)
		if matchesType && matchesSearch {
			c.view.SetRowHidden(row.ID, false)
			visible++
		} else {
			c.view.SetRowHidden(row.ID, true)
		}
	}
	c.view.SetVisibleCount(visible)
	debug.Log("filter search=%q type=%q visible=%d", f.SearchText, f.TypeFilter, visible)
	return visible
}

// UpdateCounts sets the total counter and resets the visible counter to it.
func (c *Controller) UpdateCounts() int {
	total := len(c.view.Rows())
	c.view.SetTotalCount(total)
	c.view.SetVisibleCount(total)
	return total
}

// SetPreset replaces the column selection with the named preset. Unknown
// names select the basic preset.
func (c *Controller) SetPreset(name string) {
	for _, key := range c.view.ColumnKeys() {
		c.view.SetColumnChecked(key, false)
	}
	for _, key := range PresetColumns(name) {
		c.view.SetColumnChecked(key, true)
	}
	c.UpdateColumnVisibility()
}

// SortTable toggles the direction of column, reorders the rows by it and
// updates the sort icons. It returns true for ascending order.
func (c *Controller) SortTable(column string) bool {
	ascending := c.sort.Toggle(column)
	c.updateSortIcons(column)
	c.orderRows(column, ascending)
	return ascending
}

// Reapply recomputes counts, order and visibility after the rows of the
// view were replaced, keeping the current sort direction and filters.
func (c *Controller) Reapply() int {
	c.UpdateCounts()
	if c.sort.Current != "" {
		ascending, _ := c.sort.Direction(c.sort.Current)
		c.updateSortIcons(c.sort.Current)
		c.orderRows(c.sort.Current, ascending)
	}
	return c.FilterTable()
}

func (c *Controller) orderRows(column string, ascending bool) {
	rows := c.view.Rows()
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}

	var cmp func(i, j int) int
	if column == c.dateColumn {
		keys := make([]dateKey, len(rows))
		for i, r := range rows {
			keys[i] = parseDayFirst(r.Cell(column))
		}
		cmp = func(i, j int) int { return keys[i].compare(keys[j]) }
	} else {
		vals := make([]string, len(rows))
		for i, r := range rows {
			vals[i] = r.Cell(column)
		}
		cmp = func(i, j int) int { return c.collator.CompareString(vals[i], vals[j]) }
	}

	sort.SliceStable(order, func(a, b int) bool {
		if ascending {
			return cmp(order[a], order[b]) < 0
		}
		return cmp(order[b], order[a]) < 0
	})

	ids := make([]string, len(order))
	for i, idx := range order {
		ids[i] = rows[idx].ID
	}
	c.view.SetRowOrder(ids)
	debug.Log("sort column=%s ascending=%t rows=%d", column, ascending, len(ids))
}

func (c *Controller) updateSortIcons(active string) {
	for _, key := range c.view.SortableKeys() {
		c.view.SetSortIcon(key, IconNeutral)
	}
	c.view.SetSortIcon(active, c.sort.Icon(active))
}

// OnColumnToggle handles a change of a column toggle control.
func (c *Controller) OnColumnToggle() {
	c.UpdateColumnVisibility()
}

// OnSearchInput handles an edit of the search text control.
func (c *Controller) OnSearchInput() int {
	return c.FilterTable()
}

// OnTypeChange handles a change of the type select control.
func (c *Controller) OnTypeChange() int {
	return c.FilterTable()
}

// OnHeaderClick handles a click on the header of column.
func (c *Controller) OnHeaderClick(column string) bool {
	return c.SortTable(column)
}
