package table

// SortIcon is the header glyph state of a sortable column.
type SortIcon int

const (
	IconNeutral SortIcon = iota
	IconAscending
	IconDescending
)

// Glyph returns the header marker for the icon state.
func (i SortIcon) Glyph() string {
	switch i {
	case IconAscending:
		return "↑"
	case IconDescending:
		return "↓"
	default:
		return "↕"
	}
}

func (i SortIcon) String() string {
	switch i {
	case IconAscending:
		return "ascending"
	case IconDescending:
		return "descending"
	default:
		return "neutral"
	}
}

// SortState tracks the active sort column and the last direction chosen for
// every column that has been sorted. Directions are kept per column and are
// not reset when another column becomes active.
type SortState struct {
	Current   string
	ascending map[string]bool
}

// NewSortState returns an empty sort state with no active column.
func NewSortState() *SortState {
	return &SortState{ascending: make(map[string]bool)}
}

// Toggle makes column the active sort column and flips its direction. The
// first toggle of a column is always ascending.
func (s *SortState) Toggle(column string) bool {
	if s.ascending == nil {
		s.ascending = make(map[string]bool)
	}
	asc, seen := s.ascending[column]
	if !seen {
		asc = true
	} else {
		asc = !asc
	}
	s.ascending[column] = asc
	s.Current = column
	return asc
}

// Direction reports the last direction used for column and whether the
// column has been sorted at all.
func (s *SortState) Direction(column string) (ascending, ok bool) {
	ascending, ok = s.ascending[column]
	return ascending, ok
}

// Icon returns the icon state column should display.
func (s *SortState) Icon(column string) SortIcon {
	if column == "" || column != s.Current {
		return IconNeutral
	}
	if s.ascending[column] {
		return IconAscending
	}
	return IconDescending
}

// FilterState is the pair of row filters read from the view controls.
type FilterState struct {
	SearchText string
	TypeFilter string
}

// Active reports whether any filter narrows the row set.
func (f FilterState) Active() bool {
	return f.SearchText != "" || f.TypeFilter != ""
}
