package table

import (
	"fmt"
	"reflect"
	"testing"
)

type fakeView struct {
	noTable    bool
	rows       []Row
	hiddenRows map[string]bool
	keys       []string
	checked    map[string]bool
	hiddenCols map[string]bool
	search     string
	typ        string
	visible    int
	total      int
	icons      map[string]SortIcon
}

func newFakeView(rows []Row) *fakeView {
	v := &fakeView{
		rows:       rows,
		hiddenRows: make(map[string]bool),
		keys:       append([]string(nil), AllColumns...),
		checked:    make(map[string]bool),
		hiddenCols: make(map[string]bool),
		icons:      make(map[string]SortIcon),
	}
	for _, k := range PresetColumns(PresetBasic) {
		v.checked[k] = true
	}
	return v
}

func (v *fakeView) HasTable() bool                      { return !v.noTable }
func (v *fakeView) ColumnKeys() []string                { return v.keys }
func (v *fakeView) ColumnChecked(key string) bool       { return v.checked[key] }
func (v *fakeView) SetColumnChecked(key string, c bool) { v.checked[key] = c }
func (v *fakeView) SetColumnHidden(key string, h bool)  { v.hiddenCols[key] = h }
func (v *fakeView) SearchText() string                  { return v.search }
func (v *fakeView) TypeFilter() string                  { return v.typ }
func (v *fakeView) Rows() []Row                         { return v.rows }
func (v *fakeView) SetRowHidden(id string, h bool)      { v.hiddenRows[id] = h }
func (v *fakeView) SetVisibleCount(n int)               { v.visible = n }
func (v *fakeView) SetTotalCount(n int)                 { v.total = n }
func (v *fakeView) SortableKeys() []string              { return v.keys }
func (v *fakeView) SetSortIcon(key string, i SortIcon)  { v.icons[key] = i }

func (v *fakeView) SetRowOrder(ids []string) {
	byID := make(map[string]Row, len(v.rows))
	for _, r := range v.rows {
		byID[r.ID] = r
	}
	ordered := make([]Row, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, byID[id])
	}
	v.rows = ordered
}

func (v *fakeView) ids() []string {
	ids := make([]string, len(v.rows))
	for i, r := range v.rows {
		ids[i] = r.ID
	}
	return ids
}

func (v *fakeView) visibleColumns() map[string]bool {
	out := make(map[string]bool)
	for _, k := range v.keys {
		if !v.hiddenCols[k] {
			out[k] = true
		}
	}
	return out
}

func person(id, typ, first, last, dob string) Row {
	return Row{
		ID:   id,
		Type: typ,
		Cells: []Cell{
			{Key: ColType, Text: typ},
			{Key: ColFirstName, Text: first},
			{Key: ColLastName, Text: last},
			{Key: ColDOB, Text: dob},
		},
	}
}

func sampleRows() []Row {
	return []Row{
		person("1", "regular", "Jan", "Novák", "01.02.2010"),
		person("2", "organizer", "Eva", "Svobodová", "15.06.1980"),
		person("3", "individual", "Petr", "Dvořák", "03.03.2001"),
		person("4", "regular", "Anna", "Černá", "12.12.2012"),
	}
}

func mustAttach(t *testing.T, v View) *Controller {
	t.Helper()
	c, ok := Attach(v)
	if !ok {
		t.Fatal("Attach returned false")
	}
	return c
}

func TestAttachWithoutTable(t *testing.T) {
	v := newFakeView(sampleRows())
	v.noTable = true
	if c, ok := Attach(v); ok || c != nil {
		t.Fatalf("expected no controller, got %v %v", c, ok)
	}
	if v.total != 0 || len(v.hiddenCols) != 0 {
		t.Errorf("view was touched: total=%d hidden=%v", v.total, v.hiddenCols)
	}
	if _, ok := Attach(nil); ok {
		t.Error("Attach(nil) should return false")
	}
}

func TestAttachInitialisesCountsAndColumns(t *testing.T) {
	v := newFakeView(sampleRows())
	mustAttach(t, v)

	if v.total != 4 || v.visible != 4 {
		t.Errorf("counts = %d/%d, want 4/4", v.visible, v.total)
	}
	if v.hiddenCols[ColFirstName] {
		t.Error("checked column firstname should be visible")
	}
	if !v.hiddenCols[ColEmail] {
		t.Error("unchecked column email should be hidden")
	}
}

func TestUpdateColumnVisibilityIdempotent(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)
	v.checked[ColEmail] = true
	c.UpdateColumnVisibility()
	first := v.visibleColumns()
	c.UpdateColumnVisibility()
	if !reflect.DeepEqual(first, v.visibleColumns()) {
		t.Errorf("second pass changed visibility: %v vs %v", first, v.visibleColumns())
	}
	if !first[ColEmail] {
		t.Error("email should be visible after checking it")
	}
}

func TestFilterTable(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		typ     string
		visible []string
	}{
		{"no filters", "", "", []string{"1", "2", "3", "4"}},
		{"type only", "", "regular", []string{"1", "4"}},
		{"search case insensitive", "NOV", "", []string{"1"}},
		{"search diacritics", "černá", "", []string{"4"}},
		{"both", "a", "organizer", []string{"2"}},
		{"no match", "zzz", "", nil},
		{"search matches type text", "individual", "", []string{"3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newFakeView(sampleRows())
			c := mustAttach(t, v)
			v.search = tt.search
			v.typ = tt.typ

			n := c.FilterTable()

			var got []string
			for _, r := range v.rows {
				if !v.hiddenRows[r.ID] {
					got = append(got, r.ID)
				}
			}
			if !reflect.DeepEqual(got, tt.visible) {
				t.Errorf("visible = %v, want %v", got, tt.visible)
			}
			if n != len(tt.visible) || v.visible != len(tt.visible) {
				t.Errorf("count = %d (view %d), want %d", n, v.visible, len(tt.visible))
			}
			if v.total != 4 {
				t.Errorf("total changed to %d", v.total)
			}
		})
	}
}

func TestFilterIsNonDestructive(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)
	v.search = "zzz"
	c.OnSearchInput()
	if len(v.rows) != 4 {
		t.Fatalf("rows removed: %d", len(v.rows))
	}
	v.search = ""
	if n := c.OnSearchInput(); n != 4 {
		t.Errorf("relaxed filter shows %d rows, want 4", n)
	}
}

func TestSetPresetResetsSelection(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)

	c.SetPreset(PresetAll)
	if len(v.visibleColumns()) != len(AllColumns) {
		t.Fatalf("all preset shows %d columns", len(v.visibleColumns()))
	}
	c.SetPreset(PresetBasic)

	want := map[string]bool{}
	for _, k := range PresetColumns(PresetBasic) {
		want[k] = true
	}
	if got := v.visibleColumns(); !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestSetPresetUnknownFallsBackToBasic(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)
	c.SetPreset(PresetContact)
	c.SetPreset("nonsense")

	want := map[string]bool{}
	for _, k := range PresetColumns(PresetBasic) {
		want[k] = true
	}
	if got := v.visibleColumns(); !reflect.DeepEqual(got, want) {
		t.Errorf("visible = %v, want %v", got, want)
	}
}

func TestSortTableTogglesDirection(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)

	if !c.SortTable(ColLastName) {
		t.Fatal("first sort should be ascending")
	}
	asc := v.ids()
	// Czech collation puts Č after C and before D.
	if want := []string{"4", "3", "1", "2"}; !reflect.DeepEqual(asc, want) {
		t.Errorf("ascending = %v, want %v", asc, want)
	}

	if c.SortTable(ColLastName) {
		t.Fatal("second sort should be descending")
	}
	desc := v.ids()
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("descending %v is not the reverse of %v", desc, asc)
		}
	}
}

func TestSortTableDates(t *testing.T) {
	rows := []Row{
		person("a", "regular", "A", "A", "01.02.2020"),
		person("b", "regular", "B", "B", "15.06.1999"),
		person("c", "regular", "C", "C", "bad-date"),
	}
	v := newFakeView(rows)
	c := mustAttach(t, v)

	c.SortTable(ColDOB)
	if got, want := v.ids(), []string{"c", "b", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ascending = %v, want %v", got, want)
	}
	c.SortTable(ColDOB)
	if got, want := v.ids(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("descending = %v, want %v", got, want)
	}
}

func TestSortKeepsDirectionPerColumn(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)

	c.SortTable(ColLastName)
	if !c.SortTable(ColFirstName) {
		t.Error("first click on firstname should be ascending")
	}
	if c.SortTable(ColLastName) {
		t.Error("lastname should resume from its own last direction and flip to descending")
	}
}

func TestSortIcons(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)

	c.OnHeaderClick(ColLastName)
	c.OnHeaderClick(ColFirstName)
	c.OnHeaderClick(ColFirstName)

	active := 0
	for key, icon := range v.icons {
		if icon != IconNeutral {
			active++
			if key != ColFirstName || icon != IconDescending {
				t.Errorf("icon %s = %v", key, icon)
			}
		}
	}
	if active != 1 {
		t.Errorf("%d non-neutral icons, want 1", active)
	}
}

func TestSortDoesNotChangeVisibility(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)
	v.typ = "regular"
	c.FilterTable()
	before := fmt.Sprint(v.hiddenRows, v.visible)

	c.SortTable(ColFirstName)

	if after := fmt.Sprint(v.hiddenRows, v.visible); after != before {
		t.Errorf("visibility changed by sort: %s -> %s", before, after)
	}
	if c.Filter().TypeFilter != "regular" {
		t.Error("filter state changed by sort")
	}
}

func TestSortMissingCellsSortFirst(t *testing.T) {
	rows := []Row{
		person("1", "regular", "Jan", "Novák", ""),
		{ID: "2", Type: "regular"},
	}
	v := newFakeView(rows)
	c := mustAttach(t, v)
	c.SortTable(ColLastName)
	if got := v.ids(); got[0] != "2" {
		t.Errorf("row without cell should sort first, got %v", got)
	}
}

func TestReapplyKeepsSortAndFilters(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)
	c.SortTable(ColLastName)
	c.SortTable(ColLastName) // descending
	v.typ = "regular"
	c.FilterTable()

	// Reload with one more regular participant in store order.
	v.rows = append(sampleRows(), person("5", "regular", "Karel", "Zeman", ""))
	v.hiddenRows = make(map[string]bool)

	if got := c.Reapply(); got != 3 {
		t.Errorf("Reapply visible = %d, want 3", got)
	}
	if want := []string{"5", "2", "1", "3", "4"}; !reflect.DeepEqual(v.ids(), want) {
		t.Errorf("order = %v, want %v", v.ids(), want)
	}
	if v.total != 5 || v.visible != 3 {
		t.Errorf("counts total=%d visible=%d", v.total, v.visible)
	}
	if asc, _ := c.SortState().Direction(ColLastName); asc {
		t.Error("Reapply must not toggle the direction")
	}
	if v.icons[ColLastName] != IconDescending {
		t.Errorf("icon = %v", v.icons[ColLastName])
	}
}

func TestReapplyWithoutSortKeepsStoreOrder(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)
	if got := c.Reapply(); got != 4 {
		t.Errorf("visible = %d", got)
	}
	if want := []string{"1", "2", "3", "4"}; !reflect.DeepEqual(v.ids(), want) {
		t.Errorf("order = %v", v.ids())
	}
}

func TestStateSnapshot(t *testing.T) {
	v := newFakeView(sampleRows())
	c := mustAttach(t, v)

	if got := c.State(); got.Sorted() || got.Filter.Active() {
		t.Errorf("fresh state = %+v", got)
	}

	v.search = "nov"
	v.typ = "regular"
	c.OnSearchInput()
	c.SortTable(ColLastName)
	c.SortTable(ColLastName)

	want := Snapshot{
		Filter:     FilterState{SearchText: "nov", TypeFilter: "regular"},
		SortColumn: ColLastName,
		Ascending:  false,
	}
	if got := c.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}
