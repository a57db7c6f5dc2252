package ui

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"skare/internal/model"
	"skare/internal/table"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testParticipants() []model.ParticipantRow {
	return []model.ParticipantRow{
		{ID: 1, Kind: model.KindRegular, UnitID: 7, FirstName: "Jan", LastName: "Novák", UnitName: "1. oddíl Ledňáček", DateOfBirth: "2012-03-04"},
		{ID: 2, Kind: model.KindIndividual, FirstName: "Eva", LastName: "Černá", DateOfBirth: "2001-11-20"},
		{ID: 3, Kind: model.KindOrganizer, FirstName: "Adam", LastName: "Bílý", Division: model.DivisionFood},
		{ID: 4, Kind: model.KindRegular, UnitID: 7, FirstName: "Zdeněk", LastName: "Šťastný", UnitName: "1. oddíl Ledňáček"},
	}
}

func newTestParticipants(t *testing.T, preset string) *ParticipantsModel {
	t.Helper()
	m := NewParticipantsModel(testParticipants(), ParticipantsOptions{Preset: preset, Locale: language.Czech})
	if m.ctrl == nil {
		t.Fatal("controller not attached")
	}
	return m
}

func displayedIDs(m *ParticipantsModel) []string {
	var ids []string
	for _, r := range m.displayed() {
		ids = append(ids, r.ID)
	}
	return ids
}

func focusColumn(t *testing.T, m *ParticipantsModel, key string) {
	t.Helper()
	for range m.columns {
		if m.ActiveColumn() == key {
			return
		}
		m.NextColumn()
	}
	t.Fatalf("column %q never became active", key)
}

func TestParticipantsPresetSelectsColumns(t *testing.T) {
	m := newTestParticipants(t, table.PresetDietary)

	if !m.ColumnChecked(table.ColDietary) {
		t.Error("dietary column should be checked")
	}
	if m.ColumnChecked(table.ColEmail) {
		t.Error("email column should not be checked")
	}
	if !m.column(table.ColEmail).hidden {
		t.Error("unchecked email column should be hidden")
	}
	if m.TotalCount() != 4 || m.VisibleCount() != 4 {
		t.Errorf("counts = %d/%d, want 4/4", m.VisibleCount(), m.TotalCount())
	}

	m.ApplyPreset(table.PresetContact)
	if !m.ColumnChecked(table.ColEmail) || m.ColumnChecked(table.ColDietary) {
		t.Error("contact preset did not replace the selection")
	}
}

func TestParticipantsSearch(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)

	m.FocusSearch()
	m.UpdateSearch(keyRunes("čern"))

	if got := displayedIDs(m); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("displayed = %v, want [2]", got)
	}
	if m.VisibleCount() != 1 {
		t.Errorf("VisibleCount() = %d, want 1", m.VisibleCount())
	}

	// Hidden columns are still searched.
	m.search.SetValue("")
	m.UpdateSearch(keyRunes("food"))
	if got := displayedIDs(m); !reflect.DeepEqual(got, []string{"3"}) {
		t.Errorf("displayed = %v, want [3]", got)
	}
}

func TestParticipantsTypeFilterCycle(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)

	tests := []struct {
		filter  string
		visible int
	}{
		{"regular", 2},
		{"individual", 1},
		{"organizer", 1},
		{"", 4},
	}
	for _, tt := range tests {
		if got := m.CycleTypeFilter(); got != tt.filter {
			t.Fatalf("CycleTypeFilter() = %q, want %q", got, tt.filter)
		}
		if m.VisibleCount() != tt.visible {
			t.Errorf("type %q: VisibleCount() = %d, want %d", tt.filter, m.VisibleCount(), tt.visible)
		}
	}
}

func TestParticipantsSortToggles(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)
	focusColumn(t, m, table.ColLastName)

	if !m.SortActiveColumn() {
		t.Fatal("first sort should be ascending")
	}
	if got, want := displayedIDs(m), []string{"3", "2", "1", "4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ascending = %v, want %v", got, want)
	}
	if m.column(table.ColLastName).icon != table.IconAscending {
		t.Error("last name header should show the ascending icon")
	}

	if m.SortActiveColumn() {
		t.Fatal("second sort should be descending")
	}
	if got, want := displayedIDs(m), []string{"4", "1", "2", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("descending = %v, want %v", got, want)
	}
	if meta := m.TableMeta(); !strings.Contains(meta, "sort LAST NAME ↓") {
		t.Errorf("TableMeta() = %q, want descending last name sort", meta)
	}
}

func TestParticipantsSetRowsKeepsFiltersAndSort(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)
	focusColumn(t, m, table.ColLastName)
	m.SortActiveColumn()
	m.CycleTypeFilter()

	rows := append(testParticipants(), model.ParticipantRow{
		ID: 5, Kind: model.KindRegular, UnitID: 8, FirstName: "Petr", LastName: "Adámek",
	})
	m.SetRows(rows)

	if got, want := displayedIDs(m), []string{"5", "1", "4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("displayed = %v, want %v", got, want)
	}
	if m.TotalCount() != 5 || m.VisibleCount() != 3 {
		t.Errorf("counts = %d/%d, want 3/5", m.VisibleCount(), m.TotalCount())
	}
	if m.TypeFilter() != "regular" {
		t.Errorf("TypeFilter() = %q, want regular", m.TypeFilter())
	}
}

func TestParticipantsSelectedUnitID(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)

	id, ok := m.SelectedUnitID()
	if !ok || id != 7 {
		t.Errorf("SelectedUnitID() = %d, %t, want 7, true", id, ok)
	}

	m.MoveDown()
	if _, ok := m.SelectedUnitID(); ok {
		t.Error("individual participant should not have a unit")
	}

	m.JumpToBottom()
	m.MoveDown()
	if id, ok := m.SelectedUnitID(); !ok || id != 7 {
		t.Errorf("cursor past the end: SelectedUnitID() = %d, %t", id, ok)
	}
}

func TestParticipantsHideLastColumnRefused(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)

	n := len(table.PresetColumns(table.PresetBasic))
	for i := 0; i < n-1; i++ {
		if !m.HideActiveColumn() {
			t.Fatalf("hide #%d refused", i+1)
		}
	}
	if m.HideActiveColumn() {
		t.Error("hiding the last visible column should be refused")
	}
	if got := len(m.visibleColumnIndexes()); got != 1 {
		t.Errorf("visible columns = %d, want 1", got)
	}
}

func TestParticipantsClearFilters(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)

	if m.ClearFilters() {
		t.Error("ClearFilters() with no filters should report false")
	}
	m.CycleTypeFilter()
	m.search.SetValue("novák")
	m.ctrl.FilterTable()
	if m.VisibleCount() != 1 {
		t.Fatalf("VisibleCount() = %d, want 1", m.VisibleCount())
	}

	if !m.ClearFilters() {
		t.Fatal("ClearFilters() should report true")
	}
	if m.VisibleCount() != 4 || m.SearchText() != "" || m.TypeFilter() != "" {
		t.Errorf("filters not cleared: visible=%d search=%q type=%q", m.VisibleCount(), m.SearchText(), m.TypeFilter())
	}
}

func TestColumnPickerToggle(t *testing.T) {
	m := newTestParticipants(t, table.PresetBasic)

	m.OpenColumnPicker()
	if !m.Picking() {
		t.Fatal("picker should be open")
	}
	for range 3 {
		m.UpdatePicker(keyRunes("j"))
	}
	m.UpdatePicker(tea.KeyMsg{Type: tea.KeySpace})
	if !m.ColumnChecked(table.ColNickname) || m.column(table.ColNickname).hidden {
		t.Error("nickname column should be checked and shown")
	}

	m.UpdatePicker(keyRunes("4"))
	if !m.ColumnChecked(table.ColEmail) {
		t.Error("preset 4 should select the contact columns")
	}

	m.UpdatePicker(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Picking() {
		t.Error("esc should close the picker")
	}
}
