package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"skare/internal/model"
	"skare/internal/table"
	"skare/internal/util"
)

type participantColumn struct {
	key     string
	label   string
	width   int
	checked bool
	hidden  bool
	icon    table.SortIcon
}

var participantColumns = []participantColumn{
	{key: table.ColType, label: "type", width: 12},
	{key: table.ColFirstName, label: "first name", width: 14},
	{key: table.ColLastName, label: "last name", width: 16},
	{key: table.ColNickname, label: "nickname", width: 12},
	{key: table.ColDOB, label: "born", width: 12},
	{key: table.ColCategory, label: "category", width: 10},
	{key: table.ColUnit, label: "unit", width: 22},
	{key: table.ColDivision, label: "division", width: 13},
	{key: table.ColEmail, label: "email", width: 28},
	{key: table.ColPhone, label: "phone", width: 17},
	{key: table.ColHomeTown, label: "home town", width: 16},
	{key: table.ColArrival, label: "arrival", width: 13},
	{key: table.ColDietary, label: "dietary", width: 22},
	{key: table.ColHealth, label: "health", width: 22},
	{key: table.ColInfo, label: "info", width: 24},
}

// typeFilters is the option order of the type select; "" shows all kinds.
var typeFilters = []string{
	"",
	string(model.KindRegular),
	string(model.KindIndividual),
	string(model.KindOrganizer),
}

// ParticipantsOptions configures a new participant list.
type ParticipantsOptions struct {
	Preset string
	Locale language.Tag
}

// ParticipantsModel is the participant list screen. It renders the rows and
// controls that a table.Controller filters, sorts and hides.
type ParticipantsModel struct {
	rows    []table.Row
	hidden  map[string]bool
	unitIDs map[string]int64

	columns      []participantColumn
	activeColumn int

	search     textinput.Model
	typeFilter int

	visibleCount int
	totalCount   int

	cursor   int
	offset   int
	pageSize int

	picking    bool
	pickCursor int

	ctrl *table.Controller
}

// NewParticipantsModel creates the list with the column selection of the
// configured preset.
func NewParticipantsModel(rows []model.ParticipantRow, opts ParticipantsOptions) *ParticipantsModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search participants"
	search.CharLimit = 100

	m := &ParticipantsModel{
		columns:  append([]participantColumn(nil), participantColumns...),
		search:   search,
		pageSize: 10,
	}
	for _, key := range table.PresetColumns(opts.Preset) {
		m.setChecked(key, true)
	}
	m.load(rows)

	var ctrlOpts []table.Option
	if opts.Locale != language.Und {
		ctrlOpts = append(ctrlOpts, table.WithLocale(opts.Locale))
	}
	if c, ok := table.Attach(m, ctrlOpts...); ok {
		m.ctrl = c
	}
	m.ensureVisibleActiveColumn()
	return m
}

func toTableRow(p model.ParticipantRow) table.Row {
	return table.Row{
		ID:   strconv.FormatInt(p.ID, 10),
		Type: string(p.Kind),
		Cells: []table.Cell{
			{Key: table.ColType, Text: p.Kind.Label()},
			{Key: table.ColFirstName, Text: p.FirstName},
			{Key: table.ColLastName, Text: p.LastName},
			{Key: table.ColNickname, Text: p.Nickname},
			{Key: table.ColDOB, Text: util.FormatDate(p.DateOfBirth)},
			{Key: table.ColCategory, Text: string(p.Category)},
			{Key: table.ColUnit, Text: p.UnitName},
			{Key: table.ColDivision, Text: string(p.Division)},
			{Key: table.ColEmail, Text: p.Email},
			{Key: table.ColPhone, Text: p.Phone},
			{Key: table.ColHomeTown, Text: p.HomeTown},
			{Key: table.ColArrival, Text: util.FormatArrival(p.Arrival)},
			{Key: table.ColDietary, Text: p.Dietary},
			{Key: table.ColHealth, Text: p.Health},
			{Key: table.ColInfo, Text: p.Info},
		},
	}
}

func (m *ParticipantsModel) load(rows []model.ParticipantRow) {
	m.rows = make([]table.Row, 0, len(rows))
	m.hidden = make(map[string]bool, len(rows))
	m.unitIDs = make(map[string]int64, len(rows))
	for _, p := range rows {
		r := toTableRow(p)
		m.rows = append(m.rows, r)
		if p.UnitID != 0 {
			m.unitIDs[r.ID] = p.UnitID
		}
	}
}

// SetRows replaces the participants after a reload. Column selection,
// filters and the sort column stay as they were.
func (m *ParticipantsModel) SetRows(rows []model.ParticipantRow) {
	m.load(rows)
	if m.ctrl != nil {
		m.ctrl.Reapply()
	} else {
		m.totalCount = len(m.rows)
		m.visibleCount = len(m.rows)
	}
	m.clampCursor()
}

// SetPageSize sets how many rows fit on screen.
func (m *ParticipantsModel) SetPageSize(n int) {
	if n > 0 {
		m.pageSize = n
	}
}

// table.View

func (m *ParticipantsModel) HasTable() bool {
	return len(m.columns) > 0
}

func (m *ParticipantsModel) ColumnKeys() []string {
	keys := make([]string, len(m.columns))
	for i, c := range m.columns {
		keys[i] = c.key
	}
	return keys
}

func (m *ParticipantsModel) column(key string) *participantColumn {
	for i := range m.columns {
		if m.columns[i].key == key {
			return &m.columns[i]
		}
	}
	return nil
}

func (m *ParticipantsModel) ColumnChecked(key string) bool {
	if c := m.column(key); c != nil {
		return c.checked
	}
	return false
}

func (m *ParticipantsModel) SetColumnChecked(key string, checked bool) {
	m.setChecked(key, checked)
}

func (m *ParticipantsModel) setChecked(key string, checked bool) {
	if c := m.column(key); c != nil {
		c.checked = checked
	}
}

func (m *ParticipantsModel) SetColumnHidden(key string, hidden bool) {
	if c := m.column(key); c != nil {
		c.hidden = hidden
	}
}

func (m *ParticipantsModel) SearchText() string {
	return m.search.Value()
}

func (m *ParticipantsModel) TypeFilter() string {
	return typeFilters[m.typeFilter]
}

func (m *ParticipantsModel) Rows() []table.Row {
	return m.rows
}

func (m *ParticipantsModel) SetRowHidden(id string, hidden bool) {
	m.hidden[id] = hidden
}

func (m *ParticipantsModel) SetRowOrder(ids []string) {
	byID := make(map[string]table.Row, len(m.rows))
	for _, r := range m.rows {
		byID[r.ID] = r
	}
	ordered := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}
	m.rows = ordered
}

func (m *ParticipantsModel) SetVisibleCount(n int) {
	m.visibleCount = n
}

func (m *ParticipantsModel) SetTotalCount(n int) {
	m.totalCount = n
}

func (m *ParticipantsModel) SortableKeys() []string {
	return m.ColumnKeys()
}

func (m *ParticipantsModel) SetSortIcon(key string, icon table.SortIcon) {
	if c := m.column(key); c != nil {
		c.icon = icon
	}
}

// Controls

// displayed returns the rows that pass the filters, in display order.
func (m *ParticipantsModel) displayed() []table.Row {
	out := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		if !m.hidden[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// VisibleCount returns the number of rows passing the filters.
func (m *ParticipantsModel) VisibleCount() int {
	return m.visibleCount
}

// TotalCount returns the number of loaded rows.
func (m *ParticipantsModel) TotalCount() int {
	return m.totalCount
}

// ActiveColumn returns the key of the column under the column cursor.
func (m *ParticipantsModel) ActiveColumn() string {
	return m.columns[m.activeColumn].key
}

// SortActiveColumn sorts by the active column, toggling its direction. It
// returns true for ascending order.
func (m *ParticipantsModel) SortActiveColumn() bool {
	if m.ctrl == nil {
		return false
	}
	asc := m.ctrl.OnHeaderClick(m.ActiveColumn())
	m.clampCursor()
	return asc
}

// ApplyPreset replaces the column selection with a preset.
func (m *ParticipantsModel) ApplyPreset(name string) {
	if m.ctrl == nil {
		return
	}
	m.ctrl.SetPreset(name)
	m.ensureVisibleActiveColumn()
}

// HideActiveColumn unchecks the active column. The last visible column
// cannot be hidden.
func (m *ParticipantsModel) HideActiveColumn() bool {
	if m.ctrl == nil || len(m.visibleColumnIndexes()) <= 1 {
		return false
	}
	m.columns[m.activeColumn].checked = false
	m.ctrl.OnColumnToggle()
	m.ensureVisibleActiveColumn()
	return true
}

// CycleTypeFilter selects the next option of the type filter and returns
// it.
func (m *ParticipantsModel) CycleTypeFilter() string {
	m.typeFilter = (m.typeFilter + 1) % len(typeFilters)
	if m.ctrl != nil {
		m.ctrl.OnTypeChange()
	}
	m.clampCursor()
	return m.TypeFilter()
}

// ClearFilters empties the search text and resets the type filter. It
// returns false when no filter was set.
func (m *ParticipantsModel) ClearFilters() bool {
	f := table.FilterState{SearchText: m.SearchText(), TypeFilter: m.TypeFilter()}
	if !f.Active() {
		return false
	}
	m.search.SetValue("")
	m.typeFilter = 0
	if m.ctrl != nil {
		m.ctrl.FilterTable()
	}
	m.clampCursor()
	return true
}

// FocusSearch focuses the search input.
func (m *ParticipantsModel) FocusSearch() tea.Cmd {
	return m.search.Focus()
}

// BlurSearch leaves the search input, keeping its text.
func (m *ParticipantsModel) BlurSearch() {
	m.search.Blur()
}

// UpdateSearch feeds a message to the search input and refilters when the
// text changed.
func (m *ParticipantsModel) UpdateSearch(msg tea.Msg) tea.Cmd {
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before && m.ctrl != nil {
		m.ctrl.OnSearchInput()
		m.clampCursor()
	}
	return cmd
}

// Column picker

// Picking reports whether the column picker is open.
func (m *ParticipantsModel) Picking() bool {
	return m.picking
}

// OpenColumnPicker shows the column toggles.
func (m *ParticipantsModel) OpenColumnPicker() {
	m.picking = true
	m.pickCursor = m.activeColumn
}

// UpdatePicker handles a key while the column picker is open.
func (m *ParticipantsModel) UpdatePicker(msg tea.KeyMsg) {
	switch msg.String() {
	case "j", "down":
		if m.pickCursor < len(m.columns)-1 {
			m.pickCursor++
		}
	case "k", "up":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case " ", "x":
		c := &m.columns[m.pickCursor]
		if c.checked && len(m.visibleColumnIndexes()) <= 1 {
			return
		}
		c.checked = !c.checked
		if m.ctrl != nil {
			m.ctrl.OnColumnToggle()
		}
		m.ensureVisibleActiveColumn()
	case "1", "2", "3", "4", "5":
		m.applyPresetKey(msg.String())
	case "esc", "enter", "c", "q":
		m.picking = false
	}
}

func (m *ParticipantsModel) applyPresetKey(k string) string {
	n, err := strconv.Atoi(k)
	presets := table.Presets()
	if err != nil || n < 1 || n > len(presets) {
		return ""
	}
	m.ApplyPreset(presets[n-1])
	return presets[n-1]
}

// Column cursor

func (m *ParticipantsModel) NextColumn() {
	start := m.activeColumn
	for {
		m.activeColumn = (m.activeColumn + 1) % len(m.columns)
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *ParticipantsModel) PrevColumn() {
	start := m.activeColumn
	for {
		m.activeColumn--
		if m.activeColumn < 0 {
			m.activeColumn = len(m.columns) - 1
		}
		if !m.columns[m.activeColumn].hidden || m.activeColumn == start {
			return
		}
	}
}

func (m *ParticipantsModel) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range m.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (m *ParticipantsModel) ensureVisibleActiveColumn() {
	if !m.columns[m.activeColumn].hidden {
		return
	}
	for i := range m.columns {
		if !m.columns[i].hidden {
			m.activeColumn = i
			return
		}
	}
}

// Row cursor

// SelectedUnitID returns the unit of the participant under the cursor, if
// it is a regular participant.
func (m *ParticipantsModel) SelectedUnitID() (int64, bool) {
	rows := m.displayed()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return 0, false
	}
	id, ok := m.unitIDs[rows[m.cursor].ID]
	return id, ok
}

// Selected returns the ID and kind of the participant under the cursor.
func (m *ParticipantsModel) Selected() (int64, model.Kind, bool) {
	rows := m.displayed()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return 0, "", false
	}
	id, err := strconv.ParseInt(rows[m.cursor].ID, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, model.Kind(rows[m.cursor].Type), true
}

func (m *ParticipantsModel) clampCursor() {
	n := len(m.displayed())
	if n == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.pageSize {
		m.offset = m.cursor - m.pageSize + 1
	}
}

// MoveDown moves the cursor down.
func (m *ParticipantsModel) MoveDown() {
	m.cursor++
	m.clampCursor()
}

// MoveUp moves the cursor up.
func (m *ParticipantsModel) MoveUp() {
	m.cursor--
	m.clampCursor()
}

// JumpToTop jumps to the first row.
func (m *ParticipantsModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last row.
func (m *ParticipantsModel) JumpToBottom() {
	m.cursor = len(m.displayed()) - 1
	m.clampCursor()
}

// HalfPageDown moves down half a page.
func (m *ParticipantsModel) HalfPageDown() {
	m.cursor += max(m.pageSize/2, 1)
	m.clampCursor()
}

// HalfPageUp moves up half a page.
func (m *ParticipantsModel) HalfPageUp() {
	m.cursor -= max(m.pageSize/2, 1)
	m.clampCursor()
}

// TableMeta summarises the active column, sort and filters.
func (m *ParticipantsModel) TableMeta() string {
	parts := []string{fmt.Sprintf("col %s", strings.ToUpper(m.columns[m.activeColumn].label))}
	if m.ctrl == nil {
		return parts[0]
	}
	st := m.ctrl.State()
	if st.Sorted() {
		icon := table.IconDescending
		if st.Ascending {
			icon = table.IconAscending
		}
		label := st.SortColumn
		if c := m.column(st.SortColumn); c != nil {
			label = c.label
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(label), icon.Glyph()))
	}
	if t := st.Filter.TypeFilter; t != "" {
		parts = append(parts, "type "+model.Kind(t).Label())
	}
	if s := st.Filter.SearchText; s != "" {
		parts = append(parts, fmt.Sprintf("search %q", s))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the participant list.
func (m *ParticipantsModel) View(width, height int) string {
	typeLabel := "all"
	if t := m.TypeFilter(); t != "" {
		typeLabel = model.Kind(t).Label()
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Left,
		m.search.View(),
		"   ",
		LabelStyle.Render("type: "),
		typeLabel,
	)

	status := StatusBarStyle.Render(fmt.Sprintf("Showing %d of %d participants  ·  %s",
		m.visibleCount, m.totalCount, m.TableMeta()))

	bodyHeight := height - 4
	var body string
	switch {
	case m.picking:
		body = m.renderPicker(width, bodyHeight)
	case m.totalCount == 0:
		body = EmptyStateStyle.Width(width).Height(bodyHeight).Render(
			"    No participants yet.\n    Press  u  to open units and  a  to register one.")
	case m.visibleCount == 0:
		body = EmptyStateStyle.Width(width).Height(bodyHeight).Render(
			"    No participants match the filters.\n    Press  N  to clear them.")
	default:
		body = m.renderTable(width, bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, controls, "", body, status)
}

// columnWindow picks the visible columns that fit into width, keeping the
// active column on screen.
func (m *ParticipantsModel) columnWindow(width int) ([]int, []int) {
	visible := m.visibleColumnIndexes()
	widths := make([]int, len(visible))
	activePos := 0
	for i, idx := range visible {
		c := m.columns[idx]
		widths[i] = max(c.width, lipgloss.Width(c.label)+4)
		if idx == m.activeColumn {
			activePos = i
		}
	}

	first := 0
	for {
		sum := 0
		for i := first; i <= activePos; i++ {
			sum += widths[i]
		}
		if sum <= width || first == activePos {
			break
		}
		first++
	}

	var cols, ws []int
	used := 0
	for i := first; i < len(visible); i++ {
		if used+widths[i] > width && len(cols) > 0 {
			break
		}
		cols = append(cols, visible[i])
		ws = append(ws, widths[i])
		used += widths[i]
	}
	if len(ws) > 0 && width > used {
		ws[len(ws)-1] += width - used
	}
	return cols, ws
}

func (m *ParticipantsModel) renderTable(width, height int) string {
	cols, widths := m.columnWindow(width)

	headers := make([]string, len(cols))
	headerStyles := make([]lipgloss.Style, len(cols))
	for i, idx := range cols {
		c := m.columns[idx]
		headers[i] = strings.ToUpper(c.label) + " " + c.icon.Glyph()
		headerStyles[i] = TableHeaderStyle
		if idx == m.activeColumn {
			headerStyles[i] = ActiveHeaderStyle
		}
	}
	var headerCells []string
	for i, h := range headers {
		headerCells = append(headerCells, headerStyles[i].Width(widths[i]).Render(util.TruncateString(h, widths[i]-2)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left, headerCells...)

	rows := m.displayed()
	visibleHeight := max(height-1, 1)
	var lines []string
	for i := m.offset; i < len(rows) && i < m.offset+visibleHeight; i++ {
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == m.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, len(cols))
		for j, idx := range cols {
			text := rows[i].Cell(m.columns[idx].key)
			cells[j] = util.TruncateString(text, widths[j]-2)
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n"))
}

func (m *ParticipantsModel) renderPicker(width, height int) string {
	lines := []string{LabelStyle.Render("Columns"), ""}
	for i, c := range m.columns {
		box := "[ ]"
		if c.checked {
			box = CheckedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", box, c.label)
		if i == m.pickCursor {
			line = SelectedRowStyle.Render(line)
		}
		lines = append(lines, line)
	}

	presets := table.Presets()
	hints := make([]string, len(presets))
	for i, p := range presets {
		hints[i] = helpKey(strconv.Itoa(i+1), p)
	}
	lines = append(lines, "", strings.Join(hints, "  "), helpKey("space", "toggle")+"  "+helpKey("esc", "close"))

	return PanelStyle.Width(min(width-4, 60)).Height(max(height-2, 1)).Render(strings.Join(lines, "\n"))
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}
