package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"skare/internal/model"
	"skare/internal/util"
)

type unitColumn struct {
	label string
	width int
}

var unitColumns = []unitColumn{
	{label: "name", width: 28},
	{label: "evidence", width: 10},
	{label: "home town", width: 18},
	{label: "contact", width: 22},
	{label: "participants", width: 14},
}

// UnitsModel represents the units list screen.
type UnitsModel struct {
	rows     []model.UnitRow
	cursor   int
	offset   int
	pageSize int
}

// NewUnitsModel creates a new units model.
func NewUnitsModel(rows []model.UnitRow) *UnitsModel {
	return &UnitsModel{
		rows:     append([]model.UnitRow(nil), rows...),
		pageSize: 10,
	}
}

// SetRows replaces the units after a reload, keeping the cursor in range.
func (m *UnitsModel) SetRows(rows []model.UnitRow) {
	m.rows = append([]model.UnitRow(nil), rows...)
	m.clampCursor()
}

// SetPageSize sets how many rows fit on screen.
func (m *UnitsModel) SetPageSize(n int) {
	if n > 0 {
		m.pageSize = n
	}
}

// Selected returns the unit under the cursor.
func (m *UnitsModel) Selected() (model.UnitRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.UnitRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *UnitsModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
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
func (m *UnitsModel) MoveDown() {
	m.cursor++
	m.clampCursor()
}

// MoveUp moves the cursor up.
func (m *UnitsModel) MoveUp() {
	m.cursor--
	m.clampCursor()
}

// JumpToTop jumps to the first item.
func (m *UnitsModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
}

// JumpToBottom jumps to the last item.
func (m *UnitsModel) JumpToBottom() {
	m.cursor = len(m.rows) - 1
	m.clampCursor()
}

// View renders the units list.
func (m *UnitsModel) View(width, height int) string {
	if len(m.rows) == 0 {
		return EmptyStateStyle.
			Width(width).
			Height(height).
			Render("    No units yet.\n    Press  a  to register the first one.")
	}

	widths := make([]int, len(unitColumns))
	headers := make([]string, len(unitColumns))
	total := 0
	for i, c := range unitColumns {
		widths[i] = c.width
		headers[i] = strings.ToUpper(c.label)
		total += c.width
	}
	if extra := width - total; extra > 0 {
		widths[0] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)

	visibleHeight := max(height-3, 1)
	var lines []string
	participants := 0
	for _, r := range m.rows {
		participants += r.ParticipantCount
	}
	for i := m.offset; i < len(m.rows) && i < m.offset+visibleHeight; i++ {
		row := m.rows[i]
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == m.cursor {
			style = SelectedRowStyle
		}
		cells := []string{
			util.TruncateString(row.Name, widths[0]-2),
			util.OrDash(row.EvidenceID),
			util.TruncateString(util.OrDash(row.HomeTown), widths[2]-2),
			util.TruncateString(util.OrDash(row.ContactPerson), widths[3]-2),
			strconv.Itoa(row.ParticipantCount),
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}

	status := StatusBarStyle.Render(fmt.Sprintf("Units: %d  ·  regular participants: %d", len(m.rows), participants))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		strings.Join(lines, "\n"),
		"",
		status,
	)
}
