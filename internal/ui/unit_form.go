package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skare/internal/db"
	"skare/internal/debug"
	"skare/internal/formset"
	"skare/internal/model"
	"skare/internal/submit"
	"skare/internal/util"
)

// Participant form fields.
const (
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldNickname  = "nickname"
	fieldDOB       = "date_of_birth"
	fieldCategory  = "category"
	fieldDietary   = "dietary"
	fieldHealth    = "health"
	fieldInfo      = "info"
)

// participantTemplate is the empty participant form of the unit editor.
var participantTemplate = formset.NewTemplate("participants",
	fieldFirstName, fieldLastName, fieldNickname, fieldDOB,
	fieldCategory, fieldDietary, fieldHealth, fieldInfo,
)

const unitFormToken = "unit_form"

const arrivalLayout = "2006-01-02 15:04"

type gridColumn struct {
	field string
	label string
	width int
}

var gridColumns = []gridColumn{
	{field: fieldFirstName, label: "first name *", width: 14},
	{field: fieldLastName, label: "last name *", width: 16},
	{field: fieldNickname, label: "nickname", width: 12},
	{field: fieldDOB, label: "born", width: 12},
	{field: fieldCategory, label: "category", width: 10},
	{field: fieldDietary, label: "dietary", width: 18},
	{field: fieldHealth, label: "health", width: 18},
	{field: fieldInfo, label: "info", width: 18},
}

// Unit form input indexes.
const (
	inputName = iota
	inputEvidenceID
	inputContactPerson
	inputContactEmail
	inputContactPhone
	inputHomeTown
	inputArrival
	inputCount
)

var unitInputs = []struct {
	label       string
	placeholder string
	limit       int
}{
	inputName:          {"Unit name *", "1. oddíl Ledňáček", 100},
	inputEvidenceID:    {"Evidence ID", "123.45", 20},
	inputContactPerson: {"Contact person", "Jana Nováková", 100},
	inputContactEmail:  {"Contact email", "jana@example.com", 100},
	inputContactPhone:  {"Contact phone", "+420 777 123 456", 30},
	inputHomeTown:      {"Home town", "Praha", 100},
	inputArrival:       {"Expected arrival", "YYYY-MM-DD HH:MM", 16},
}

// FormOptions configures the unit and participant editors.
type FormOptions struct {
	// LoadingText replaces the save button label while a save is running.
	LoadingText string
	// Deadline refuses saves once registration has closed. Scout categories
	// left blank are counted against it.
	Deadline submit.Deadline
}

// UnitFormModel edits a unit together with its participant formset.
type UnitFormModel struct {
	db     *sql.DB
	unitID int64
	inputs []textinput.Model
	fs     *formset.Formset
	cell   textinput.Model

	// focus indexes the unit inputs first, then the participant grid cells
	// row by row.
	focus int

	button   *submit.Button
	guard    *submit.Guard
	tokens   *submit.Tokens
	token    string
	deadline submit.Deadline

	keys  FormKeyMap
	error string
}

// NewUnitFormModel creates an empty unit form with one blank participant.
func NewUnitFormModel(database *sql.DB, tokens *submit.Tokens, opts FormOptions) *UnitFormModel {
	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = unitInputs[i].placeholder
		inputs[i].CharLimit = unitInputs[i].limit
	}
	inputs[inputName].Focus()

	cell := textinput.New()
	cell.Prompt = ""
	cell.CharLimit = 200

	button := &submit.Button{Label: "Save", LoadingText: opts.LoadingText}

	m := &UnitFormModel{
		db:       database,
		inputs:   inputs,
		fs:       formset.New(participantTemplate, nil, 1),
		cell:     cell,
		button:   button,
		guard:    submit.NewGuard(button),
		tokens:   tokens,
		deadline: opts.Deadline,
		keys:     DefaultFormKeyMap(),
	}
	m.token = tokens.Issue(unitFormToken)
	return m
}

// LoadUnit loads an existing unit and its participants for editing.
func (m *UnitFormModel) LoadUnit(detail model.UnitDetail) {
	u := detail.Unit
	m.unitID = u.ID
	m.inputs[inputName].SetValue(u.Name)
	m.inputs[inputEvidenceID].SetValue(u.EvidenceID)
	m.inputs[inputContactPerson].SetValue(u.ContactPerson)
	m.inputs[inputContactEmail].SetValue(u.ContactEmail)
	m.inputs[inputContactPhone].SetValue(u.ContactPhone)
	m.inputs[inputHomeTown].SetValue(u.HomeTown)
	m.inputs[inputArrival].SetValue(u.Arrival)

	initial := make([]formset.Initial, 0, len(detail.Participants))
	for _, p := range detail.Participants {
		initial = append(initial, formset.Initial{
			ID: p.ID,
			Values: map[string]string{
				fieldFirstName: p.FirstName,
				fieldLastName:  p.LastName,
				fieldNickname:  p.Nickname,
				fieldDOB:       util.FormatDate(p.DateOfBirth),
				fieldCategory:  string(p.Category),
				fieldDietary:   p.Dietary,
				fieldHealth:    p.Health,
				fieldInfo:      p.Info,
			},
		})
	}
	m.fs = formset.New(participantTemplate, initial, 1)
}

// UnitID returns the ID of the edited unit, 0 for a new one.
func (m *UnitFormModel) UnitID() int64 {
	return m.unitID
}

// Formset returns the participant formset.
func (m *UnitFormModel) Formset() *formset.Formset {
	return m.fs
}

// Button returns the submit button.
func (m *UnitFormModel) Button() *submit.Button {
	return m.button
}

// Update handles input.
func (m UnitFormModel) Update(msg tea.Msg) (UnitFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateFocused(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return m, func() tea.Msg {
			return model.FormCancelledMsg{}
		}
	case key.Matches(keyMsg, m.keys.Save):
		return m, m.submit()
	case key.Matches(keyMsg, m.keys.NextField):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevField):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(keyMsg, m.keys.AddRow):
		m.AddParticipant()
		return m, nil
	case key.Matches(keyMsg, m.keys.RemoveRow):
		if err := m.RemoveParticipant(); err != nil {
			m.error = err.Error()
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.RowDown):
		if m.inGrid() {
			m.setFocus(m.focus + len(gridColumns))
		} else {
			m.setFocus(m.focus + 1)
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.RowUp):
		if m.inGrid() && m.focus-len(gridColumns) >= inputCount {
			m.setFocus(m.focus - len(gridColumns))
		} else {
			m.setFocus(m.focus - 1)
		}
		return m, nil
	}

	return m, m.updateFocused(msg)
}

func (m *UnitFormModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.inGrid() {
		m.cell, cmd = m.cell.Update(msg)
		m.commitCell()
		return cmd
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *UnitFormModel) slots() int {
	return inputCount + len(m.fs.Visible())*len(gridColumns)
}

func (m *UnitFormModel) inGrid() bool {
	return m.focus >= inputCount
}

// gridPos returns the visible row and column of the focused cell.
func (m *UnitFormModel) gridPos() (int, int) {
	n := m.focus - inputCount
	return n / len(gridColumns), n % len(gridColumns)
}

func (m *UnitFormModel) focusedRow() *formset.Row {
	if !m.inGrid() {
		return nil
	}
	r, _ := m.gridPos()
	visible := m.fs.Visible()
	if r >= len(visible) {
		return nil
	}
	return visible[r]
}

func (m *UnitFormModel) commitCell() {
	if row := m.focusedRow(); row != nil {
		_, c := m.gridPos()
		row.Set(gridColumns[c].field, m.cell.Value())
	}
}

func (m *UnitFormModel) setFocus(n int) {
	m.commitCell()
	if m.inGrid() {
		m.cell.Blur()
	} else {
		m.inputs[m.focus].Blur()
	}

	total := m.slots()
	m.focus = ((n % total) + total) % total

	if row := m.focusedRow(); row != nil {
		_, c := m.gridPos()
		m.cell.SetValue(row.Get(gridColumns[c].field))
		m.cell.CursorEnd()
		m.cell.Focus()
		return
	}
	m.inputs[m.focus].Focus()
}

// AddParticipant appends a blank participant form and focuses its first
// cell.
func (m *UnitFormModel) AddParticipant() *formset.Row {
	m.commitCell()
	row := m.fs.Add()
	debug.Log("formset add index=%d total=%d", row.Index, m.fs.TotalForms())
	m.setFocus(inputCount + (len(m.fs.Visible())-1)*len(gridColumns))
	return row
}

// RemoveParticipant removes the participant form under the focus. Saved
// participants are marked for deletion, new ones are dropped.
func (m *UnitFormModel) RemoveParticipant() error {
	row := m.focusedRow()
	if row == nil {
		return errors.New("move to a participant row to remove it")
	}
	m.commitCell()
	if err := m.fs.Remove(row); err != nil {
		return err
	}
	debug.Log("formset remove index=%d saved=%t", row.Index, row.HasDeleteBox())

	r, c := m.gridPos()
	target := inputName
	if visible := len(m.fs.Visible()); visible > 0 {
		target = inputCount + min(r, visible-1)*len(gridColumns) + c
	}
	// the removed row's cell must not be committed into its neighbour
	m.cell.Blur()
	m.focus = inputName
	m.setFocus(target)
	return nil
}

func (m *UnitFormModel) unitValues() model.Unit {
	v := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	return model.Unit{
		ID:            m.unitID,
		Name:          v(inputName),
		EvidenceID:    v(inputEvidenceID),
		ContactPerson: v(inputContactPerson),
		ContactEmail:  v(inputContactEmail),
		ContactPhone:  v(inputContactPhone),
		HomeTown:      v(inputHomeTown),
		Arrival:       v(inputArrival),
	}
}

// submit starts a save. While a save is in flight further submits are
// ignored.
func (m *UnitFormModel) submit() tea.Cmd {
	m.commitCell()
	if !m.guard.Submit() {
		return nil
	}
	if err := m.tokens.Check(unitFormToken, m.token); err != nil {
		m.guard.Fail()
		m.token = m.tokens.Issue(unitFormToken)
		m.error = "form was already submitted, review and save again"
		return nil
	}
	m.error = ""

	database := m.db
	unit := m.unitValues()
	values := m.fs.Encode()
	deadline := m.deadline
	return func() tea.Msg {
		return saveUnit(database, unit, values, deadline)
	}
}

// Failed re-enables the form after a failed save and shows the error.
func (m *UnitFormModel) Failed(err error) {
	m.guard.Fail()
	m.token = m.tokens.Issue(unitFormToken)
	m.error = err.Error()
}

// saveUnit decodes the submitted formset, validates it and stores it.
func saveUnit(database *sql.DB, unit model.Unit, values url.Values, deadline submit.Deadline) tea.Msg {
	now := time.Now()
	if err := deadline.Check(now); err != nil {
		return model.SaveFailedMsg{Err: err}
	}
	if unit.Name == "" {
		return model.SaveFailedMsg{Err: errors.New("unit name is required")}
	}
	if unit.Arrival != "" {
		if _, err := time.Parse(arrivalLayout, unit.Arrival); err != nil {
			return model.SaveFailedMsg{Err: fmt.Errorf("expected arrival must look like %s", arrivalLayout)}
		}
	}

	fs, err := formset.Decode(participantTemplate, values)
	if err != nil {
		return model.SaveFailedMsg{Err: err}
	}
	changes, err := participantChanges(fs, deadline.Reference(now))
	if err != nil {
		return model.SaveFailedMsg{Err: err}
	}

	start := time.Now()
	id, err := db.SaveUnit(database, unit, changes)
	if err != nil {
		return model.SaveFailedMsg{Err: err}
	}
	debug.LogTiming("save unit", time.Since(start))

	return model.UnitSavedMsg{
		ID:       id,
		Inserted: len(changes.Inserts),
		Updated:  len(changes.Updates),
		Deleted:  len(changes.Deletes),
	}
}

// participantChanges turns the rows of a submitted formset into store
// operations. Blank categories are derived from the date of birth as of ref.
func participantChanges(fs *formset.Formset, ref time.Time) (db.ParticipantChanges, error) {
	c := fs.Changes()
	var out db.ParticipantChanges
	for _, r := range c.Deletes {
		out.Deletes = append(out.Deletes, r.ID)
	}
	for _, r := range c.Updates {
		p, err := participantFromRow(r, ref)
		if err != nil {
			return db.ParticipantChanges{}, err
		}
		p.ID = r.ID
		out.Updates = append(out.Updates, p)
	}
	for _, r := range c.Inserts {
		p, err := participantFromRow(r, ref)
		if err != nil {
			return db.ParticipantChanges{}, err
		}
		out.Inserts = append(out.Inserts, p)
	}
	return out, nil
}

func participantFromRow(r *formset.Row, ref time.Time) (model.Participant, error) {
	get := func(f string) string { return strings.TrimSpace(r.Get(f)) }

	p := model.Participant{
		FirstName: get(fieldFirstName),
		LastName:  get(fieldLastName),
		Nickname:  get(fieldNickname),
		Category:  model.Category(strings.ToUpper(get(fieldCategory))),
		Dietary:   get(fieldDietary),
		Health:    get(fieldHealth),
		Info:      get(fieldInfo),
	}
	if err := checkPerson(&p, get(fieldDOB), ref); err != nil {
		return model.Participant{}, fmt.Errorf("participant %d: %w", r.Number, err)
	}
	return p, nil
}

// checkPerson validates the personal fields every participant kind shares
// and stores the date of birth, given as D.M.YYYY, in ISO form. A blank
// category is derived from the birth year as of ref.
func checkPerson(p *model.Participant, dob string, ref time.Time) error {
	if p.FirstName == "" || p.LastName == "" {
		return errors.New("first and last name are required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if dob == "" {
		return errors.New("date of birth is required")
	}
	iso, err := util.ParseDateInput(dob)
	if err != nil {
		return err
	}
	if age, err := util.AgeOn(iso, time.Now()); err != nil || age < 0 {
		return fmt.Errorf("date of birth %s is in the future", util.FormatDate(iso))
	}
	p.DateOfBirth = iso
	if p.Category == "" {
		p.Category = model.CategoryFor(iso, ref)
	}
	return nil
}

// View renders the form.
func (m *UnitFormModel) View(width, height int) string {
	var fields []string
	for i := range m.inputs {
		fields = append(fields, renderFormField(unitInputs[i].label, m.inputs[i], m.focus == i))
	}
	unitBlock := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, fields[inputName], fields[inputEvidenceID], fields[inputHomeTown]),
		lipgloss.JoinHorizontal(lipgloss.Top, fields[inputContactPerson], fields[inputContactEmail], fields[inputContactPhone]),
		fields[inputArrival],
	)

	grid := m.renderGrid()

	buttonStyle := ButtonStyle
	if m.button.Disabled {
		buttonStyle = DisabledButtonStyle
	}
	footer := buttonStyle.Render(m.button.Text())
	footer += StatusBarStyle.Render(fmt.Sprintf("%s %d  %s %d",
		formset.TotalForms, m.fs.TotalForms(), formset.InitialForms, m.fs.InitialForms()))

	parts := []string{unitBlock, "", LabelStyle.Render("Participants"), grid, "", footer}
	if m.error != "" {
		parts = append(parts, "", ErrorStyle.Render(m.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *UnitFormModel) renderGrid() string {
	widths := make([]int, len(gridColumns)+1)
	headers := make([]string, len(gridColumns)+1)
	widths[0], headers[0] = 5, "#"
	for i, c := range gridColumns {
		widths[i+1] = c.width
		headers[i+1] = strings.ToUpper(c.label)
	}

	lines := []string{renderTableRow(headers, widths, TableHeaderStyle)}
	visible := m.fs.Visible()
	if len(visible) == 0 {
		lines = append(lines, EmptyStateStyle.Padding(0, 1).Render("No participants. Press ctrl+n to add one."))
	}

	focusRow, focusCol := -1, -1
	if m.inGrid() {
		focusRow, focusCol = m.gridPos()
	}
	for i, r := range visible {
		cells := make([]string, len(widths))
		cells[0] = strconv.Itoa(r.Number)
		if !r.HasDeleteBox() {
			cells[0] += "+"
		}
		for j, c := range gridColumns {
			text := util.TruncateString(r.Get(c.field), c.width-2)
			if i == focusRow && j == focusCol {
				text = m.cell.View()
			}
			cells[j+1] = text
		}
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == focusRow {
			style = style.Foreground(ColorAccent)
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}
	return strings.Join(lines, "\n")
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Width(34).Render(field)
}
