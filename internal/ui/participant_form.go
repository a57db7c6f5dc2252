package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skare/internal/db"
	"skare/internal/debug"
	"skare/internal/model"
	"skare/internal/submit"
	"skare/internal/util"
)

const participantFormToken = "participant_form"

// Participant form input indexes. Division is last so individuals simply
// stop one input earlier.
const (
	pInputFirstName = iota
	pInputLastName
	pInputNickname
	pInputDOB
	pInputCategory
	pInputEmail
	pInputPhone
	pInputHomeTown
	pInputArrival
	pInputDietary
	pInputHealth
	pInputInfo
	pInputDivision
	pInputCount
)

var participantInputs = []struct {
	label       string
	placeholder string
	limit       int
}{
	pInputFirstName: {"First name *", "Jana", 100},
	pInputLastName:  {"Last name *", "Nováková", 100},
	pInputNickname:  {"Nickname", "Veverka", 100},
	pInputDOB:       {"Date of birth *", "DD.MM.YYYY", 10},
	pInputCategory:  {"Category", "from date of birth", 5},
	pInputEmail:     {"Contact email *", "jana@example.com", 100},
	pInputPhone:     {"Contact phone *", "+420 777 123 456", 20},
	pInputHomeTown:  {"Home town", "Praha", 200},
	pInputArrival:   {"Expected arrival", "YYYY-MM-DD HH:MM", 16},
	pInputDietary:   {"Dietary restrictions", "vegetarian", 200},
	pInputHealth:    {"Health restrictions", "", 200},
	pInputInfo:      {"Relevant information", "", 200},
	pInputDivision:  {"Division", "OTHERS", 12},
}

// ParticipantFormModel registers or edits an individual participant or an
// organizer.
type ParticipantFormModel struct {
	db            *sql.DB
	kind          model.Kind
	participantID int64
	inputs        []textinput.Model
	focus         int

	button   *submit.Button
	guard    *submit.Guard
	tokens   *submit.Tokens
	token    string
	deadline submit.Deadline

	keys  FormKeyMap
	error string
}

// NewParticipantFormModel creates an empty form for kind, which must be
// individual or organizer.
func NewParticipantFormModel(database *sql.DB, kind model.Kind, tokens *submit.Tokens, opts FormOptions) *ParticipantFormModel {
	inputs := make([]textinput.Model, pInputCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = participantInputs[i].placeholder
		inputs[i].CharLimit = participantInputs[i].limit
	}
	inputs[pInputFirstName].Focus()

	button := &submit.Button{Label: "Save", LoadingText: opts.LoadingText}
	m := &ParticipantFormModel{
		db:       database,
		kind:     kind,
		inputs:   inputs,
		button:   button,
		guard:    submit.NewGuard(button),
		tokens:   tokens,
		deadline: opts.Deadline,
		keys:     DefaultFormKeyMap(),
	}
	m.token = tokens.Issue(participantFormToken)
	return m
}

// LoadParticipant fills the form from an existing participant.
func (m *ParticipantFormModel) LoadParticipant(p model.Participant) {
	m.participantID = p.ID
	m.kind = p.Kind
	values := map[int]string{
		pInputFirstName: p.FirstName,
		pInputLastName:  p.LastName,
		pInputNickname:  p.Nickname,
		pInputDOB:       util.FormatDate(p.DateOfBirth),
		pInputCategory:  string(p.Category),
		pInputEmail:     p.Email,
		pInputPhone:     p.Phone,
		pInputHomeTown:  p.HomeTown,
		pInputArrival:   p.Arrival,
		pInputDietary:   p.Dietary,
		pInputHealth:    p.Health,
		pInputInfo:      p.Info,
		pInputDivision:  string(p.Division),
	}
	for i, v := range values {
		m.inputs[i].SetValue(v)
	}
}

// Kind returns the kind of participant the form registers.
func (m *ParticipantFormModel) Kind() model.Kind {
	return m.kind
}

// ParticipantID returns the ID of the edited participant, 0 for a new one.
func (m *ParticipantFormModel) ParticipantID() int64 {
	return m.participantID
}

// Button returns the submit button.
func (m *ParticipantFormModel) Button() *submit.Button {
	return m.button
}

// Title names the form for the breadcrumb.
func (m *ParticipantFormModel) Title() string {
	if m.participantID != 0 {
		if name := strings.TrimSpace(m.inputs[pInputFirstName].Value() + " " + m.inputs[pInputLastName].Value()); name != "" {
			return name
		}
	}
	return "New " + strings.ToLower(m.kind.Label())
}

// inputCount is the number of inputs the kind uses.
func (m *ParticipantFormModel) inputCount() int {
	if m.kind == model.KindOrganizer {
		return pInputCount
	}
	return pInputDivision
}

// Update handles input.
func (m ParticipantFormModel) Update(msg tea.Msg) (ParticipantFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, func() tea.Msg {
				return model.FormCancelledMsg{}
			}
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.submit()
		case key.Matches(keyMsg, m.keys.NextField), key.Matches(keyMsg, m.keys.RowDown):
			m.setFocus(m.focus + 1)
			return m, nil
		case key.Matches(keyMsg, m.keys.PrevField), key.Matches(keyMsg, m.keys.RowUp):
			m.setFocus(m.focus - 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *ParticipantFormModel) setFocus(n int) {
	m.inputs[m.focus].Blur()
	total := m.inputCount()
	m.focus = ((n % total) + total) % total
	m.inputs[m.focus].Focus()
}

func (m *ParticipantFormModel) values() (model.Participant, string) {
	v := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	p := model.Participant{
		ID:        m.participantID,
		Kind:      m.kind,
		FirstName: v(pInputFirstName),
		LastName:  v(pInputLastName),
		Nickname:  v(pInputNickname),
		Category:  model.Category(strings.ToUpper(v(pInputCategory))),
		Email:     v(pInputEmail),
		Phone:     v(pInputPhone),
		HomeTown:  v(pInputHomeTown),
		Arrival:   v(pInputArrival),
		Dietary:   v(pInputDietary),
		Health:    v(pInputHealth),
		Info:      v(pInputInfo),
	}
	if m.kind == model.KindOrganizer {
		p.Division = model.Division(strings.ToUpper(v(pInputDivision)))
	}
	return p, v(pInputDOB)
}

// submit starts a save unless one is already running.
func (m *ParticipantFormModel) submit() tea.Cmd {
	if !m.guard.Submit() {
		return nil
	}
	if err := m.tokens.Check(participantFormToken, m.token); err != nil {
		m.Failed(errors.New("form was already submitted, review and save again"))
		return nil
	}
	m.error = ""

	database := m.db
	p, dob := m.values()
	deadline := m.deadline
	return func() tea.Msg {
		return saveParticipant(database, p, dob, deadline)
	}
}

// Failed re-enables the form after a failed save and shows the error.
func (m *ParticipantFormModel) Failed(err error) {
	m.guard.Fail()
	m.token = m.tokens.Issue(participantFormToken)
	m.error = err.Error()
}

// saveParticipant validates a registration and stores it.
func saveParticipant(database *sql.DB, p model.Participant, dob string, deadline submit.Deadline) tea.Msg {
	now := time.Now()
	if err := deadline.Check(now); err != nil {
		return model.SaveFailedMsg{Err: err}
	}
	if err := checkRegistration(&p, dob, deadline.Reference(now)); err != nil {
		return model.SaveFailedMsg{Err: err}
	}

	start := time.Now()
	id, err := db.SaveParticipant(database, p)
	if err != nil {
		return model.SaveFailedMsg{Err: err}
	}
	debug.LogTiming("save participant", time.Since(start))

	return model.ParticipantSavedMsg{ID: id, Kind: p.Kind, Created: p.ID == 0}
}

// checkRegistration validates an individual participant or organizer: the
// personal fields plus contact data, arrival and division.
func checkRegistration(p *model.Participant, dob string, ref time.Time) error {
	if err := checkPerson(p, dob, ref); err != nil {
		return err
	}
	if p.Email == "" || p.Phone == "" {
		return errors.New("contact email and phone are required")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("invalid contact email %q", p.Email)
	}
	if p.Arrival != "" {
		if _, err := time.Parse(arrivalLayout, p.Arrival); err != nil {
			return fmt.Errorf("expected arrival must look like %s", arrivalLayout)
		}
	}
	if p.Kind == model.KindOrganizer {
		if p.Division == "" {
			p.Division = model.DivisionOthers
		}
		if !p.Division.Valid() {
			return fmt.Errorf("unknown division %q", p.Division)
		}
	}
	return nil
}

// View renders the form.
func (m *ParticipantFormModel) View(width, height int) string {
	var fields []string
	for i := 0; i < m.inputCount(); i++ {
		fields = append(fields, renderFormField(participantInputs[i].label, m.inputs[i], m.focus == i))
	}

	var rows []string
	for i := 0; i < len(fields); i += 3 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, fields[i:min(i+3, len(fields))]...))
	}

	buttonStyle := ButtonStyle
	if m.button.Disabled {
		buttonStyle = DisabledButtonStyle
	}
	footer := buttonStyle.Render(m.button.Text())
	if m.kind == model.KindOrganizer {
		footer += StatusBarStyle.Render("divisions: " + divisionNames())
	}

	parts := []string{LabelStyle.Render(m.kind.Label() + " registration"), ""}
	parts = append(parts, rows...)
	parts = append(parts, "", footer)
	if m.error != "" {
		parts = append(parts, "", ErrorStyle.Render(m.error))
	}

	return PanelStyle.
		Width(width - 4).
		Height(height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func divisionNames() string {
	names := make([]string, len(model.Divisions))
	for i, d := range model.Divisions {
		names[i] = string(d)
	}
	return strings.Join(names, " ")
}
