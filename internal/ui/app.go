package ui

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"

	"skare/internal/db"
	"skare/internal/debug"
	"skare/internal/model"
	"skare/internal/submit"
	"skare/internal/table"
)

// Options configures the root model.
type Options struct {
	// Preset is the column preset the participant list starts with.
	Preset string
	// Locale orders text columns when sorting.
	Locale language.Tag
	// LoadingText replaces the save button label while a save is running.
	LoadingText string
	// Deadline closes registration. The zero value keeps it open.
	Deadline submit.Deadline
}

func (o Options) form() FormOptions {
	return FormOptions{LoadingText: o.LoadingText, Deadline: o.Deadline}
}

// Model is the root Bubble Tea model.
type Model struct {
	db     *sql.DB
	opts   Options
	screen model.Screen
	mode   model.Mode
	gState GState

	// returnTo is the list screen a form goes back to.
	returnTo model.Screen

	width  int
	height int

	error       string
	info        string
	showingHelp bool

	// Screen models
	participants *ParticipantsModel
	units        *UnitsModel
	unitForm     *UnitFormModel
	personForm   *ParticipantFormModel

	keys     KeyMap
	formKeys FormKeyMap
	tokens   *submit.Tokens
}

// New creates a new root model.
func New(database *sql.DB, opts Options) Model {
	if !table.IsPreset(opts.Preset) {
		opts.Preset = table.PresetBasic
	}
	if opts.LoadingText == "" {
		opts.LoadingText = submit.DefaultLoadingText
	}
	return Model{
		db:       database,
		opts:     opts,
		screen:   model.ScreenParticipants,
		mode:     model.ModeNav,
		gState:   GStateIdle,
		keys:     DefaultKeyMap(),
		formKeys: DefaultFormKeyMap(),
		tokens:   submit.NewTokens(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadParticipantsCmd(m.db),
		loadUnitsCmd(m.db),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		case model.ModeSearch:
			return m.handleSearchMode(msg)
		}

		if m.showingHelp {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.showingHelp = false
			}
			return m, nil
		}

		if m.screen == model.ScreenParticipants && m.participants != nil && m.participants.Picking() {
			m.participants.UpdatePicker(msg)
			return m, nil
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = true
			return m, nil
		}

		return m.handleNavMode(msg)

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		return m, nil

	case model.ParticipantsLoadedMsg:
		if m.participants == nil {
			m.participants = NewParticipantsModel(msg.Participants, ParticipantsOptions{
				Preset: m.opts.Preset,
				Locale: m.opts.Locale,
			})
		} else {
			m.participants.SetRows(msg.Participants)
		}
		m.resizeLists()
		m.error = ""
		return m, nil

	case model.UnitsLoadedMsg:
		if m.units == nil {
			m.units = NewUnitsModel(msg.Units)
		} else {
			m.units.SetRows(msg.Units)
		}
		m.resizeLists()
		m.error = ""
		return m, nil

	case model.UnitDetailLoadedMsg:
		m.unitForm = NewUnitFormModel(m.db, m.tokens, m.opts.form())
		m.unitForm.LoadUnit(msg.Detail)
		m.openForm(model.ScreenUnitForm)
		return m, nil

	case model.ParticipantLoadedMsg:
		m.personForm = NewParticipantFormModel(m.db, msg.Participant.Kind, m.tokens, m.opts.form())
		m.personForm.LoadParticipant(msg.Participant)
		m.openForm(model.ScreenParticipantForm)
		return m, nil

	case model.UnitSavedMsg:
		m.closeForm()
		m.info = fmt.Sprintf("Unit saved: %d added, %d updated, %d removed", msg.Inserted, msg.Updated, msg.Deleted)
		return m, tea.Batch(
			loadParticipantsCmd(m.db),
			loadUnitsCmd(m.db),
		)

	case model.ParticipantSavedMsg:
		m.closeForm()
		if msg.Created {
			m.info = msg.Kind.Label() + " registered"
		} else {
			m.info = msg.Kind.Label() + " saved"
		}
		return m, loadParticipantsCmd(m.db)

	case model.SaveFailedMsg:
		switch {
		case m.screen == model.ScreenParticipantForm && m.personForm != nil:
			m.personForm.Failed(msg.Err)
		case m.unitForm != nil:
			m.unitForm.Failed(msg.Err)
		}
		return m, nil

	case model.FormCancelledMsg:
		m.closeForm()
		return m, nil

	case model.DatabaseChangedMsg:
		debug.Log("database changed, reloading lists")
		return m, tea.Batch(
			loadParticipantsCmd(m.db),
			loadUnitsCmd(m.db),
		)
	}

	// Cursor blink and other input messages
	switch {
	case m.mode == model.ModeInsert && m.screen == model.ScreenParticipantForm && m.personForm != nil:
		form, cmd := m.personForm.Update(msg)
		m.personForm = &form
		return m, cmd
	case m.mode == model.ModeInsert && m.unitForm != nil:
		form, cmd := m.unitForm.Update(msg)
		m.unitForm = &form
		return m, cmd
	case m.mode == model.ModeSearch && m.participants != nil:
		return m, m.participants.UpdateSearch(msg)
	}
	return m, nil
}

func (m *Model) resizeLists() {
	// header, footer, tabs and list chrome
	if m.participants != nil {
		m.participants.SetPageSize(m.height - 11)
	}
	if m.units != nil {
		m.units.SetPageSize(m.height - 9)
	}
}

func isForm(s model.Screen) bool {
	return s == model.ScreenUnitForm || s == model.ScreenParticipantForm
}

func (m *Model) openForm(screen model.Screen) {
	if !isForm(m.screen) {
		m.returnTo = m.screen
	}
	m.screen = screen
	m.mode = model.ModeInsert
	m.error = ""
	m.info = ""
}

func (m *Model) closeForm() {
	m.mode = model.ModeNav
	m.screen = m.returnTo
	m.unitForm = nil
	m.personForm = nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string

	showTabs := !isForm(m.screen)

	// Header: 1 line, Footer: 1 line, Tabs: 2 lines (if shown)
	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}

	switch m.screen {
	case model.ScreenParticipants:
		breadcrumbParts = []string{"Participants"}
		if m.participants != nil {
			content = m.participants.View(m.width, contentHeight)
		}
	case model.ScreenUnits:
		breadcrumbParts = []string{"Units"}
		if m.units != nil {
			content = m.units.View(m.width, contentHeight)
		}
	case model.ScreenUnitForm:
		breadcrumbParts = []string{"Units", "New unit"}
		if m.unitForm != nil {
			if name := strings.TrimSpace(m.unitForm.inputs[inputName].Value()); m.unitForm.UnitID() != 0 && name != "" {
				breadcrumbParts = []string{"Units", name}
			}
			content = m.unitForm.View(m.width, contentHeight)
		}
	case model.ScreenParticipantForm:
		breadcrumbParts = []string{"Participants"}
		if m.personForm != nil {
			breadcrumbParts = append(breadcrumbParts, m.personForm.Title())
			content = m.personForm.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumbParts, m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	parts := []string{header}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTabs(screen model.Screen, width int) string {
	tabs := []struct {
		name   string
		screen model.Screen
	}{
		{"Participants", model.ScreenParticipants},
		{"Units", model.ScreenUnits},
	}

	var tabStrings []string
	for _, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("skare")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: current date
	right := BreadcrumbStyle.Render(time.Now().Format("02.01.2006")) + "  "

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Handle "gg" state machine
	if key.Matches(msg, m.keys.Top) {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		return m.handleJumpToTop()
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Participants):
		m.screen = model.ScreenParticipants
		m.info = ""
		return m, nil
	case key.Matches(msg, m.keys.Units):
		m.screen = model.ScreenUnits
		m.info = ""
		return m, nil
	}

	switch m.screen {
	case model.ScreenParticipants:
		return m.handleParticipantsNav(msg)
	case model.ScreenUnits:
		return m.handleUnitsNav(msg)
	}
	return m, nil
}

// handleInsertMode routes input to the open form.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == model.ScreenParticipantForm && m.personForm != nil {
		form, cmd := m.personForm.Update(msg)
		m.personForm = &form
		return m, cmd
	}
	if m.unitForm == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	form, cmd := m.unitForm.Update(msg)
	m.unitForm = &form
	return m, cmd
}

// handleSearchMode feeds keys to the participant search box.
func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.participants == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	switch msg.String() {
	case "esc", "enter":
		m.participants.BlurSearch()
		m.mode = model.ModeNav
		return m, nil
	}
	return m, m.participants.UpdateSearch(msg)
}

func (m Model) handleJumpToTop() (tea.Model, tea.Cmd) {
	if m.participants != nil && m.screen == model.ScreenParticipants {
		m.participants.JumpToTop()
	}
	if m.units != nil && m.screen == model.ScreenUnits {
		m.units.JumpToTop()
	}
	return m, nil
}

func (m Model) handleParticipantsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.participants
	if p == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		p.MoveDown()
	case key.Matches(msg, m.keys.Up):
		p.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		p.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		p.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		p.HalfPageUp()
	case key.Matches(msg, m.keys.NextColumn):
		p.NextColumn()
	case key.Matches(msg, m.keys.PrevColumn):
		p.PrevColumn()
	case key.Matches(msg, m.keys.Sort):
		if p.SortActiveColumn() {
			m.info = "Sorted ascending"
		} else {
			m.info = "Sorted descending"
		}
	case key.Matches(msg, m.keys.HideColumn):
		if p.HideActiveColumn() {
			m.info = "Column hidden"
		} else {
			m.info = "Cannot hide last visible column"
		}
	case key.Matches(msg, m.keys.Columns):
		p.OpenColumnPicker()
	case key.Matches(msg, m.keys.Preset):
		if name := p.applyPresetKey(msg.String()); name != "" {
			m.info = "Preset: " + name
		}
	case key.Matches(msg, m.keys.TypeFilter):
		if t := p.CycleTypeFilter(); t != "" {
			m.info = "Type: " + model.Kind(t).Label()
		} else {
			m.info = "Type: all"
		}
	case key.Matches(msg, m.keys.ClearFilter):
		if p.ClearFilters() {
			m.info = "Filters cleared"
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = model.ModeSearch
		return m, p.FocusSearch()
	case key.Matches(msg, m.keys.AddIndividual):
		m.personForm = NewParticipantFormModel(m.db, model.KindIndividual, m.tokens, m.opts.form())
		m.openForm(model.ScreenParticipantForm)
	case key.Matches(msg, m.keys.AddOrganizer):
		m.personForm = NewParticipantFormModel(m.db, model.KindOrganizer, m.tokens, m.opts.form())
		m.openForm(model.ScreenParticipantForm)
	case key.Matches(msg, m.keys.Select):
		// regular participants are edited with their unit
		if unitID, ok := p.SelectedUnitID(); ok {
			return m, loadUnitDetailCmd(m.db, unitID)
		}
		if id, _, ok := p.Selected(); ok {
			return m, loadParticipantCmd(m.db, id)
		}
	}
	return m, nil
}

func (m Model) handleUnitsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	u := m.units
	if u == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		u.MoveDown()
	case key.Matches(msg, m.keys.Up):
		u.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		u.JumpToBottom()
	case key.Matches(msg, m.keys.Add):
		m.unitForm = NewUnitFormModel(m.db, m.tokens, m.opts.form())
		m.openForm(model.ScreenUnitForm)
	case key.Matches(msg, m.keys.Select):
		if row, ok := u.Selected(); ok {
			return m, loadUnitDetailCmd(m.db, row.ID)
		}
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenParticipants
	}
	return m, nil
}

func loadParticipantsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rows, err := db.ListParticipants(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		debug.LogTiming("load participants", time.Since(start))
		return model.ParticipantsLoadedMsg{Participants: rows}
	}
}

func loadUnitsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		units, err := db.ListUnits(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.UnitsLoadedMsg{Units: units}
	}
}

func loadUnitDetailCmd(database *sql.DB, unitID int64) tea.Cmd {
	return func() tea.Msg {
		detail, err := db.GetUnitDetail(database, unitID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load unit: %w", err)}
		}
		return model.UnitDetailLoadedMsg{Detail: detail}
	}
}

func loadParticipantCmd(database *sql.DB, id int64) tea.Cmd {
	return func() tea.Msg {
		p, err := db.GetParticipant(database, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ParticipantLoadedMsg{Participant: p}
	}
}
