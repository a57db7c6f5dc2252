package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skare/internal/db"
	"skare/internal/table"
)

// shouldRunOnboarding reports whether the first-run setup should be shown:
// the config file has not completed it and stdin is a terminal.
func shouldRunOnboarding(cfg FileConfig) bool {
	if cfg.SetupCompleted {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepPreset onboardingStep = iota
	stepSeed
	stepDone
)

// seedChoices lists the sample data options; "" loads nothing.
var seedChoices = []db.SeedSize{"", db.SeedSmall, db.SeedMedium, db.SeedLarge}

type onboardingResult struct {
	config FileConfig
	seed   db.SeedSize
}

type onboardingModel struct {
	step    onboardingStep
	presets []string
	preset  int
	seed    int
	config  FileConfig
	status  string
	width   int
	height  int
}

var (
	obColorMuted  = lipgloss.Color("#7A8B99")
	obColorText   = lipgloss.Color("#D8E2EA")
	obColorAccent = lipgloss.Color("#7FB2D9")
	obColorDanger = lipgloss.Color("#f38ba8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(cfg FileConfig) onboardingModel {
	presets := table.Presets()
	m := onboardingModel{
		step:    stepPreset,
		presets: presets,
		config:  cfg,
	}
	for i, p := range presets {
		if p == cfg.DefaultPreset {
			m.preset = i
		}
	}
	return m
}

func (m onboardingModel) Init() tea.Cmd { return nil }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.config.SetupCompleted = true
			m.seed = 0
			m.status = "Setup skipped. Defaults saved."
			m.step = stepDone
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
			return m, nil
		case "down", "j":
			m.move(1)
			return m, nil
		case "enter":
			return m.nextStep()
		case "esc":
			if m.step == stepSeed {
				m.step = stepPreset
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *onboardingModel) move(delta int) {
	switch m.step {
	case stepPreset:
		m.preset = (m.preset + delta + len(m.presets)) % len(m.presets)
	case stepSeed:
		m.seed = (m.seed + delta + len(seedChoices)) % len(seedChoices)
	}
}

func (m onboardingModel) nextStep() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepPreset:
		m.config.DefaultPreset = m.presets[m.preset]
		m.step = stepSeed
		return m, nil
	case stepSeed:
		m.config.SetupCompleted = true
		m.status = fmt.Sprintf("Participant list opens with the %s columns.", m.config.DefaultPreset)
		if s := seedChoices[m.seed]; s != "" {
			m.status += fmt.Sprintf(" Loading %s sample data.", s)
		}
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m onboardingModel) result() onboardingResult {
	return onboardingResult{config: m.config, seed: seedChoices[m.seed]}
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-6, 8)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("skare") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("02.01.2006")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	presetTab := obTabInactive.Render("Columns")
	seedTab := obTabInactive.Render("Sample data")
	if m.step == stepPreset {
		presetTab = obTabActive.Render("Columns")
	}
	if m.step == stepSeed {
		seedTab = obTabActive.Render("Sample data")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", presetTab, seedTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepPreset:
		return obFooterStyle.Width(width).Render("↑↓/jk to navigate  enter to confirm  q skip setup")
	case stepSeed:
		return obFooterStyle.Width(width).Render("↑↓/jk to navigate  enter to confirm  esc back  q skip setup")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func renderOptions(options []string, selected int) []string {
	lines := make([]string, len(options))
	for i, o := range options {
		if i == selected {
			lines[i] = "  " + obOptionSelected.Render("→ "+o)
		} else {
			lines[i] = "    " + obOptionStyle.Render(o)
		}
	}
	return lines
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepPreset:
		lines := []string{obLabelStyle.Render("Which columns should the participant list start with?"), ""}
		for i, line := range renderOptions(m.presets, m.preset) {
			cols := strings.Join(table.PresetColumns(m.presets[i]), ", ")
			lines = append(lines, line+"  "+obMutedStyle.Render(cols))
		}
		lines = append(lines, "", obMutedStyle.Render("You can change this later in config.yaml (default_preset)"))
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stepSeed:
		options := make([]string, len(seedChoices))
		for i, s := range seedChoices {
			if s == "" {
				options[i] = "No sample data"
			} else {
				options[i] = fmt.Sprintf("%s sample data", strings.ToUpper(string(s[:1]))+string(s[1:]))
			}
		}
		lines := []string{obLabelStyle.Render("Fill the database with test participants?"), ""}
		lines = append(lines, renderOptions(options, m.seed)...)
		lines = append(lines, "", obMutedStyle.Render("Sample data can be added later with -seed small|medium|large"))
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	default:
		msg := obMutedStyle.Render(m.status)
		if strings.Contains(strings.ToLower(m.status), "skipped") {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Setup Complete"), "", msg)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configPath string, cfg FileConfig) (onboardingResult, error) {
	prog := tea.NewProgram(newOnboardingModel(cfg), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return onboardingResult{}, fmt.Errorf("setup tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return onboardingResult{}, fmt.Errorf("unexpected setup model type")
	}
	if err := SaveFileConfig(m.config, configPath); err != nil {
		return onboardingResult{}, err
	}
	return m.result(), nil
}
