package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"skare/internal/model"
)

// RenderHelp renders context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, width int) string {
	switch mode {
	case model.ModeInsert:
		if screen == model.ScreenParticipantForm {
			return renderParticipantFormHelp(width)
		}
		return renderFormHelp(width)
	case model.ModeSearch:
		return renderSearchHelp(width)
	}

	switch screen {
	case model.ScreenParticipants:
		return renderParticipantsHelp(width)
	case model.ScreenUnits:
		return renderUnitsHelp(width)
	default:
		return renderDefaultHelp(width)
	}
}

func renderParticipantsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("tab", "next col"),
		helpKey("s", "sort"),
		helpKey("/", "search"),
		helpKey("t", "type"),
		helpKey("c", "columns"),
		helpKey("1-5", "preset"),
		helpKey("enter", "open"),
		helpKey("i/o", "add individual/organizer"),
		helpKey("u", "units"),
	}
	return renderHelpLine(keys, width)
}

func renderUnitsHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("a", "add unit"),
		helpKey("enter", "edit"),
		helpKey("p", "participants"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func renderSearchHelp(width int) string {
	keys := []string{
		helpKey("type", "filter rows"),
		helpKey("enter", "keep"),
		helpKey("esc", "done"),
	}
	return renderHelpLine(keys, width)
}

func renderFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("↑/↓", "row"),
		helpKey("ctrl+n", "add participant"),
		helpKey("ctrl+x", "remove"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderParticipantFormHelp(width int) string {
	keys := []string{
		helpKey("tab", "next field"),
		helpKey("ctrl+s", "save"),
		helpKey("esc", "cancel"),
	}
	return renderHelpLine(keys, width)
}

func renderDefaultHelp(width int) string {
	keys := []string{
		helpKey("j/k", "navigate"),
		helpKey("h/l", "back/select"),
		helpKey("q", "quit"),
	}
	return renderHelpLine(keys, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"p / u", "Participants / units"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Participants Table"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"s", "Sort active column, again to reverse"},
			{"x", "Hide active column"},
			{"c", "Choose columns"},
			{"1-5", "Column preset: basic, dietary, health, contact, all"},
			{"/", "Search visible columns"},
			{"t", "Cycle participant type"},
			{"N", "Clear search and type"},
			{"enter / l", "Open the unit or the registration"},
			{"i / o", "Register an individual / organizer"},
		}),
		titleSection("Units"),
		helpSection([]helpItem{
			{"a", "Register a unit"},
			{"enter / l", "Edit unit and participants"},
		}),
		titleSection("Unit Form"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Next / previous field"},
			{"↑ / ↓", "Same column, other participant"},
			{"ctrl+n", "Add participant"},
			{"ctrl+x", "Remove focused participant"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
		titleSection("Participant Form"),
		helpSection([]helpItem{
			{"tab / ↓", "Next field"},
			{"shift+tab / ↑", "Previous field"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
