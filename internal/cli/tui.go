package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/shelfplan/pkg/site"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ZoneListModel - Interactive storage zone selection
// =============================================================================

// ZoneListModel is the bubbletea model for picking a storage zone.
type ZoneListModel struct {
	Zones    []site.Zone
	Current  string // zone marked as the present default
	Cursor   int
	Selected *site.Zone
}

// NewZoneListModel creates a zone list with the cursor on current.
func NewZoneListModel(zones []site.Zone, current string) ZoneListModel {
	m := ZoneListModel{Zones: zones, Current: current}
	for i, z := range zones {
		if z.Name == current {
			m.Cursor = i
		}
	}
	return m
}

func (m ZoneListModel) Init() tea.Cmd {
	return nil
}

func (m ZoneListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Zones)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Zones) == 0 {
			return m, tea.Quit
		}
		z := m.Zones[m.Cursor]
		m.Selected = &z
		return m, tea.Quit
	}
	return m, nil
}

func (m ZoneListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Storage Zone"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, z := range m.Zones {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if z.Name == m.Current {
			mark = StyleSuccess.Render(iconSuccess)
		}

		line := fmt.Sprintf("%s%s %-16s %s", cursor, mark, z.Name,
			listDimStyle.Render(fmt.Sprintf("%g × %g at %g, %g", z.Width, z.Depth, z.X, z.Y)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Zones))))
	b.WriteString("\n")
	return b.String()
}
