package components

import (
	"strings"

	"cadence/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Incomes", Key: 'i', KeyPos: 0},
	{Name: "Expenses", Key: 'e', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1}, // x is not in "Settings"
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var parts []string
	for i, tab := range Tabs {
		var rendered string
		if i == activeIdx {
			rendered = activeStyle.Render(tab.Name)
		} else {
			// Render with highlighted shortcut key
			if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
				before := tab.Name[:tab.KeyPos]
				key := string(tab.Name[tab.KeyPos])
				after := tab.Name[tab.KeyPos+1:]
				rendered = inactiveStyle.Render(before) +
					dimKeyStyle.Render("[") + keyStyle.Render(key) + dimKeyStyle.Render("]") +
					inactiveStyle.Render(after)
			} else {
				rendered = inactiveStyle.Render(tab.Name) +
					dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]")
			}
		}
		parts = append(parts, rendered)
	}

	row := " " + strings.Join(parts, "  ")
	rowStyle := lipgloss.NewStyle().Width(width)
	return rowStyle.Render(row)
}

// TabVisualWidth returns the rendered width of a tab, for mouse hitboxes.
// Must mirror RenderTabBar's layout: inactive tabs carry the [k] brackets.
func TabVisualWidth(tab Tab, active bool) int {
	if active {
		return len(tab.Name)
	}
	if tab.KeyPos >= 0 {
		return len(tab.Name) + 2 // brackets around a letter already in the name
	}
	return len(tab.Name) + 3 // name + "[k]"
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
