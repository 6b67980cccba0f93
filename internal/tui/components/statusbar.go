package components

import (
	"fmt"

	"cadence/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// data freshness on the right.
func RenderStatusBar(width int, fetchedAgo string, offline, refreshing bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [a]dd  [r]efresh  [?]help  [q]uit"

	right := ""
	switch {
	case refreshing:
		right = "refreshing… "
	case offline:
		right = fmt.Sprintf("offline · snapshot %s ", fetchedAgo)
	case fetchedAgo != "":
		right = fmt.Sprintf("updated %s ", fetchedAgo)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	bar := left
	for i := 0; i < padding; i++ {
		bar += " "
	}
	bar += right

	return style.Render(bar)
}
