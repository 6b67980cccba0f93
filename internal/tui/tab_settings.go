package tui

import (
	"fmt"
	"strings"

	"cadence/internal/config"
	"cadence/internal/tui/components"
	"cadence/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	data := a.data

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	// Ratio card with mini bars
	var ratioBody strings.Builder
	if data != nil {
		innerW := components.CardInnerWidth(cw)
		barMax := innerW - 16
		if barMax < 10 {
			barMax = 10
		}

		legs := []struct {
			name  string
			pct   int
			color lipgloss.Color
		}{
			{"Needs", data.ratio.Needs, t.Blue},
			{"Wants", data.ratio.Wants, t.Magenta},
			{"Savings", data.ratio.Savings, t.Green},
		}
		for _, leg := range legs {
			barLen := leg.pct * barMax / 100
			bar := lipgloss.NewStyle().Foreground(leg.color).Render(strings.Repeat("█", barLen))
			fmt.Fprintf(&ratioBody, "%s %s %s\n",
				labelStyle.Render(fmt.Sprintf("%-8s", leg.name)),
				valueStyle.Render(fmt.Sprintf("%3d%%", leg.pct)),
				bar)
		}
		ratioBody.WriteString("\n")
		ratioBody.WriteString(mutedStyle.Render("Enter to adjust · the other buckets rebalance proportionally"))
	}

	// Config card
	var cfgBody strings.Builder
	fmt.Fprintf(&cfgBody, "%s %s\n",
		labelStyle.Render("Server      "), valueStyle.Render(config.ServerURL(a.cfg)))
	fmt.Fprintf(&cfgBody, "%s %s\n",
		labelStyle.Render("Currency    "), valueStyle.Render(a.cfg.General.CurrencySymbol))
	fmt.Fprintf(&cfgBody, "%s %s\n",
		labelStyle.Render("Theme       "), valueStyle.Render(a.cfg.Appearance.Theme))
	fmt.Fprintf(&cfgBody, "%s %ds\n",
		labelStyle.Render("Watch every "), a.cfg.Watch.IntervalSec)
	cfgBody.WriteString("\n")
	cfgBody.WriteString(mutedStyle.Render("Edit with `cadence setup` · config at " + config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Budget Split", ratioBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Configuration", cfgBody.String(), cw))

	return b.String()
}
