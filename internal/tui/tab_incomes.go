package tui

import (
	"fmt"
	"strings"

	"cadence/internal/cli"
	"cadence/internal/tui/components"
	"cadence/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderIncomesTab(cw int) string {
	t := theme.Active
	data := a.data
	symbol := a.cfg.General.CurrencySymbol

	if data == nil || len(data.incomes) == 0 {
		hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
		return "\n" + hintStyle.Render("  No incomes yet. Press a to add one.")
	}

	innerW := components.CardInnerWidth(cw)

	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	mainStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)

	nameW := innerW / 3
	if nameW < 12 {
		nameW = 12
	}

	var b strings.Builder
	for i, inc := range data.incomes {
		marker := "  "
		if inc.IsMain {
			marker = mainStyle.Render("★ ")
		}

		line := fmt.Sprintf("%-*s %12s  %-9s next %s",
			nameW, truncStr(inc.Name, nameW),
			cli.FormatMoney(inc.Amount, symbol),
			inc.PayCycle,
			cli.FormatShortDate(inc.NextPayDate))

		if i == a.incomeCursor {
			b.WriteString(marker + selStyle.Render(line))
		} else if inc.IsMain {
			b.WriteString(marker + rowStyle.Render(line))
		} else {
			b.WriteString(marker + mutedStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("a add · m make main · d delete · j/k move"))

	return components.ContentCard(
		fmt.Sprintf("Incomes (%d)", len(data.incomes)),
		b.String(),
		cw,
	)
}
