package tui

import (
	"fmt"
	"strings"

	"cadence/internal/cli"
	"cadence/internal/model"
	"cadence/internal/tui/components"
	"cadence/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderExpensesTab(cw int) string {
	t := theme.Active
	data := a.data
	symbol := a.cfg.General.CurrencySymbol

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	if data == nil || !data.result.HasMain() {
		return "\n" + hintStyle.Render("  No active cycle. Set a main income first.")
	}
	if len(data.expenses) == 0 {
		return "\n" + hintStyle.Render("  No expenses this cycle. Press a to record one.")
	}

	innerW := components.CardInnerWidth(cw)

	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	bucketStyles := map[model.Category]lipgloss.Style{
		model.CategoryNeeds:   lipgloss.NewStyle().Foreground(t.Blue),
		model.CategoryWants:   lipgloss.NewStyle().Foreground(t.Magenta),
		model.CategorySavings: lipgloss.NewStyle().Foreground(t.Green),
	}

	nameW := innerW / 3
	if nameW < 12 {
		nameW = 12
	}

	var b strings.Builder
	for i, e := range data.expenses {
		when := cli.FormatShortDate(e.CreatedAt)
		kind := "one-time"
		if e.Type == model.ExpenseRecurring {
			when = cli.FormatShortDate(e.NextPaymentDate)
			kind = string(e.PayCycle)
		}

		line := fmt.Sprintf("%-*s %12s  %-9s %s",
			nameW, truncStr(e.Name, nameW),
			cli.FormatMoney(e.Amount, symbol),
			kind,
			when)

		bucket := bucketStyles[e.SpendFrom].Render(fmt.Sprintf("%-8s", e.SpendFrom))

		if i == a.expenseCursor {
			b.WriteString(" " + bucket + selStyle.Render(line))
		} else {
			b.WriteString(" " + bucket + rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("a add · d delete · j/k move"))

	return components.ContentCard(
		fmt.Sprintf("Expenses (%d this cycle)", len(data.expenses)),
		b.String(),
		cw,
	)
}
