package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cadence/internal/cli"
	"cadence/internal/model"
	"cadence/internal/tui/components"
	"cadence/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	data := a.data
	symbol := a.cfg.General.CurrencySymbol
	var b strings.Builder

	if data == nil || !data.result.HasMain() {
		hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
		return "\n" + hintStyle.Render("  No main income yet. Press i, then a to add one and mark it main.")
	}

	cycle := data.result.Cycle

	// Row 1: Metric cards
	spent := decimal.Zero
	remaining := decimal.Zero
	for _, al := range data.allocs {
		spent = spent.Add(al.Spent)
		remaining = remaining.Add(al.Remaining)
	}

	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(cycle.TotalIncome, symbol), Note: data.result.Main.Name},
		{Label: "Spent", Value: cli.FormatMoney(spent, symbol), Note: fmt.Sprintf("%d expenses", len(data.expenses))},
		{Label: "Remaining", Value: cli.FormatMoney(remaining, symbol), Note: "across all buckets"},
		{Label: "Days left", Value: cli.FormatDays(cycle.RemainingDays), Note: "ends " + cli.FormatShortDate(cycle.End)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Bucket bars
	innerW := components.CardInnerWidth(cw)
	barW := innerW - 40
	if barW < 10 {
		barW = 10
	}

	var bars strings.Builder
	for _, al := range data.allocs {
		label := fmt.Sprintf("%s %d%%", cli.TitleCase(string(al.Category)), al.Percent)
		bars.WriteString(components.BucketBar(
			label,
			al.Progress,
			cli.FormatMoney(al.Spent, symbol),
			cli.FormatMoney(al.Budget, symbol),
			12, barW,
		))
		bars.WriteString("\n")
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Buckets  %s – %s", cli.FormatShortDate(cycle.Start), cli.FormatShortDate(cycle.End)),
		bars.String(),
		cw,
	))
	b.WriteString("\n")

	// Row 3: Daily spending chart for the cycle
	vals, labels := dailySpend(data.expenses, cycle.Start, cycle.End)
	if len(vals) > 1 {
		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		b.WriteString(components.ContentCard(
			"Daily Spending",
			components.BarChart(vals, labels, t.Blue, innerW, chartH),
			cw,
		))
	}

	return b.String()
}

// dailySpend buckets one-time expenses by calendar day across the cycle.
// Recurring expenses are excluded; they are budget commitments, not daily
// spending activity.
func dailySpend(expenses []model.Expense, start, end time.Time) ([]float64, []string) {
	days := int(end.Sub(start).Hours()/24+0.5) + 1
	if days < 1 || days > 62 {
		return nil, nil
	}

	vals := make([]float64, days)
	labels := make([]string, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		if i == 0 || day.Day() == 1 {
			labels[i] = day.Format("Jan 2")
		} else {
			labels[i] = strconv.Itoa(day.Day())
		}
	}

	for _, e := range expenses {
		if e.Type != model.ExpenseOneTime {
			continue
		}
		idx := int(e.CreatedAt.Sub(start).Hours() / 24)
		if idx >= 0 && idx < days {
			f, _ := e.Amount.Float64()
			vals[idx] += f
		}
	}

	return vals, labels
}
