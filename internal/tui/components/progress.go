package components

import (
	"fmt"
	"strings"

	"cadence/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a simple progress bar with percentage. pct is 0..1.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	barColor := lipgloss.Color(ColorForPct(pct))
	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// ColorForPct returns green/orange/red by how much of a budget is used.
// Thresholds match the CLI progress bars.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.8:
		return string(t.Red)
	case pct >= 0.5:
		return string(t.Orange)
	default:
		return string(t.Green)
	}
}

// BucketBar renders a labeled budget-bucket bar with spent/budget amounts.
// pct is the display progress 0-100; amounts are pre-formatted strings.
func BucketBar(label string, pct int, spent, budgetAmt string, labelW, barWidth int) string {
	t := theme.Active

	frac := float64(pct) / 100
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(frac)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(frac))).Background(t.Surface).Bold(true)
	amountStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(frac) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3d%%", pct)) +
		spaceStyle.Render("  ") +
		amountStyle.Render(spent+" / "+budgetAmt)
}
