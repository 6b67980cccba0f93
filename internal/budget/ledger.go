package budget

import (
	"github.com/shopspring/decimal"

	"cadence/internal/model"
)

var hundred = decimal.NewFromInt(100)

// CategoryOf returns the allocation bucket the expense draws from. No
// inference: an expense always names its bucket explicitly.
func CategoryOf(e model.Expense) model.Category {
	return e.SpendFrom
}

// InCycle reports whether the expense is attributed to the cycle window.
//
// A one-time expense belongs to the cycle iff its attribution date falls
// within [Start, End] inclusive. A recurring expense belongs iff its schedule
// produces at least one occurrence inside the window; it counts once per
// cycle regardless of how many occurrences land in the window.
func InCycle(e model.Expense, w Window) bool {
	if e.Type == model.ExpenseRecurring {
		if !e.PayCycle.Recurring() {
			return false
		}
		// The series starts at the scheduled payment date; nothing occurs
		// before it.
		if first := midnight(e.NextPaymentDate); first.After(w.Start) {
			return !first.After(w.End)
		}
		next, err := NextOccurrence(e.PayCycle, e.NextPaymentDate, w.Start)
		if err != nil {
			return false
		}
		return !next.After(w.End)
	}
	return w.Contains(e.CreatedAt)
}

// Aggregate computes the three allocations for the cycle: per-bucket budget
// from the ratio, spend from the classified expenses, and the remainder.
// Remaining may go negative on overspend and is never clamped; Progress is a
// display value capped at 100.
func Aggregate(cycle model.Cycle, ratio model.Ratio, expenses []model.Expense) []model.Allocation {
	w := Window{Start: cycle.Start, End: cycle.End}

	allocs := make([]model.Allocation, 0, len(model.Categories))
	for _, cat := range model.Categories {
		pct := ratio.Percent(cat)
		budgetAmt := cycle.TotalIncome.
			Mul(decimal.NewFromInt(int64(pct))).
			Div(hundred).
			Round(2)

		spent := decimal.Zero
		for _, e := range expenses {
			if CategoryOf(e) == cat && InCycle(e, w) {
				spent = spent.Add(e.Amount)
			}
		}

		allocs = append(allocs, model.Allocation{
			Category:  cat,
			Percent:   pct,
			Budget:    budgetAmt,
			Spent:     spent,
			Remaining: budgetAmt.Sub(spent),
			Progress:  progressPercent(spent, budgetAmt),
		})
	}
	return allocs
}

// TotalSpent sums spend across allocations.
func TotalSpent(allocs []model.Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Spent)
	}
	return total
}

// TotalRemaining sums remaining budget across allocations. Negative buckets
// drag the total down; overspend stays visible.
func TotalRemaining(allocs []model.Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Remaining)
	}
	return total
}

// progressPercent is 0 for a zero budget (no divide-by-zero) and otherwise
// spent/budget rounded to a whole percent and capped at 100 for display.
func progressPercent(spent, budgetAmt decimal.Decimal) int {
	if !budgetAmt.IsPositive() {
		return 0
	}
	p := spent.Mul(hundred).Div(budgetAmt).Round(0).IntPart()
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return int(p)
}
