package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cycle is the derived accounting window of the main income. It is never
// persisted; it is recomputed from the main income and "today" on every read.
type Cycle struct {
	Start         time.Time
	End           time.Time
	Kind          PayCycle
	RemainingDays int
	TotalIncome   decimal.Decimal
}

// Contains reports whether day falls within [Start, End] inclusive.
func (c Cycle) Contains(day time.Time) bool {
	return !day.Before(c.Start) && !day.After(c.End)
}

// CycleResult is the outcome of resolving the active cycle. A nil Cycle is
// the no-main-income state, which downstream consumers render as onboarding,
// not as an error.
type CycleResult struct {
	Main  *Income
	Cycle *Cycle
}

// HasMain reports whether a main income was found and a cycle derived.
func (r CycleResult) HasMain() bool {
	return r.Main != nil && r.Cycle != nil
}

// Allocation is the budget/spent/remaining view for one bucket within a cycle.
// Remaining may be negative; overspend is representable and never clamped.
// Progress is a display value capped at 100.
type Allocation struct {
	Category  Category
	Percent   int
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Progress  int
}
