// Package model defines domain types for cadence incomes, expenses, and cycles.
package model

// PayCycle is the recurrence schedule of an income or a recurring expense.
type PayCycle string

const (
	PayCycleWeekly   PayCycle = "weekly"
	PayCycleBiweekly PayCycle = "biweekly"
	PayCycleMonthly  PayCycle = "monthly"
	PayCycleOneTime  PayCycle = "one-time"
)

// Recurring reports whether the cycle repeats.
func (p PayCycle) Recurring() bool {
	switch p {
	case PayCycleWeekly, PayCycleBiweekly, PayCycleMonthly:
		return true
	}
	return false
}

// Valid reports whether p is one of the known pay cycle kinds.
func (p PayCycle) Valid() bool {
	return p.Recurring() || p == PayCycleOneTime
}

// PayCycles lists all valid kinds, in display order.
var PayCycles = []PayCycle{PayCycleWeekly, PayCycleBiweekly, PayCycleMonthly, PayCycleOneTime}
