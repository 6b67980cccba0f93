package budget

import (
	"time"

	"cadence/internal/model"
)

// Resolve scans incomes for the single main income and derives the active
// cycle window from its pay schedule. A result with no cycle is the
// no-main-income state: a valid, displayable outcome, not an error.
//
// The income-mutation boundary guarantees at most one main income and that
// the main income is recurring; Resolve still fails fast with a
// ValidationError if handed data that breaks those invariants.
func Resolve(incomes []model.Income, today time.Time) (model.CycleResult, error) {
	var main *model.Income
	for i := range incomes {
		if !incomes[i].IsMain {
			continue
		}
		if main != nil {
			return model.CycleResult{}, validationErr("incomes", "more than one income marked main")
		}
		main = &incomes[i]
	}

	if main == nil {
		return model.CycleResult{}, nil
	}
	if !main.PayCycle.Recurring() {
		return model.CycleResult{}, validationErr("pay_cycle", "main income cannot be %q", main.PayCycle)
	}

	w, err := CurrentCycle(main.PayCycle, main.NextPayDate, today)
	if err != nil {
		return model.CycleResult{}, err
	}

	cycle := &model.Cycle{
		Start:         w.Start,
		End:           w.End,
		Kind:          main.PayCycle,
		RemainingDays: daysBetween(midnight(today), w.End),
		TotalIncome:   main.Amount,
	}
	return model.CycleResult{Main: main, Cycle: cycle}, nil
}
