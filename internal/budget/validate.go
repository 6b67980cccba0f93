package budget

import (
	"time"

	"cadence/internal/model"
)

// ValidateRatio checks a committed ratio: every leg in [0,100] and the legs
// summing to exactly 100. Transient UI states may violate this; a persisted
// ratio never does.
func ValidateRatio(r model.Ratio) error {
	for _, leg := range []struct {
		field RatioField
		value int
	}{
		{FieldNeeds, r.Needs},
		{FieldWants, r.Wants},
		{FieldSavings, r.Savings},
	} {
		if leg.value < 0 || leg.value > 100 {
			return validationErr(string(leg.field), "percentage %d out of range [0,100]", leg.value)
		}
	}
	if sum := r.Sum(); sum != 100 {
		return validationErr("ratio", "percentages sum to %d, want 100", sum)
	}
	return nil
}

// ValidateIncome checks a newly created or updated income before it is sent
// to the data service: positive amount, known pay cycle, pay date not in the
// past, and the one-time-as-main rule.
func ValidateIncome(inc model.Income, today time.Time) error {
	if !inc.Amount.IsPositive() {
		return validationErr("amount", "must be positive, got %s", inc.Amount)
	}
	if !inc.PayCycle.Valid() {
		return validationErr("pay_cycle", "unknown kind %q", inc.PayCycle)
	}
	if inc.IsMain && !inc.PayCycle.Recurring() {
		return validationErr("is_main", "a one-time income cannot be the main income")
	}
	if !ValidateFuturePayDate(inc.PayCycle, inc.NextPayDate, today) {
		return validationErr("next_pay_date", "%s is in the past", inc.NextPayDate.Format("2006-01-02"))
	}
	return nil
}

// ValidateExpense checks a newly created expense: positive amount, a known
// allocation bucket, and for recurring expenses a recurring pay cycle with a
// next payment date that is not in the past.
func ValidateExpense(e model.Expense, today time.Time) error {
	if e.Name == "" {
		return validationErr("name", "must not be empty")
	}
	if !e.Amount.IsPositive() {
		return validationErr("amount", "must be positive, got %s", e.Amount)
	}
	if !e.SpendFrom.Valid() {
		return validationErr("spend_from", "unknown bucket %q", e.SpendFrom)
	}

	switch e.Type {
	case model.ExpenseOneTime:
		return nil
	case model.ExpenseRecurring:
		if !e.PayCycle.Recurring() {
			return validationErr("pay_cycle", "recurring expense needs a recurring cycle, got %q", e.PayCycle)
		}
		if !ValidateFuturePayDate(e.PayCycle, e.NextPaymentDate, today) {
			return validationErr("next_payment_date", "%s is in the past", e.NextPaymentDate.Format("2006-01-02"))
		}
		return nil
	}
	return validationErr("expense_type", "unknown type %q", e.Type)
}
