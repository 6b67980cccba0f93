package budget

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"cadence/internal/model"
)

func wantValidationErr(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	return verr
}

func TestValidateRatio(t *testing.T) {
	if err := ValidateRatio(model.Ratio{Needs: 50, Wants: 30, Savings: 20}); err != nil {
		t.Fatalf("valid ratio rejected: %v", err)
	}
	wantValidationErr(t, ValidateRatio(model.Ratio{Needs: 50, Wants: 30, Savings: 21}))
	wantValidationErr(t, ValidateRatio(model.Ratio{Needs: 120, Wants: -10, Savings: -10}))
}

func TestValidateIncome(t *testing.T) {
	today := date(t, "2025-03-10")
	valid := model.Income{
		Name:        "salary",
		Amount:      decimal.NewFromInt(3200),
		PayCycle:    model.PayCycleMonthly,
		NextPayDate: date(t, "2025-04-01"),
		IsMain:      true,
	}
	if err := ValidateIncome(valid, today); err != nil {
		t.Fatalf("valid income rejected: %v", err)
	}

	neg := valid
	neg.Amount = decimal.NewFromInt(-5)
	wantValidationErr(t, ValidateIncome(neg, today))

	zero := valid
	zero.Amount = decimal.Zero
	wantValidationErr(t, ValidateIncome(zero, today))

	past := valid
	past.NextPayDate = date(t, "2025-03-01")
	wantValidationErr(t, ValidateIncome(past, today))

	badKind := valid
	badKind.PayCycle = model.PayCycle("quarterly")
	wantValidationErr(t, ValidateIncome(badKind, today))
}

func TestValidateIncomeOneTimeMain(t *testing.T) {
	inc := model.Income{
		Name:        "bonus",
		Amount:      decimal.NewFromInt(500),
		PayCycle:    model.PayCycleOneTime,
		NextPayDate: date(t, "2025-03-20"),
		IsMain:      true,
	}
	verr := wantValidationErr(t, ValidateIncome(inc, date(t, "2025-03-10")))
	if verr.Field != "is_main" {
		t.Fatalf("error field = %s, want is_main", verr.Field)
	}

	// same income without the main flag is fine
	inc.IsMain = false
	if err := ValidateIncome(inc, date(t, "2025-03-10")); err != nil {
		t.Fatalf("one-time non-main income rejected: %v", err)
	}
}

func TestValidateExpense(t *testing.T) {
	today := date(t, "2025-03-10")
	oneTime := model.Expense{
		Name:      "groceries",
		Amount:    decimal.RequireFromString("42.50"),
		SpendFrom: model.CategoryNeeds,
		Type:      model.ExpenseOneTime,
		CreatedAt: today,
	}
	if err := ValidateExpense(oneTime, today); err != nil {
		t.Fatalf("valid one-time expense rejected: %v", err)
	}

	recurring := model.Expense{
		Name:            "gym",
		Amount:          decimal.NewFromInt(35),
		SpendFrom:       model.CategoryWants,
		Type:            model.ExpenseRecurring,
		PayCycle:        model.PayCycleMonthly,
		NextPaymentDate: date(t, "2025-04-01"),
	}
	if err := ValidateExpense(recurring, today); err != nil {
		t.Fatalf("valid recurring expense rejected: %v", err)
	}

	noName := oneTime
	noName.Name = ""
	wantValidationErr(t, ValidateExpense(noName, today))

	neg := oneTime
	neg.Amount = decimal.NewFromInt(-1)
	wantValidationErr(t, ValidateExpense(neg, today))

	badBucket := oneTime
	badBucket.SpendFrom = model.Category("fun")
	wantValidationErr(t, ValidateExpense(badBucket, today))

	pastRecurring := recurring
	pastRecurring.NextPaymentDate = date(t, "2025-02-01")
	wantValidationErr(t, ValidateExpense(pastRecurring, today))

	badRecurring := recurring
	badRecurring.PayCycle = model.PayCycleOneTime
	wantValidationErr(t, ValidateExpense(badRecurring, today))

	badType := oneTime
	badType.Type = model.ExpenseType("weekly")
	wantValidationErr(t, ValidateExpense(badType, today))
}
