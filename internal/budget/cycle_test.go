package budget

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"cadence/internal/model"
)

func TestResolveNoIncomes(t *testing.T) {
	res, err := Resolve(nil, date(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.HasMain() {
		t.Fatalf("Resolve with no incomes reported a main income: %+v", res)
	}
}

func TestResolveNoMainIncome(t *testing.T) {
	incomes := []model.Income{
		{ID: "a", Amount: decimal.NewFromInt(2000), PayCycle: model.PayCycleMonthly, NextPayDate: date(t, "2025-04-01")},
		{ID: "b", Amount: decimal.NewFromInt(150), PayCycle: model.PayCycleOneTime, NextPayDate: date(t, "2025-03-20")},
	}
	res, err := Resolve(incomes, date(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.HasMain() {
		t.Fatal("no income is marked main, but Resolve found one")
	}
}

func TestResolveMainIncome(t *testing.T) {
	incomes := []model.Income{
		{ID: "side", Amount: decimal.NewFromInt(300), PayCycle: model.PayCycleWeekly, NextPayDate: date(t, "2025-03-14")},
		{ID: "salary", Amount: decimal.NewFromInt(3200), PayCycle: model.PayCycleMonthly, NextPayDate: date(t, "2025-04-01"), IsMain: true},
	}
	res, err := Resolve(incomes, date(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !res.HasMain() {
		t.Fatal("Resolve did not find the main income")
	}
	if res.Main.ID != "salary" {
		t.Fatalf("main income = %s, want salary", res.Main.ID)
	}

	c := res.Cycle
	if !c.Start.Equal(date(t, "2025-03-01")) || !c.End.Equal(date(t, "2025-03-31")) {
		t.Fatalf("cycle = [%s, %s], want [2025-03-01, 2025-03-31]",
			c.Start.Format("2006-01-02"), c.End.Format("2006-01-02"))
	}
	if c.RemainingDays != 21 {
		t.Fatalf("RemainingDays = %d, want 21", c.RemainingDays)
	}
	if !c.TotalIncome.Equal(decimal.NewFromInt(3200)) {
		t.Fatalf("TotalIncome = %s, want 3200", c.TotalIncome)
	}
	if c.Kind != model.PayCycleMonthly {
		t.Fatalf("Kind = %s, want monthly", c.Kind)
	}
}

func TestResolveRejectsTwoMains(t *testing.T) {
	incomes := []model.Income{
		{ID: "a", Amount: decimal.NewFromInt(1000), PayCycle: model.PayCycleWeekly, NextPayDate: date(t, "2025-03-14"), IsMain: true},
		{ID: "b", Amount: decimal.NewFromInt(1000), PayCycle: model.PayCycleWeekly, NextPayDate: date(t, "2025-03-14"), IsMain: true},
	}
	_, err := Resolve(incomes, date(t, "2025-03-10"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestResolveRejectsOneTimeMain(t *testing.T) {
	incomes := []model.Income{
		{ID: "bonus", Amount: decimal.NewFromInt(500), PayCycle: model.PayCycleOneTime, NextPayDate: date(t, "2025-03-20"), IsMain: true},
	}
	_, err := Resolve(incomes, date(t, "2025-03-10"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}
