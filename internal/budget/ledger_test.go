package budget

import (
	"testing"

	"github.com/shopspring/decimal"

	"cadence/internal/model"
)

func testCycle(t *testing.T, income int64) model.Cycle {
	t.Helper()
	return model.Cycle{
		Start:       date(t, "2025-03-01"),
		End:         date(t, "2025-03-31"),
		Kind:        model.PayCycleMonthly,
		TotalIncome: decimal.NewFromInt(income),
	}
}

func allocFor(t *testing.T, allocs []model.Allocation, cat model.Category) model.Allocation {
	t.Helper()
	for _, a := range allocs {
		if a.Category == cat {
			return a
		}
	}
	t.Fatalf("no allocation for %s", cat)
	return model.Allocation{}
}

func TestAggregateBudgetsFromRatio(t *testing.T) {
	cycle := testCycle(t, 3000)
	ratio := model.Ratio{Needs: 50, Wants: 30, Savings: 20}

	allocs := Aggregate(cycle, ratio, nil)
	if len(allocs) != 3 {
		t.Fatalf("got %d allocations, want 3", len(allocs))
	}

	wantBudgets := map[model.Category]int64{
		model.CategoryNeeds:   1500,
		model.CategoryWants:   900,
		model.CategorySavings: 600,
	}
	for cat, want := range wantBudgets {
		a := allocFor(t, allocs, cat)
		if !a.Budget.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("%s budget = %s, want %d", cat, a.Budget, want)
		}
		if !a.Spent.IsZero() {
			t.Fatalf("%s spent = %s, want 0", cat, a.Spent)
		}
		if !a.Remaining.Equal(a.Budget) {
			t.Fatalf("%s remaining = %s, want full budget", cat, a.Remaining)
		}
		if a.Progress != 0 {
			t.Fatalf("%s progress = %d, want 0", cat, a.Progress)
		}
	}
}

func TestAggregateRoundsBudgets(t *testing.T) {
	cycle := testCycle(t, 0)
	cycle.TotalIncome = decimal.RequireFromString("1234.55")
	ratio := model.Ratio{Needs: 33, Wants: 33, Savings: 34}

	allocs := Aggregate(cycle, ratio, nil)
	needs := allocFor(t, allocs, model.CategoryNeeds)
	// 1234.55 * 0.33 = 407.4015 -> 407.40
	if !needs.Budget.Equal(decimal.RequireFromString("407.40")) {
		t.Fatalf("needs budget = %s, want 407.40", needs.Budget)
	}
	savings := allocFor(t, allocs, model.CategorySavings)
	// 1234.55 * 0.34 = 419.747 -> 419.75
	if !savings.Budget.Equal(decimal.RequireFromString("419.75")) {
		t.Fatalf("savings budget = %s, want 419.75", savings.Budget)
	}
}

func TestAggregateSpendAndOverspend(t *testing.T) {
	cycle := testCycle(t, 1000)
	ratio := model.Ratio{Needs: 50, Wants: 30, Savings: 20}

	expenses := []model.Expense{
		{Name: "groceries", Amount: decimal.NewFromInt(120), SpendFrom: model.CategoryNeeds,
			Type: model.ExpenseOneTime, CreatedAt: date(t, "2025-03-05")},
		{Name: "rent", Amount: decimal.NewFromInt(450), SpendFrom: model.CategoryNeeds,
			Type: model.ExpenseOneTime, CreatedAt: date(t, "2025-03-01")},
		{Name: "concert", Amount: decimal.NewFromInt(380), SpendFrom: model.CategoryWants,
			Type: model.ExpenseOneTime, CreatedAt: date(t, "2025-03-20")},
		// outside the window, must be ignored
		{Name: "old", Amount: decimal.NewFromInt(999), SpendFrom: model.CategoryNeeds,
			Type: model.ExpenseOneTime, CreatedAt: date(t, "2025-02-27")},
	}

	allocs := Aggregate(cycle, ratio, expenses)

	needs := allocFor(t, allocs, model.CategoryNeeds)
	if !needs.Spent.Equal(decimal.NewFromInt(570)) {
		t.Fatalf("needs spent = %s, want 570", needs.Spent)
	}
	// overspend: budget 500, spent 570
	if !needs.Remaining.Equal(decimal.NewFromInt(-70)) {
		t.Fatalf("needs remaining = %s, want -70 (not clamped)", needs.Remaining)
	}
	if needs.Progress != 100 {
		t.Fatalf("needs progress = %d, want 100 (display cap)", needs.Progress)
	}

	wants := allocFor(t, allocs, model.CategoryWants)
	if wants.Progress != 100 {
		// 380/300 caps at 100
		t.Fatalf("wants progress = %d, want 100", wants.Progress)
	}

	savings := allocFor(t, allocs, model.CategorySavings)
	if !savings.Remaining.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("savings remaining = %s, want 200", savings.Remaining)
	}

	if !TotalSpent(allocs).Equal(decimal.NewFromInt(950)) {
		t.Fatalf("TotalSpent = %s, want 950", TotalSpent(allocs))
	}
	if !TotalRemaining(allocs).Equal(decimal.NewFromInt(50)) {
		t.Fatalf("TotalRemaining = %s, want 50", TotalRemaining(allocs))
	}
}

func TestAggregateZeroBudgetNoDivideByZero(t *testing.T) {
	cycle := testCycle(t, 1000)
	ratio := model.Ratio{Needs: 100} // wants and savings get zero budget

	expenses := []model.Expense{
		{Name: "impulse", Amount: decimal.NewFromInt(40), SpendFrom: model.CategoryWants,
			Type: model.ExpenseOneTime, CreatedAt: date(t, "2025-03-05")},
	}

	allocs := Aggregate(cycle, ratio, expenses)
	wants := allocFor(t, allocs, model.CategoryWants)
	if wants.Progress != 0 {
		t.Fatalf("zero-budget progress = %d, want 0", wants.Progress)
	}
	if !wants.Remaining.Equal(decimal.NewFromInt(-40)) {
		t.Fatalf("zero-budget remaining = %s, want -40", wants.Remaining)
	}
}

func TestCategoryOf(t *testing.T) {
	e := model.Expense{SpendFrom: model.CategorySavings}
	if CategoryOf(e) != model.CategorySavings {
		t.Fatalf("CategoryOf = %s, want savings", CategoryOf(e))
	}
}

func TestInCycleOneTime(t *testing.T) {
	w := Window{Start: date(t, "2025-03-01"), End: date(t, "2025-03-31")}

	tests := []struct {
		name string
		day  string
		want bool
	}{
		{"inside", "2025-03-15", true},
		{"on start", "2025-03-01", true},
		{"on end", "2025-03-31", true},
		{"before", "2025-02-28", false},
		{"after", "2025-04-01", false},
	}
	for _, tt := range tests {
		e := model.Expense{Type: model.ExpenseOneTime, CreatedAt: date(t, tt.day)}
		if got := InCycle(e, w); got != tt.want {
			t.Fatalf("%s: InCycle = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInCycleRecurring(t *testing.T) {
	w := Window{Start: date(t, "2025-03-01"), End: date(t, "2025-03-31")}

	tests := []struct {
		name     string
		payCycle model.PayCycle
		next     string
		want     bool
	}{
		{"monthly inside window", model.PayCycleMonthly, "2025-03-10", true},
		{"monthly scheduled before window still recurs into it", model.PayCycleMonthly, "2025-01-10", true},
		{"monthly first due after window", model.PayCycleMonthly, "2025-04-10", false},
		{"weekly always lands in a month window", model.PayCycleWeekly, "2024-11-04", true},
	}
	for _, tt := range tests {
		e := model.Expense{
			Type:            model.ExpenseRecurring,
			PayCycle:        tt.payCycle,
			NextPaymentDate: date(t, tt.next),
		}
		if got := InCycle(e, w); got != tt.want {
			t.Fatalf("%s: InCycle = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInCycleRecurringBadShape(t *testing.T) {
	w := Window{Start: date(t, "2025-03-01"), End: date(t, "2025-03-31")}
	e := model.Expense{Type: model.ExpenseRecurring, PayCycle: model.PayCycleOneTime,
		NextPaymentDate: date(t, "2025-03-10")}
	if InCycle(e, w) {
		t.Fatal("recurring expense with one-time cycle must not classify into a window")
	}
}
