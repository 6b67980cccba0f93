package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"cadence/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cadence.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLoadSnapshotEmpty(t *testing.T) {
	c := openTestCache(t)
	snap, err := c.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap != nil {
		t.Fatalf("fresh cache returned a snapshot: %+v", snap)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := openTestCache(t)

	payDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	in := Snapshot{
		Incomes: []model.Income{
			{ID: "i1", Name: "salary", Amount: decimal.RequireFromString("3200.50"),
				PayCycle: model.PayCycleMonthly, NextPayDate: payDate, IsMain: true},
			{ID: "i2", Amount: decimal.NewFromInt(150), PayCycle: model.PayCycleOneTime,
				NextPayDate: payDate},
		},
		Expenses: []model.Expense{
			{ID: "e1", Name: "rent", Amount: decimal.NewFromInt(900),
				Category: model.ExpenseHousing, SpendFrom: model.CategoryNeeds,
				Type: model.ExpenseRecurring, PayCycle: model.PayCycleMonthly,
				NextPaymentDate: payDate},
			{ID: "e2", Name: "coffee", Amount: decimal.RequireFromString("4.80"),
				Category: model.ExpenseFood, SpendFrom: model.CategoryWants,
				Type: model.ExpenseOneTime, Note: "oat milk",
				CreatedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		},
		Ratio:     model.Ratio{Needs: 50, Wants: 30, Savings: 20},
		FetchedAt: time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC),
	}

	if err := c.SaveSnapshot(in); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	out, err := c.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if out == nil {
		t.Fatal("LoadSnapshot returned nil after save")
	}

	if len(out.Incomes) != 2 || len(out.Expenses) != 2 {
		t.Fatalf("got %d incomes / %d expenses, want 2 / 2", len(out.Incomes), len(out.Expenses))
	}
	if out.Ratio != in.Ratio {
		t.Fatalf("ratio = %+v, want %+v", out.Ratio, in.Ratio)
	}
	if !out.FetchedAt.Equal(in.FetchedAt) {
		t.Fatalf("fetched at = %s, want %s", out.FetchedAt, in.FetchedAt)
	}

	var salary *model.Income
	for i := range out.Incomes {
		if out.Incomes[i].ID == "i1" {
			salary = &out.Incomes[i]
		}
	}
	if salary == nil {
		t.Fatal("income i1 missing from loaded snapshot")
	}
	if !salary.Amount.Equal(decimal.RequireFromString("3200.50")) {
		t.Fatalf("salary amount = %s, want 3200.50", salary.Amount)
	}
	if !salary.IsMain || salary.PayCycle != model.PayCycleMonthly {
		t.Fatalf("salary lost flags: %+v", salary)
	}
	if !salary.NextPayDate.Equal(payDate) {
		t.Fatalf("salary next pay date = %s, want %s", salary.NextPayDate, payDate)
	}

	var coffee *model.Expense
	for i := range out.Expenses {
		if out.Expenses[i].ID == "e2" {
			coffee = &out.Expenses[i]
		}
	}
	if coffee == nil {
		t.Fatal("expense e2 missing from loaded snapshot")
	}
	if coffee.Note != "oat milk" || coffee.SpendFrom != model.CategoryWants {
		t.Fatalf("coffee fields lost: %+v", coffee)
	}
	if !coffee.NextPaymentDate.IsZero() {
		t.Fatalf("one-time expense gained a payment date: %s", coffee.NextPaymentDate)
	}
}

func TestSaveSnapshotReplacesOldRows(t *testing.T) {
	c := openTestCache(t)

	first := Snapshot{
		Incomes:   []model.Income{{ID: "old", Amount: decimal.NewFromInt(1), PayCycle: model.PayCycleWeekly}},
		FetchedAt: time.Now(),
	}
	if err := c.SaveSnapshot(first); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	second := Snapshot{
		Incomes:   []model.Income{{ID: "new", Amount: decimal.NewFromInt(2), PayCycle: model.PayCycleWeekly}},
		FetchedAt: time.Now(),
	}
	if err := c.SaveSnapshot(second); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	out, err := c.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(out.Incomes) != 1 || out.Incomes[0].ID != "new" {
		t.Fatalf("stale rows survived: %+v", out.Incomes)
	}
}

func TestTokenLifecycle(t *testing.T) {
	c := openTestCache(t)

	tok, err := c.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "" {
		t.Fatalf("fresh cache has token %q", tok)
	}

	if err := c.SaveToken("tok-1"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	if err := c.SaveToken("tok-2"); err != nil {
		t.Fatalf("SaveToken replace: %v", err)
	}

	tok, err = c.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "tok-2" {
		t.Fatalf("token = %q, want tok-2", tok)
	}

	if err := c.ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	tok, err = c.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "" {
		t.Fatalf("token survived logout: %q", tok)
	}
}
