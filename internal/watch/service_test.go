package watch

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cadence/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mainSnapshot(t *testing.T, start, end string) Snapshot {
	t.Helper()
	return Snapshot{
		HasMain:     true,
		CycleStart:  date(t, start),
		CycleEnd:    date(t, end),
		TotalIncome: dec("3000"),
	}
}

func TestDiffSnapshotsSpendMovement(t *testing.T) {
	prev := mainSnapshot(t, "2025-03-01", "2025-03-31")
	prev.SpentNeeds = dec("100")
	prev.SpentWants = dec("50")

	curr := mainSnapshot(t, "2025-03-01", "2025-03-31")
	curr.SpentNeeds = dec("150")
	curr.SpentWants = dec("50")
	curr.SpentSavings = dec("20")

	d := diffSnapshots(prev, curr)
	if !d.Needs.Equal(dec("50")) {
		t.Fatalf("needs delta = %s, want 50", d.Needs)
	}
	if !d.Wants.IsZero() {
		t.Fatalf("wants delta = %s, want 0", d.Wants)
	}
	if !d.Savings.Equal(dec("20")) {
		t.Fatalf("savings delta = %s, want 20", d.Savings)
	}
	if d.isZero() {
		t.Fatal("delta should not be zero")
	}
}

func TestDiffEventsSpendDelta(t *testing.T) {
	prev := mainSnapshot(t, "2025-03-01", "2025-03-31")
	curr := mainSnapshot(t, "2025-03-01", "2025-03-31")
	curr.SpentWants = dec("75.50")

	events := diffEvents(prev, curr, time.Now())
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventSpendDelta {
		t.Fatalf("event type = %q, want %q", events[0].Type, EventSpendDelta)
	}
	if !events[0].Delta.Wants.Equal(dec("75.50")) {
		t.Fatalf("wants delta = %s, want 75.50", events[0].Delta.Wants)
	}
}

func TestDiffEventsNoChange(t *testing.T) {
	snap := mainSnapshot(t, "2025-03-01", "2025-03-31")
	snap.SpentNeeds = dec("200")

	events := diffEvents(snap, snap, time.Now())
	if len(events) != 0 {
		t.Fatalf("got %d events, want none", len(events))
	}
}

func TestDiffEventsRollover(t *testing.T) {
	prev := mainSnapshot(t, "2025-03-01", "2025-03-31")
	prev.SpentNeeds = dec("900")

	curr := mainSnapshot(t, "2025-04-01", "2025-04-30")

	events := diffEvents(prev, curr, time.Now())
	if len(events) != 2 {
		t.Fatalf("got %d events, want rollover + spend delta", len(events))
	}
	if events[0].Type != EventRollover {
		t.Fatalf("first event = %q, want %q", events[0].Type, EventRollover)
	}
	if events[1].Type != EventSpendDelta {
		t.Fatalf("second event = %q, want %q", events[1].Type, EventSpendDelta)
	}
	if !events[1].Delta.Needs.Equal(dec("-900")) {
		t.Fatalf("needs delta = %s, want -900 after reset", events[1].Delta.Needs)
	}
}

func TestDiffEventsOverspendOnce(t *testing.T) {
	prev := mainSnapshot(t, "2025-03-01", "2025-03-31")
	prev.SpentWants = dec("950")

	curr := mainSnapshot(t, "2025-03-01", "2025-03-31")
	curr.SpentWants = dec("1000")
	curr.Overspent = []model.Category{model.CategoryWants}

	events := diffEvents(prev, curr, time.Now())
	if len(events) != 2 {
		t.Fatalf("got %d events, want spend delta + overspend", len(events))
	}
	if events[1].Type != EventOverspend {
		t.Fatalf("second event = %q, want %q", events[1].Type, EventOverspend)
	}
	if events[1].Category != model.CategoryWants {
		t.Fatalf("overspend category = %q, want wants", events[1].Category)
	}

	// Already-overspent buckets do not re-fire.
	next := curr
	next.SpentWants = dec("1100")
	events = diffEvents(curr, next, time.Now())
	if len(events) != 1 || events[0].Type != EventSpendDelta {
		t.Fatalf("re-poll of overspent bucket should only emit spend delta, got %v", events)
	}
}

func TestDiffEventsMainIncomeRemoved(t *testing.T) {
	prev := mainSnapshot(t, "2025-03-01", "2025-03-31")
	curr := Snapshot{At: time.Now()}

	events := diffEvents(prev, curr, time.Now())
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventNoMainIncome {
		t.Fatalf("event type = %q, want %q", events[0].Type, EventNoMainIncome)
	}
}

type fakeFetcher struct {
	incomes  []model.Income
	expenses []model.Expense
	ratio    model.Ratio
}

func (f *fakeFetcher) ListIncomes(ctx context.Context) ([]model.Income, error) {
	return f.incomes, nil
}

func (f *fakeFetcher) ListExpenses(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	return f.expenses, nil
}

func (f *fakeFetcher) GetRatio(ctx context.Context) (model.Ratio, error) {
	return f.ratio, nil
}

func TestPollOncePublishesInitialSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{
		incomes: []model.Income{{
			ID:          "1",
			Name:        "Salary",
			Amount:      dec("3000"),
			PayCycle:    model.PayCycleMonthly,
			NextPayDate: time.Now().AddDate(0, 1, 0),
			IsMain:      true,
		}},
		ratio: model.DefaultRatio,
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := New(Config{Fetcher: fetcher, Interval: time.Minute, Log: log})

	ch, cancel := svc.Subscribe()
	defer cancel()

	svc.pollOnce(context.Background())

	select {
	case ev := <-ch:
		if ev.Type != EventSnapshot {
			t.Fatalf("event type = %q, want %q", ev.Type, EventSnapshot)
		}
		if !ev.Snapshot.HasMain {
			t.Fatal("snapshot should have main income")
		}
		if !ev.Snapshot.TotalIncome.Equal(dec("3000")) {
			t.Fatalf("total income = %s, want 3000", ev.Snapshot.TotalIncome)
		}
	default:
		t.Fatal("expected an initial snapshot event")
	}

	snap, ok := svc.LastSnapshot()
	if !ok || !snap.HasMain {
		t.Fatal("LastSnapshot should return the polled state")
	}

	if got := svc.Events(); len(got) != 1 {
		t.Fatalf("event buffer has %d entries, want 1", len(got))
	}
}

func TestPollOnceWithoutMainIncome(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := New(Config{Fetcher: &fakeFetcher{ratio: model.DefaultRatio}, Interval: time.Minute, Log: log})

	svc.pollOnce(context.Background())

	snap, ok := svc.LastSnapshot()
	if !ok {
		t.Fatal("expected a snapshot even without a main income")
	}
	if snap.HasMain {
		t.Fatal("snapshot should not report a main income")
	}
}
