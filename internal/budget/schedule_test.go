package budget

import (
	"testing"
	"time"

	"cadence/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestCurrentCycleWeekly(t *testing.T) {
	tests := []struct {
		name      string
		anchor    string
		today     string
		wantStart string
		wantEnd   string
	}{
		{"today on anchor", "2025-03-07", "2025-03-07", "2025-03-07", "2025-03-13"},
		{"anchor in future", "2025-03-14", "2025-03-10", "2025-03-07", "2025-03-13"},
		{"anchor far in past", "2025-01-03", "2025-03-10", "2025-03-07", "2025-03-13"},
		{"today on last day", "2025-03-07", "2025-03-13", "2025-03-07", "2025-03-13"},
		{"today on next boundary", "2025-03-07", "2025-03-14", "2025-03-14", "2025-03-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := CurrentCycle(model.PayCycleWeekly, date(t, tt.anchor), date(t, tt.today))
			if err != nil {
				t.Fatalf("CurrentCycle returned error: %v", err)
			}
			if !w.Start.Equal(date(t, tt.wantStart)) || !w.End.Equal(date(t, tt.wantEnd)) {
				t.Fatalf("window = [%s, %s], want [%s, %s]",
					w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"),
					tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestCurrentCycleBiweekly(t *testing.T) {
	w, err := CurrentCycle(model.PayCycleBiweekly, date(t, "2025-03-21"), date(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("CurrentCycle returned error: %v", err)
	}
	if !w.Start.Equal(date(t, "2025-03-07")) || !w.End.Equal(date(t, "2025-03-20")) {
		t.Fatalf("window = [%s, %s], want [2025-03-07, 2025-03-20]",
			w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
	if w.Days() != 14 {
		t.Fatalf("Days() = %d, want 14", w.Days())
	}
}

func TestCurrentCycleMonthlyClampsFebruary(t *testing.T) {
	// Anchored on Jan 31: the February boundary clamps to Feb 28.
	w, err := CurrentCycle(model.PayCycleMonthly, date(t, "2025-01-31"), date(t, "2025-02-15"))
	if err != nil {
		t.Fatalf("CurrentCycle returned error: %v", err)
	}
	if !w.Start.Equal(date(t, "2025-01-31")) {
		t.Fatalf("start = %s, want 2025-01-31", w.Start.Format("2006-01-02"))
	}
	if !w.End.Equal(date(t, "2025-02-27")) {
		t.Fatalf("end = %s, want 2025-02-27", w.End.Format("2006-01-02"))
	}
	lastFeb := date(t, "2025-02-28")
	if w.End.After(lastFeb) {
		t.Fatalf("end %s spills past February", w.End.Format("2006-01-02"))
	}
}

func TestCurrentCycleMonthlyLeapYear(t *testing.T) {
	w, err := CurrentCycle(model.PayCycleMonthly, date(t, "2024-01-30"), date(t, "2024-02-29"))
	if err != nil {
		t.Fatalf("CurrentCycle returned error: %v", err)
	}
	if !w.Start.Equal(date(t, "2024-02-29")) {
		t.Fatalf("start = %s, want 2024-02-29 (clamped from 30)", w.Start.Format("2006-01-02"))
	}
	if !w.End.Equal(date(t, "2024-03-29")) {
		t.Fatalf("end = %s, want 2024-03-29", w.End.Format("2006-01-02"))
	}
}

func TestCurrentCycleMonthlyMidMonthAnchor(t *testing.T) {
	w, err := CurrentCycle(model.PayCycleMonthly, date(t, "2025-06-15"), date(t, "2025-06-10"))
	if err != nil {
		t.Fatalf("CurrentCycle returned error: %v", err)
	}
	if !w.Start.Equal(date(t, "2025-05-15")) || !w.End.Equal(date(t, "2025-06-14")) {
		t.Fatalf("window = [%s, %s], want [2025-05-15, 2025-06-14]",
			w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
}

func TestCurrentCycleOneTime(t *testing.T) {
	w, err := CurrentCycle(model.PayCycleOneTime, date(t, "2025-04-01"), date(t, "2025-04-20"))
	if err != nil {
		t.Fatalf("CurrentCycle returned error: %v", err)
	}
	if !w.Start.Equal(w.End) || !w.Start.Equal(date(t, "2025-04-01")) {
		t.Fatalf("one-time window = [%s, %s], want single day 2025-04-01",
			w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
}

func TestCurrentCycleUnknownKind(t *testing.T) {
	_, err := CurrentCycle(model.PayCycle("quarterly"), date(t, "2025-01-01"), date(t, "2025-01-02"))
	if err == nil {
		t.Fatal("expected error for unknown cycle kind")
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		kind   model.PayCycle
		anchor string
		from   string
		want   string
	}{
		{"weekly forward", model.PayCycleWeekly, "2025-03-07", "2025-03-10", "2025-03-14"},
		{"weekly on boundary", model.PayCycleWeekly, "2025-03-07", "2025-03-14", "2025-03-14"},
		{"weekly anchor ahead", model.PayCycleWeekly, "2025-06-06", "2025-03-10", "2025-03-14"},
		{"biweekly", model.PayCycleBiweekly, "2025-03-07", "2025-03-22", "2025-04-04"},
		{"monthly", model.PayCycleMonthly, "2025-01-15", "2025-03-20", "2025-04-15"},
		{"monthly clamps", model.PayCycleMonthly, "2025-01-31", "2025-02-01", "2025-02-28"},
		{"monthly anchor ahead", model.PayCycleMonthly, "2025-12-10", "2025-03-05", "2025-03-10"},
		{"one-time", model.PayCycleOneTime, "2025-05-01", "2025-03-01", "2025-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.kind, date(t, tt.anchor), date(t, tt.from))
			if err != nil {
				t.Fatalf("NextOccurrence returned error: %v", err)
			}
			if !got.Equal(date(t, tt.want)) {
				t.Fatalf("NextOccurrence = %s, want %s", got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestValidateFuturePayDate(t *testing.T) {
	today := date(t, "2025-03-10")

	if !ValidateFuturePayDate(model.PayCycleWeekly, date(t, "2025-03-10"), today) {
		t.Fatal("today should be a valid pay date")
	}
	if !ValidateFuturePayDate(model.PayCycleMonthly, date(t, "2025-04-01"), today) {
		t.Fatal("future date should be valid")
	}
	if ValidateFuturePayDate(model.PayCycleWeekly, date(t, "2025-03-09"), today) {
		t.Fatal("past date should be rejected")
	}
	if ValidateFuturePayDate(model.PayCycle("quarterly"), date(t, "2025-04-01"), today) {
		t.Fatal("unknown kind should be rejected")
	}
}
