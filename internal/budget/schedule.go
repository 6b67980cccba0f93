package budget

import (
	"time"

	"cadence/internal/model"
)

// Window is a closed date interval [Start, End] at day granularity.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls within the window, inclusive.
func (w Window) Contains(day time.Time) bool {
	d := midnight(day)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the window length in days, inclusive of both ends.
func (w Window) Days() int {
	return daysBetween(w.Start, w.End) + 1
}

// CurrentCycle computes the period window containing today, anchored so that
// anchor (the next or most recent pay date) marks a period boundary.
//
// Weekly and biweekly windows step the anchor in fixed 7- or 14-day
// increments. Monthly boundaries fall on the anchor's day of month, clamped
// to the last day of shorter months, so an anchor on the 31st does not blow
// up in February. A one-time kind has no recurring cycle; its window is the
// single anchor day.
func CurrentCycle(kind model.PayCycle, anchor, today time.Time) (Window, error) {
	a := midnight(anchor)
	t := midnight(today)

	switch kind {
	case model.PayCycleWeekly:
		return fixedPeriodWindow(a, t, 7), nil
	case model.PayCycleBiweekly:
		return fixedPeriodWindow(a, t, 14), nil
	case model.PayCycleMonthly:
		return monthlyWindow(a, t), nil
	case model.PayCycleOneTime:
		return Window{Start: a, End: a}, nil
	}
	return Window{}, validationErr("pay_cycle", "unknown kind %q", kind)
}

// NextOccurrence returns the smallest schedule boundary on or after from,
// for the schedule defined by kind and anchor.
func NextOccurrence(kind model.PayCycle, anchor, from time.Time) (time.Time, error) {
	a := midnight(anchor)
	f := midnight(from)

	switch kind {
	case model.PayCycleWeekly:
		return nextFixedBoundary(a, f, 7), nil
	case model.PayCycleBiweekly:
		return nextFixedBoundary(a, f, 14), nil
	case model.PayCycleMonthly:
		return nextMonthlyBoundary(a, f), nil
	case model.PayCycleOneTime:
		return a, nil
	}
	return time.Time{}, validationErr("pay_cycle", "unknown kind %q", kind)
}

// ValidateFuturePayDate reports whether date is a usable next pay date for a
// newly created item: a known cycle kind and not in the past.
func ValidateFuturePayDate(kind model.PayCycle, date, today time.Time) bool {
	if !kind.Valid() {
		return false
	}
	return !midnight(date).Before(midnight(today))
}

// fixedPeriodWindow steps the anchor by periodDays until the window
// containing today is found.
func fixedPeriodWindow(anchor, today time.Time, periodDays int) Window {
	start := anchor
	for start.After(today) {
		start = start.AddDate(0, 0, -periodDays)
	}
	for !today.Before(start.AddDate(0, 0, periodDays)) {
		start = start.AddDate(0, 0, periodDays)
	}
	return Window{Start: start, End: start.AddDate(0, 0, periodDays-1)}
}

func monthlyWindow(anchor, today time.Time) Window {
	day := anchor.Day()

	y, m := today.Year(), today.Month()
	start := monthBoundary(y, m, day, today.Location())
	if start.After(today) {
		y, m = prevMonth(y, m)
		start = monthBoundary(y, m, day, today.Location())
	}

	ny, nm := nextMonth(y, m)
	next := monthBoundary(ny, nm, day, today.Location())
	return Window{Start: start, End: next.AddDate(0, 0, -1)}
}

func nextFixedBoundary(anchor, from time.Time, periodDays int) time.Time {
	d := anchor
	for d.Before(from) {
		d = d.AddDate(0, 0, periodDays)
	}
	for {
		prev := d.AddDate(0, 0, -periodDays)
		if prev.Before(from) {
			return d
		}
		d = prev
	}
}

func nextMonthlyBoundary(anchor, from time.Time) time.Time {
	day := anchor.Day()
	y, m := anchor.Year(), anchor.Month()

	d := monthBoundary(y, m, day, anchor.Location())
	for d.Before(from) {
		y, m = nextMonth(y, m)
		d = monthBoundary(y, m, day, anchor.Location())
	}
	for {
		py, pm := prevMonth(y, m)
		prev := monthBoundary(py, pm, day, anchor.Location())
		if prev.Before(from) {
			return d
		}
		y, m = py, pm
		d = prev
	}
}

// monthBoundary returns the boundary date for the given month, clamping the
// day to the month's last day (anchor day 31 in April yields April 30).
func monthBoundary(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// midnight truncates t to the start of its calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from one midnight to another. Rounding
// absorbs DST-shortened or -lengthened days.
func daysBetween(from, to time.Time) int {
	const day = 24 * time.Hour
	diff := to.Sub(from)
	if diff < 0 {
		return -int((-diff + day/2) / day)
	}
	return int((diff + day/2) / day)
}
