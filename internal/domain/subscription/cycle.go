package subscription

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", errs.Mark(errs.Newf("invalid frequency %q", s), errs.ErrInvalidInput)
	}
	return f, nil
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

func (f Frequency) String() string { return string(f) }

// Step advances t by one cycle. Monthly steps keep the day of month and clamp
// it to the length of the target month, so Jan 31 steps to Feb 28 (or 29).
// An invalid frequency returns t unchanged.
func (f Frequency) Step(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonthClamped(t)
	}
	return t
}

// AdvancePastNow steps next until it is strictly after now. Missed cycles are
// skipped rather than replayed.
func (f Frequency) AdvancePastNow(next, now time.Time) time.Time {
	if !f.Valid() {
		return next
	}
	for !next.After(now) {
		next = f.Step(next)
	}
	return next
}

func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	// day 0 of the month after next is the last day of next month
	lastDay := time.Date(year, month+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month+1, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
