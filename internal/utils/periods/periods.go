// Package periods holds the calendar arithmetic used by budgets and reports.
// All helpers work in the location of their time arguments.
package periods

import (
	"fmt"
	"math"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/domain"
)

const day = 24 * time.Hour

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// EndOfWeek returns the last instant of the Sunday-start week containing t (a Saturday).
func EndOfWeek(t time.Time) time.Time {
	return EndOfDay(t.AddDate(0, 0, int(time.Saturday-t.Weekday())))
}

func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

func EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

// PeriodEnd derives a budget's window end from its start date.
func PeriodEnd(start time.Time, period domain.BudgetPeriod) (time.Time, error) {
	switch period {
	case domain.Weekly:
		return EndOfWeek(start), nil
	case domain.Monthly:
		return EndOfMonth(start), nil
	case domain.Yearly:
		return EndOfYear(start), nil
	}
	return time.Time{}, fmt.Errorf("unknown budget period %q", period)
}

// DaysRemaining is ceil((end-now)/1 day), floored at zero.
func DaysRemaining(end, now time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(float64(left) / float64(day)))
}

// CurrentWeek returns the Monday-to-Sunday week containing now.
func CurrentWeek(now time.Time) domain.Window {
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	start := StartOfDay(now).AddDate(0, 0, -offset)
	return domain.Window{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}
}

// MonthWindow covers the calendar month; month is 1-12.
func MonthWindow(year, month int, loc *time.Location) domain.Window {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return domain.Window{Start: start, End: EndOfMonth(start)}
}

func YearWindow(year int, loc *time.Location) domain.Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return domain.Window{Start: start, End: EndOfYear(start)}
}

// DayCount is the number of calendar days the window touches.
func DayCount(w domain.Window) int {
	s := StartOfDay(w.Start)
	e := StartOfDay(w.End)
	n := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Days splits the window into one bucket per calendar day, clipped to the window bounds.
func Days(w domain.Window) []domain.Window {
	var out []domain.Window
	for d := StartOfDay(w.Start); !d.After(w.End); d = d.AddDate(0, 0, 1) {
		b := domain.Window{Start: d, End: EndOfDay(d)}
		if b.Start.Before(w.Start) {
			b.Start = w.Start
		}
		if b.End.After(w.End) {
			b.End = w.End
		}
		out = append(out, b)
	}
	return out
}

// PreviousWindow returns the window of equal whole-day length ending right before w starts.
func PreviousWindow(w domain.Window) domain.Window {
	start := StartOfDay(w.Start)
	return domain.Window{
		Start: start.AddDate(0, 0, -DayCount(w)),
		End:   start.Add(-time.Nanosecond),
	}
}

// MonthWeeks splits a month into buckets where week n covers days 7n-6..7n.
func MonthWeeks(year, month int, loc *time.Location) []domain.Window {
	m := MonthWindow(year, month, loc)
	last := m.End.Day()
	var out []domain.Window
	for first := 1; first <= last; first += 7 {
		start := time.Date(year, time.Month(month), first, 0, 0, 0, 0, loc)
		endDay := first + 6
		if endDay > last {
			endDay = last
		}
		out = append(out, domain.Window{
			Start: start,
			End:   EndOfDay(time.Date(year, time.Month(month), endDay, 0, 0, 0, 0, loc)),
		})
	}
	return out
}

// Months returns the twelve calendar months of year.
func Months(year int, loc *time.Location) []domain.Window {
	out := make([]domain.Window, 12)
	for i := range out {
		out[i] = MonthWindow(year, i+1, loc)
	}
	return out
}

// TrailingMonths returns the n calendar months ending with the month containing now, oldest first.
func TrailingMonths(now time.Time, n int) []domain.Window {
	out := make([]domain.Window, n)
	y, m, _ := now.Date()
	for i := 0; i < n; i++ {
		start := time.Date(y, m-time.Month(n-1-i), 1, 0, 0, 0, 0, now.Location())
		out[i] = domain.Window{Start: start, End: EndOfMonth(start)}
	}
	return out
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
