package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// View is a calendar granularity.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// MonthGridDays is the fixed cell count of a month view: six full weeks.
const MonthGridDays = 42

var ErrUnknownView = errors.New("unknown calendar view")

// ParseView accepts month, week or day (case-insensitive). Empty means month.
func ParseView(raw string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(raw))); v {
	case "":
		return ViewMonth, nil
	case ViewMonth, ViewWeek, ViewDay:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, raw)
	}
}

// Range is an inclusive window of instants.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t lies in [From, To].
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// RangeFor computes the fetch window of a view around anchor. Weeks start on
// Sunday; a month window always spans 42 days starting on the Sunday on or
// before the 1st.
func RangeFor(view View, anchor time.Time, loc *time.Location) (Range, error) {
	loc = location(loc)
	day := startOfDay(anchor, loc)

	switch view {
	case ViewMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		from := startOfWeek(first)
		return Range{From: from, To: endOfDay(from.AddDate(0, 0, MonthGridDays-1))}, nil
	case ViewWeek:
		from := startOfWeek(day)
		return Range{From: from, To: endOfDay(from.AddDate(0, 0, 6))}, nil
	case ViewDay:
		return Range{From: day, To: endOfDay(day)}, nil
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}

// Days lists the midnight of every local day in r, in order.
func Days(r Range, loc *time.Location) []time.Time {
	loc = location(loc)
	var days []time.Time
	for d := startOfDay(r.From, loc); !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Step moves anchor by delta periods of view. Month steps land on the 1st.
func Step(view View, anchor time.Time, delta int, loc *time.Location) time.Time {
	loc = location(loc)
	day := startOfDay(anchor, loc)
	switch view {
	case ViewMonth:
		return time.Date(day.Year(), day.Month()+time.Month(delta), 1, 0, 0, 0, 0, loc)
	case ViewWeek:
		return day.AddDate(0, 0, 7*delta)
	default:
		return day.AddDate(0, 0, delta)
	}
}

// StartOfDay returns local midnight of t's date.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, location(loc))
}

// EndOfDay returns 23:59:59.999 of t's local date.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return endOfDay(startOfDay(t, location(loc)))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startOfWeek(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func endOfDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), day.Location())
}
