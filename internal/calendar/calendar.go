// Package calendar provides workday-aware time arithmetic: workday tests,
// advancing a timestamp by working minutes, and measuring elapsed workdays.
// Weekends and an injectable holiday set count as non-working time.
package calendar

import (
	"math"
	"time"
)

// dateKey formats the calendar-date portion of a timestamp.
const dateKey = "2006-01-02"

// HolidaySet is a set of non-working calendar dates, keyed by "YYYY-MM-DD".
type HolidaySet map[string]struct{}

// NewHolidaySet builds a HolidaySet from "YYYY-MM-DD" strings.
// Malformed entries are ignored; use planfile validation to reject them.
func NewHolidaySet(dates ...string) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateKey, d); err == nil {
			h[d] = struct{}{}
		}
	}
	return h
}

// Add marks a date as a holiday.
func (h HolidaySet) Add(t time.Time) {
	h[t.Format(dateKey)] = struct{}{}
}

// Contains reports whether the date portion of t is a holiday.
func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(dateKey)]
	return ok
}

// Merge adds every date of other into h.
func (h HolidaySet) Merge(other HolidaySet) {
	for d := range other {
		h[d] = struct{}{}
	}
}

// Calendar answers workday questions against a fixed holiday set.
type Calendar struct {
	holidays HolidaySet
}

// New creates a Calendar with the given holidays. A nil set means
// weekends are the only non-working days.
func New(holidays HolidaySet) *Calendar {
	if holidays == nil {
		holidays = HolidaySet{}
	}
	return &Calendar{holidays: holidays}
}

// IsWorkday reports whether t falls on a working day: Monday through
// Friday and not a holiday.
func (c *Calendar) IsWorkday(t time.Time) bool {
	wd := t.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.holidays.Contains(t)
}

// startOfDay returns midnight of t's calendar date, same location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// nextDay returns midnight of the day after t's calendar date.
func nextDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

func minutesToDuration(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

// AddWorkingMinutes advances start by exactly minutes of working time.
// Each working day contributes workdayMinutes of capacity anchored at
// midnight; non-working days contribute nothing and are skipped. When
// minutes is zero the input is returned unchanged, even if it falls on
// a non-working day.
func (c *Calendar) AddWorkingMinutes(start time.Time, minutes, workdayMinutes float64) time.Time {
	cur := start
	remaining := minutes

	for remaining > 0 {
		if !c.IsWorkday(cur) {
			cur = nextDay(cur)
			continue
		}

		// Capacity left between cur and this day's working boundary.
		boundary := startOfDay(cur).Add(minutesToDuration(workdayMinutes))
		left := boundary.Sub(cur).Minutes()
		if left <= 0 {
			cur = nextDay(cur)
			continue
		}

		if remaining <= left {
			cur = cur.Add(minutesToDuration(remaining))
			remaining = 0
		} else {
			remaining -= left
			cur = nextDay(cur)
		}
	}
	return cur
}

// CountWorkingDays measures the working days spanned by [start, end].
// A span confined to a single calendar date counts as 1.0 if that date
// is a working day, else 0.0. Longer spans count whole working days in
// [startDate, endDate) plus the elapsed fraction of the end date when
// it is a working day. The result is rounded to two decimals; a span
// that contains no working time at all reports 1.0, never 0 (a task
// always consumes at least one day on paper).
func (c *Calendar) CountWorkingDays(start, end time.Time) float64 {
	startDay := startOfDay(start)
	endDay := startOfDay(end)

	if startDay.Equal(endDay) {
		if c.IsWorkday(start) {
			return 1.0
		}
		return 0.0
	}

	days := 0.0
	for d := startDay; d.Before(endDay); d = d.AddDate(0, 0, 1) {
		if c.IsWorkday(d) {
			days++
		}
	}

	if c.IsWorkday(endDay) && end.After(endDay) {
		days += end.Sub(endDay).Seconds() / 86400
	}

	if days <= 0 {
		return 1.0
	}
	return math.Round(days*100) / 100
}

// DateSpan is a half-open [From, To) range of calendar time.
type DateSpan struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NonWorkingSpans lists every non-working calendar day between start
// and end inclusive, one span per day, for marking rest periods on a
// rendered schedule.
func (c *Calendar) NonWorkingSpans(start, end time.Time) []DateSpan {
	var spans []DateSpan
	last := startOfDay(end)
	for d := startOfDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if !c.IsWorkday(d) {
			spans = append(spans, DateSpan{From: d, To: d.AddDate(0, 0, 1)})
		}
	}
	return spans
}
