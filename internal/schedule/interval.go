// Package schedule lays trips and legs onto a UTC calendar grid: day
// segmentation, lane layout, status aggregation and trip date ranges.
// Everything here is pure; callers own persistence and rendering.
package schedule

import (
	"time"

	"tripboard/internal/model"
)

// MinutesPerDay is the width of one calendar day on the grid.
const MinutesPerDay = 24 * 60

// Interval is a half-open UTC interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Empty reports whether the interval contains no instant.
func (iv Interval) Empty() bool { return !iv.End.After(iv.Start) }

// Overlap returns the intersection of two intervals; it may be empty.
func (iv Interval) Overlap(o Interval) Interval {
	out := iv
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out
}

// LegInterval returns the leg's interval in UTC. ok is false when either
// endpoint is missing or the interval is empty; such legs are not yet
// schedulable and are skipped by segmentation and range resolution.
func LegInterval(leg model.Leg) (Interval, bool) {
	if leg.StartUTC == nil || leg.EndUTC == nil {
		return Interval{}, false
	}
	iv := Interval{Start: leg.StartUTC.UTC(), End: leg.EndUTC.UTC()}
	if iv.Empty() {
		return Interval{}, false
	}
	return iv, true
}

// DayStart truncates t to midnight UTC of its calendar day.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the UTC calendar date of now.
func Today(now time.Time) model.Date { return model.DateOf(now) }

// Days returns n consecutive calendar dates starting at from.
func Days(from model.Date, n int) []model.Date {
	start, err := from.Time()
	if err != nil || n <= 0 {
		return []model.Date{}
	}
	out := make([]model.Date, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.DateOf(start.AddDate(0, 0, i)))
	}
	return out
}

// DaysBetween returns every calendar date in [from, to], inclusive.
func DaysBetween(from, to model.Date) []model.Date {
	a, errA := from.Time()
	b, errB := to.Time()
	if errA != nil || errB != nil || b.Before(a) {
		return []model.Date{}
	}
	n := int(b.Sub(a)/(24*time.Hour)) + 1
	return Days(from, n)
}

// InRange reports whether day falls within [start, end]. Dates compare
// lexically because of the fixed YYYY-MM-DD layout.
func InRange(day, start, end model.Date) bool {
	if !start.Valid() || !end.Valid() {
		return false
	}
	return start <= day && day <= end
}
