package schedule

import (
	"time"

	"tripboard/internal/model"
)

// ResolveRange derives a trip's visible calendar range from its schedulable
// legs: the UTC date of the earliest start through the UTC date of the latest
// end. With no schedulable legs the trip keeps the range it already has, and
// only a trip that never had one falls back to today.
func ResolveRange(trip model.Trip, today time.Time) (model.Date, model.Date) {
	var first, last time.Time
	found := false
	for _, leg := range trip.Legs {
		iv, ok := LegInterval(leg)
		if !ok {
			continue
		}
		if !found || iv.Start.Before(first) {
			first = iv.Start
		}
		if !found || iv.End.After(last) {
			last = iv.End
		}
		found = true
	}
	if found {
		return model.DateOf(first), model.DateOf(last)
	}
	if trip.StartDate.Valid() && trip.EndDate.Valid() && trip.StartDate <= trip.EndDate {
		return trip.StartDate, trip.EndDate
	}
	d := Today(today)
	return d, d
}
