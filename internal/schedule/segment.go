package schedule

import (
	"time"

	"tripboard/internal/model"
)

// Segment splits a leg into one DaySegment per UTC calendar day it overlaps.
// Legs without a valid interval produce no segments. Segments come back in
// day order and tile the leg interval exactly; a leg that ends at midnight
// does not spill a zero-length segment into the next day.
//
// Minutes are offsets from the day start. A sub-minute remainder at the end
// rounds up so a non-empty overlap always yields StartMinute < EndMinute.
func Segment(leg model.Leg) []model.DaySegment {
	iv, ok := LegInterval(leg)
	if !ok {
		return nil
	}
	var out []model.DaySegment
	last := DayStart(iv.End)
	for day := DayStart(iv.Start); !day.After(last); day = day.AddDate(0, 0, 1) {
		part := iv.Overlap(Interval{Start: day, End: day.AddDate(0, 0, 1)})
		if part.Empty() {
			continue
		}
		out = append(out, model.DaySegment{
			Day:         model.DateOf(day),
			StartMinute: floorMinutes(part.Start.Sub(day)),
			EndMinute:   ceilMinutes(part.End.Sub(day)),
		})
	}
	return out
}

func floorMinutes(d time.Duration) int { return int(d / time.Minute) }

func ceilMinutes(d time.Duration) int {
	m := int(d / time.Minute)
	if d%time.Minute != 0 {
		m++
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return m
}
