package schedule

import (
	"time"

	"tripboard/internal/model"
)

// laneKey groups segments that compete for lanes: one aircraft, one day.
// A trip without an aircraft is its own group, keyed by its row.
type laneKey struct {
	aircraft string
	solo     int
	day      model.Date
}

func laneKeyFor(trip model.Trip, row int, day model.Date) laneKey {
	if trip.Aircraft == "" {
		return laneKey{solo: row + 1, day: day}
	}
	return laneKey{aircraft: trip.Aircraft, day: day}
}

// BuildBoard answers the render question for a window of days: for every
// (trip, day) pair, whether the trip's range covers the day and which
// lane-assigned leg segments fall on it. Lanes are shared by all trips on
// the same aircraft. Trips without an aircraft get lanes of their own.
//
// Trips are normalized first, so stale derived fields are never read.
func BuildBoard(trips []model.Trip, days []model.Date, today time.Time) model.Board {
	window := make(map[model.Date]bool, len(days))
	for _, d := range days {
		window[d] = true
	}

	// rows run parallel to groups: the board row each segment belongs to,
	// so trips sharing an id never pick up each other's segments
	norm := make([]model.Trip, len(trips))
	groups := map[laneKey][]model.DaySegment{}
	rows := map[laneKey][]int{}
	var order []laneKey
	for ti, trip := range trips {
		trip = NormalizeTrip(trip, today)
		norm[ti] = trip
		for li, leg := range trip.Legs {
			sev := LegSeverity(leg)
			for _, seg := range Segment(leg) {
				if !window[seg.Day] {
					continue
				}
				seg.Leg = model.LegRef{TripID: trip.ID, Index: li}
				seg.Severity = sev
				k := laneKeyFor(trip, ti, seg.Day)
				if _, ok := groups[k]; !ok {
					order = append(order, k)
				}
				groups[k] = append(groups[k], seg)
				rows[k] = append(rows[k], ti)
			}
		}
	}

	type cellKey struct {
		row int
		day model.Date
	}
	cells := map[cellKey][]model.DaySegment{}
	lanes := map[laneKey]int{}
	for _, k := range order {
		placed := AssignLanes(groups[k])
		lanes[k] = LaneCount(placed)
		for i, seg := range placed {
			ck := cellKey{row: rows[k][i], day: seg.Day}
			cells[ck] = append(cells[ck], seg)
		}
	}

	board := model.Board{Days: append([]model.Date(nil), days...), Rows: make([]model.BoardRow, 0, len(norm))}
	for ti, trip := range norm {
		row := model.BoardRow{
			TripID:    trip.ID,
			Client:    trip.Client,
			Aircraft:  trip.Aircraft,
			Severity:  TripSeverity(trip),
			StartDate: trip.StartDate,
			EndDate:   trip.EndDate,
			Cells:     make([]model.BoardCell, 0, len(days)),
		}
		for _, d := range days {
			segs := cells[cellKey{row: ti, day: d}]
			if segs == nil {
				segs = []model.DaySegment{}
			}
			row.Cells = append(row.Cells, model.BoardCell{
				Day:      d,
				InRange:  InRange(d, trip.StartDate, trip.EndDate),
				Lanes:    lanes[laneKeyFor(trip, ti, d)],
				Segments: segs,
			})
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}

// MaxLanes returns the widest lane count on the board.
func MaxLanes(b model.Board) int {
	n := 0
	for _, row := range b.Rows {
		for _, c := range row.Cells {
			if c.Lanes > n {
				n = c.Lanes
			}
		}
	}
	return n
}

// SegmentCount returns the number of placed segments on the board.
func SegmentCount(b model.Board) int {
	n := 0
	for _, row := range b.Rows {
		for _, c := range row.Cells {
			n += len(c.Segments)
		}
	}
	return n
}
