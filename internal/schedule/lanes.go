package schedule

import (
	"sort"

	"tripboard/internal/model"
)

// AssignLanes places the segments of one aircraft on one calendar day into
// horizontal lanes so that no two segments in a lane overlap. It is greedy
// interval partitioning: segments are visited by StartMinute (stable, ties
// keep input order) and each takes the lowest lane whose last end is at or
// before its start. Touching segments share a lane.
//
// The result is a copy in input order with Lane set; the lane count equals
// the maximum number of segments overlapping at any minute.
func AssignLanes(segs []model.DaySegment) []model.DaySegment {
	out := append([]model.DaySegment(nil), segs...)
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].StartMinute < out[order[b]].StartMinute
	})

	var laneEnds []int
	for _, i := range order {
		lane := -1
		for l, end := range laneEnds {
			if end <= out[i].StartMinute {
				lane = l
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, 0)
		}
		laneEnds[lane] = out[i].EndMinute
		out[i].Lane = lane
	}
	return out
}

// LaneCount returns the number of lanes used by already-assigned segments.
func LaneCount(segs []model.DaySegment) int {
	n := 0
	for _, s := range segs {
		if s.Lane+1 > n {
			n = s.Lane + 1
		}
	}
	return n
}
