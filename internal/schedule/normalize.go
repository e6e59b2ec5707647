package schedule

import (
	"time"

	"tripboard/internal/model"
)

// NewLeg returns a blank leg: no endpoints, every check not started.
func NewLeg() model.Leg {
	return model.Leg{Status: NormalizeStatus(nil)}
}

// NormalizeStatus returns a status map holding exactly model.StatusKeys.
// Missing keys and unrecognized states become model.DefaultState; keys
// outside the closed set are dropped.
func NormalizeStatus(in map[model.StatusKey]model.StatusEntry) map[model.StatusKey]model.StatusEntry {
	out := make(map[model.StatusKey]model.StatusEntry, len(model.StatusKeys))
	for _, k := range model.StatusKeys {
		e, ok := in[k]
		if !ok || !e.State.Known() {
			e.State = model.DefaultState
		}
		out[k] = e
	}
	return out
}

// NormalizeLeg converts endpoints to UTC and backfills status checks.
// An invalid interval is kept as entered; it is incomplete, not wrong.
func NormalizeLeg(leg model.Leg) model.Leg {
	out := leg
	if leg.StartUTC != nil {
		t := leg.StartUTC.UTC()
		out.StartUTC = &t
	}
	if leg.EndUTC != nil {
		t := leg.EndUTC.UTC()
		out.EndUTC = &t
	}
	out.Status = NormalizeStatus(leg.Status)
	return out
}

// NormalizeTrip is the single entry point that brings a trip into its full
// in-memory shape: owned leg slice, normalized legs, recomputed range.
// Run it at the boundary (decode, creation) and after every leg mutation.
func NormalizeTrip(trip model.Trip, today time.Time) model.Trip {
	out := trip
	out.Legs = make([]model.Leg, len(trip.Legs))
	for i, leg := range trip.Legs {
		out.Legs[i] = NormalizeLeg(leg)
	}
	if trip.Tags != nil {
		out.Tags = append([]string(nil), trip.Tags...)
	}
	out.StartDate, out.EndDate = ResolveRange(out, today)
	return out
}
