package schedule

import (
	"errors"
	"fmt"
	"time"

	"tripboard/internal/model"
)

var (
	ErrLegIndex  = errors.New("leg index out of range")
	ErrStatusKey = errors.New("unknown status key")
)

// Leg edits work on a copy of the trip's leg slice and return the trip
// normalized again, so derived fields never lag behind the legs.

// InsertLeg inserts leg at position at (0..len); later legs shift up by one.
func InsertLeg(trip model.Trip, at int, leg model.Leg, today time.Time) (model.Trip, error) {
	if at < 0 || at > len(trip.Legs) {
		return trip, fmt.Errorf("insert at %d: %w", at, ErrLegIndex)
	}
	legs := make([]model.Leg, 0, len(trip.Legs)+1)
	legs = append(legs, trip.Legs[:at]...)
	legs = append(legs, leg)
	legs = append(legs, trip.Legs[at:]...)
	trip.Legs = legs
	return NormalizeTrip(trip, today), nil
}

// RemoveLeg deletes the leg at position at; later legs shift down by one.
func RemoveLeg(trip model.Trip, at int, today time.Time) (model.Trip, error) {
	if at < 0 || at >= len(trip.Legs) {
		return trip, fmt.Errorf("remove %d: %w", at, ErrLegIndex)
	}
	legs := make([]model.Leg, 0, len(trip.Legs)-1)
	legs = append(legs, trip.Legs[:at]...)
	legs = append(legs, trip.Legs[at+1:]...)
	trip.Legs = legs
	return NormalizeTrip(trip, today), nil
}

// UpdateLeg applies patch to the leg at position at.
func UpdateLeg(trip model.Trip, at int, patch model.LegPatch, today time.Time) (model.Trip, error) {
	if at < 0 || at >= len(trip.Legs) {
		return trip, fmt.Errorf("update %d: %w", at, ErrLegIndex)
	}
	legs := append([]model.Leg(nil), trip.Legs...)
	leg := legs[at]
	if patch.ClearStart {
		leg.StartUTC = nil
	} else if patch.StartUTC != nil {
		t := patch.StartUTC.UTC()
		leg.StartUTC = &t
	}
	if patch.ClearEnd {
		leg.EndUTC = nil
	} else if patch.EndUTC != nil {
		t := patch.EndUTC.UTC()
		leg.EndUTC = &t
	}
	if patch.From != nil {
		leg.From = *patch.From
	}
	if patch.To != nil {
		leg.To = *patch.To
	}
	if patch.FlightNo != nil {
		leg.FlightNo = *patch.FlightNo
	}
	legs[at] = leg
	trip.Legs = legs
	return NormalizeTrip(trip, today), nil
}

// SetLegStatus records a state (and optionally a note) for one check.
func SetLegStatus(trip model.Trip, at int, key model.StatusKey, upd model.StatusUpdate, today time.Time) (model.Trip, error) {
	if at < 0 || at >= len(trip.Legs) {
		return trip, fmt.Errorf("status %d: %w", at, ErrLegIndex)
	}
	if !key.Valid() {
		return trip, fmt.Errorf("%q: %w", key, ErrStatusKey)
	}
	legs := append([]model.Leg(nil), trip.Legs...)
	status := NormalizeStatus(legs[at].Status)
	e := status[key]
	e.State = upd.State
	if upd.Note != nil {
		e.Note = *upd.Note
	}
	status[key] = e
	legs[at].Status = status
	trip.Legs = legs
	return NormalizeTrip(trip, today), nil
}
