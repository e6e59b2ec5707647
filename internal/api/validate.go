package api

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"tripboard/internal/model"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errBadRequest)
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, badRequest("leg index must be a non-negative integer, got %q", s)
	}
	return i, nil
}

// parseDays reads the window length; empty means def.
func parseDays(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 366 {
		return 0, badRequest("days must be in [1,366], got %q", s)
	}
	return n, nil
}

func parseDate(s string, def model.Date) (model.Date, error) {
	if s == "" {
		return def, nil
	}
	d := model.Date(s)
	if !d.Valid() {
		return "", badRequest("date must be YYYY-MM-DD, got %q", s)
	}
	return d, nil
}

func parseInstant(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, badRequest("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, badRequest("%s must be RFC3339: %v", name, err)
	}
	return t.UTC(), nil
}

func validateLeg(l model.Leg) error {
	for k, e := range l.Status {
		if !k.Valid() {
			return badRequest("unknown status key %q", k)
		}
		if !e.State.Known() {
			return badRequest("unknown state %q for %s", e.State, k)
		}
	}
	return nil
}

func validateTripInput(in model.TripInput) error {
	for i, l := range in.Legs {
		if err := validateLeg(l); err != nil {
			return fmt.Errorf("leg %d: %w", i, err)
		}
	}
	return nil
}

func validateLegPatch(p model.LegPatch) error {
	if p.ClearStart && p.StartUTC != nil {
		return badRequest("startUtc and clearStart are exclusive")
	}
	if p.ClearEnd && p.EndUTC != nil {
		return badRequest("endUtc and clearEnd are exclusive")
	}
	return nil
}
