package codec

import (
	"bytes"
	"encoding/json"
	"time"

	"tripboard/internal/model"
	"tripboard/internal/schedule"
)

// tripRecord is the wire shape accepted on decode. It is a superset of
// model.Trip that also carries fields written by older board versions.
type tripRecord struct {
	ID        string      `json:"id"`
	Client    string      `json:"client"`
	Aircraft  string      `json:"aircraft"`
	Tail      string      `json:"tail"` // legacy name for aircraft
	Tags      []string    `json:"tags"`
	Notes     string      `json:"notes"`
	Legs      []legRecord `json:"legs"`
	StartDate model.Date  `json:"startDate"`
	EndDate   model.Date  `json:"endDate"`
}

type legRecord struct {
	StartUTC *time.Time                      `json:"startUtc"`
	EndUTC   *time.Time                      `json:"endUtc"`
	From     string                          `json:"from"`
	To       string                          `json:"to"`
	FlightNo string                          `json:"flightNo"`
	Status   map[model.StatusKey]statusRecord `json:"status"`

	// legacy: calendar day plus HHMM clock strings
	Day    model.Date `json:"day"`
	Dep    string     `json:"dep"`
	Arr    string     `json:"arr"`
	ArrDay model.Date `json:"arrDay"`
}

// statusRecord accepts either {"state": "...", "note": "..."} or a bare
// state string, which older documents used.
type statusRecord model.StatusEntry

func (s *statusRecord) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var state string
		if err := json.Unmarshal(b, &state); err != nil {
			return err
		}
		*s = statusRecord{State: model.StatusState(state)}
		return nil
	}
	var e model.StatusEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	*s = statusRecord(e)
	return nil
}

func (r tripRecord) toTrip() model.Trip {
	t := model.Trip{
		ID:        r.ID,
		Client:    r.Client,
		Aircraft:  r.Aircraft,
		Tags:      r.Tags,
		Notes:     r.Notes,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Legs:      make([]model.Leg, 0, len(r.Legs)),
	}
	if t.Aircraft == "" {
		t.Aircraft = r.Tail
	}
	if !t.StartDate.Valid() || !t.EndDate.Valid() {
		t.StartDate, t.EndDate = "", ""
	}
	for _, l := range r.Legs {
		t.Legs = append(t.Legs, l.toLeg())
	}
	return t
}

func (r legRecord) toLeg() model.Leg {
	leg := model.Leg{
		StartUTC: r.StartUTC,
		EndUTC:   r.EndUTC,
		From:     r.From,
		To:       r.To,
		FlightNo: r.FlightNo,
	}
	if r.Status != nil {
		leg.Status = make(map[model.StatusKey]model.StatusEntry, len(r.Status))
		for k, v := range r.Status {
			leg.Status[k] = model.StatusEntry(v)
		}
	}
	migrateLegacy(&leg, r)
	return leg
}

// migrateLegacy fills missing instants from day/HHMM fields. An arrival
// without its own day that is not after departure is taken as next day.
func migrateLegacy(leg *model.Leg, r legRecord) {
	if leg.StartUTC == nil && r.Dep != "" {
		if t, ok := schedule.LegacyToInstant(r.Day, r.Dep); ok {
			leg.StartUTC = &t
		}
	}
	if leg.EndUTC == nil && r.Arr != "" {
		day := r.ArrDay
		if day == "" {
			day = r.Day
		}
		if t, ok := schedule.LegacyToInstant(day, r.Arr); ok {
			if r.ArrDay == "" && leg.StartUTC != nil && !t.After(*leg.StartUTC) {
				t = t.AddDate(0, 0, 1)
			}
			leg.EndUTC = &t
		}
	}
}
