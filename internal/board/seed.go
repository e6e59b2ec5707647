package board

import (
	"time"

	"github.com/google/uuid"

	"tripboard/internal/model"
	"tripboard/internal/schedule"
)

// DemoTrips builds a small board around now: an overnight positioning leg,
// two trips sharing an aircraft with overlapping legs, and a trip whose legs
// are not yet timed.
func DemoTrips(now time.Time) model.TripList {
	day := schedule.DayStart(now)
	at := func(days, hour, min int) *time.Time {
		t := day.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
		return &t
	}
	leg := func(from, to string, start, end *time.Time, done ...model.StatusKey) model.Leg {
		l := schedule.NewLeg()
		l.From, l.To, l.StartUTC, l.EndUTC = from, to, start, end
		for _, k := range done {
			l.Status[k] = model.StatusEntry{State: model.StateComplete}
		}
		return l
	}
	all := model.StatusKeys

	overnight := model.Trip{ID: uuid.New().String(), Client: "Northwind", Aircraft: "G-NWND", Tags: []string{"charter"},
		Legs: []model.Leg{
			leg("EGLF", "LFMN", at(1, 23, 0), at(2, 1, 30), all...),
			leg("LFMN", "EGLF", at(4, 16, 0), at(4, 18, 10), model.StatusTimesConfirmed, model.StatusCrew),
		}}
	overnight.Legs[1].Status[model.StatusFuel] = model.StatusEntry{State: model.StatePartial, Note: "uplift at LFMN"}

	shared := model.Trip{ID: uuid.New().String(), Client: "Contoso", Aircraft: "N650CT",
		Legs: []model.Leg{leg("KTEB", "KPBI", at(2, 8, 0), at(2, 10, 45), model.StatusTimesConfirmed)}}
	sharedToo := model.Trip{ID: uuid.New().String(), Client: "Fabrikam", Aircraft: "N650CT", Tags: []string{"tentative"},
		Legs: []model.Leg{leg("KPBI", "KHPN", at(2, 9, 30), at(2, 12, 0))}}
	for _, k := range all {
		sharedToo.Legs[0].Status[k] = model.StatusEntry{State: model.StateInProgress}
	}

	untimed := model.Trip{ID: uuid.New().String(), Client: "Adventure Works", Aircraft: "OE-LAW",
		Legs: []model.Leg{leg("LOWW", "LSGG", nil, nil)}}

	out := model.TripList{overnight, shared, sharedToo, untimed}
	for i := range out {
		out[i] = schedule.NormalizeTrip(out[i], now)
	}
	return out
}
