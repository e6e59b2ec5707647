package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tripboard/internal/model"
)

func legWith(states ...model.StatusState) model.Leg {
	leg := model.Leg{Status: map[model.StatusKey]model.StatusEntry{}}
	for i, s := range states {
		leg.Status[model.StatusKeys[i]] = model.StatusEntry{State: s}
	}
	return leg
}

func allStates(s model.StatusState) model.Leg {
	states := make([]model.StatusState, len(model.StatusKeys))
	for i := range states {
		states[i] = s
	}
	return legWith(states...)
}

func TestStateSeverity(t *testing.T) {
	assert.Equal(t, model.SeverityGrey, StateSeverity(model.StateNotApplicable))
	assert.Equal(t, model.SeverityRed, StateSeverity(model.StateNotStarted))
	assert.Equal(t, model.SeverityAmber, StateSeverity(model.StateInProgress))
	assert.Equal(t, model.SeverityAmber, StateSeverity(model.StatePartial))
	assert.Equal(t, model.SeverityGreen, StateSeverity(model.StateComplete))
	assert.Equal(t, model.SeverityRed, StateSeverity("done"))
	assert.Equal(t, model.SeverityRed, StateSeverity(""))
}

func TestLegSeverity(t *testing.T) {
	c, n, a, p, x := model.StateComplete, model.StateNotStarted, model.StateInProgress, model.StatePartial, model.StateNotApplicable
	for _, tc := range []struct {
		name string
		leg  model.Leg
		want model.Severity
	}{
		{"one not started among complete", legWith(c, c, c, c, n, c, c), model.SeverityRed},
		{"all complete", allStates(c), model.SeverityGreen},
		{"in progress", legWith(c, a, c), model.SeverityAmber},
		{"partial", legWith(p, c), model.SeverityAmber},
		{"red beats amber", legWith(a, n, p), model.SeverityRed},
		{"not applicable ignored", legWith(x, c, x), model.SeverityGreen},
		{"all not applicable", allStates(x), model.SeverityGrey},
		{"no status", model.Leg{}, model.SeverityGrey},
		{"unrecognized is red", legWith(c, "finished"), model.SeverityRed},
		{"new leg", NewLeg(), model.SeverityRed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LegSeverity(tc.leg))
		})
	}
}

func TestTripSeverity(t *testing.T) {
	grey := allStates(model.StateNotApplicable)
	green := allStates(model.StateComplete)
	amber := legWith(model.StateComplete, model.StateInProgress)
	red := legWith(model.StateNotStarted)

	for _, tc := range []struct {
		name string
		legs []model.Leg
		want model.Severity
	}{
		{"no legs", nil, model.SeverityGrey},
		{"all grey", []model.Leg{grey, grey}, model.SeverityGrey},
		{"grey does not mask green", []model.Leg{grey, green}, model.SeverityGreen},
		{"amber over green", []model.Leg{green, amber, grey}, model.SeverityAmber},
		{"red wins", []model.Leg{green, amber, red}, model.SeverityRed},
		{"order independent", []model.Leg{red, amber, green}, model.SeverityRed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TripSeverity(model.Trip{Legs: tc.legs}))
		})
	}
}

func TestLegSeverities(t *testing.T) {
	trip := model.Trip{Legs: []model.Leg{allStates(model.StateComplete), legWith(model.StatePartial)}}
	assert.Equal(t, []model.Severity{model.SeverityGreen, model.SeverityAmber}, LegSeverities(trip))
}

func TestSeverityText(t *testing.T) {
	b, err := model.SeverityAmber.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "amber", string(b))

	var s model.Severity
	assert.NoError(t, s.UnmarshalText([]byte("green")))
	assert.Equal(t, model.SeverityGreen, s)
	assert.Error(t, s.UnmarshalText([]byte("purple")))
	assert.Equal(t, "unknown", model.Severity(99).String())
}
