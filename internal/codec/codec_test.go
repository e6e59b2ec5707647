package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripboard/internal/model"
	"tripboard/internal/schedule"
)

var today = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Equal(t, "application/yaml", FormatYAML.ContentType())
}

func TestDecodeCurrentShape(t *testing.T) {
	doc := []byte(`{"version":2,"trips":[{"id":"t1","client":"Acme","aircraft":"G-ABCD","legs":[
		{"startUtc":"2026-02-26T23:00:00Z","endUtc":"2026-02-27T01:30:00Z","from":"EGLF","to":"LFMN",
		 "status":{"crew":{"state":"complete","note":"ok"},"handling":{"state":"bogus"}}}]}]}`)
	trips, err := Decode(doc, FormatJSON, today)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	trip := trips[0]
	assert.Equal(t, model.Date("2026-02-26"), trip.StartDate)
	assert.Equal(t, model.Date("2026-02-27"), trip.EndDate)

	leg := trip.Legs[0]
	require.Len(t, leg.Status, len(model.StatusKeys))
	assert.Equal(t, model.StatusEntry{State: model.StateComplete, Note: "ok"}, leg.Status[model.StatusCrew])
	assert.Equal(t, model.StateNotStarted, leg.Status[model.StatusHandling].State)
	assert.Equal(t, model.StateNotStarted, leg.Status[model.StatusFuel].State)
	assert.Len(t, schedule.Segment(leg), 2)
}

func TestDecodeLegacyShape(t *testing.T) {
	doc := []byte(`[{"tail":"N123","legs":[
		{"day":"2026-02-26","dep":"2300","arr":"0130","status":{"crew":"complete"}},
		{"day":"2026-02-27","dep":"09:00","arr":"1000","arrDay":"2026-02-28"},
		{"day":"2026-02-27","dep":"9999","arr":"1000"}
	]}]`)
	trips, err := Decode(doc, FormatJSON, today)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	trip := trips[0]
	assert.NotEmpty(t, trip.ID, "missing id is generated")
	assert.Equal(t, "N123", trip.Aircraft)

	l0 := trip.Legs[0]
	assert.Equal(t, "2026-02-26T23:00:00Z", l0.StartUTC.Format(time.RFC3339))
	assert.Equal(t, "2026-02-27T01:30:00Z", l0.EndUTC.Format(time.RFC3339), "arrival before departure rolls to next day")
	assert.Equal(t, model.StateComplete, l0.Status[model.StatusCrew].State)

	l1 := trip.Legs[1]
	assert.Equal(t, "2026-02-28T10:00:00Z", l1.EndUTC.Format(time.RFC3339))

	l2 := trip.Legs[2]
	assert.Nil(t, l2.StartUTC, "invalid legacy time stays absent")
	assert.NotNil(t, l2.EndUTC)
	assert.Empty(t, schedule.Segment(l2))

	assert.Equal(t, model.Date("2026-02-26"), trip.StartDate)
	assert.Equal(t, model.Date("2026-02-28"), trip.EndDate)
}

func TestDecodeRepeatedIDs(t *testing.T) {
	doc := []byte(`[
		{"id":"dup","aircraft":"A","legs":[{"startUtc":"2026-03-01T08:00:00Z","endUtc":"2026-03-01T10:00:00Z"}]},
		{"id":"dup","aircraft":"B","legs":[{"startUtc":"2026-03-01T09:00:00Z","endUtc":"2026-03-01T11:00:00Z"}]},
		{"aircraft":"C"},
		{"id":"other","aircraft":"D"}
	]`)
	trips, err := Decode(doc, FormatJSON, today)
	require.NoError(t, err)
	require.Len(t, trips, 4)
	assert.Equal(t, "dup", trips[0].ID, "first holder keeps the id")
	assert.Equal(t, "other", trips[3].ID)
	assert.Equal(t, "B", trips[1].Aircraft)

	ids := map[string]bool{}
	for _, trip := range trips {
		require.NotEmpty(t, trip.ID)
		ids[trip.ID] = true
	}
	assert.Len(t, ids, 4)

	b := schedule.BuildBoard(trips, []model.Date{"2026-03-01"}, today)
	for i := 0; i < 2; i++ {
		segs := b.Rows[i].Cells[0].Segments
		require.Len(t, segs, 1)
		assert.Equal(t, trips[i].ID, segs[0].Leg.TripID)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := []byte(`
version: 2
trips:
  - id: y1
    aircraft: G-YAML
    tags: [vip]
    legs:
      - startUtc: 2026-03-01T08:00:00Z
        endUtc: "2026-03-01T10:00:00Z"
        status:
          crew: complete
          fuel: {state: partial, note: "half uplift"}
      - day: "2026-03-02"
        dep: "0800"
        arr: "0930"
`)
	trips, err := Decode(doc, FormatYAML, today)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	trip := trips[0]
	assert.Equal(t, []string{"vip"}, trip.Tags)
	require.Len(t, trip.Legs, 2)
	assert.Equal(t, model.StatusEntry{State: model.StatePartial, Note: "half uplift"}, trip.Legs[0].Status[model.StatusFuel])
	assert.Equal(t, "2026-03-02T09:30:00Z", trip.Legs[1].EndUTC.Format(time.RFC3339))
	assert.Equal(t, model.Date("2026-03-02"), trip.EndDate)
}

func TestDecodeYAMLUnquotedDates(t *testing.T) {
	doc := []byte(`
trips:
  - id: legacy
    aircraft: G-DATE
    startDate: 2026-01-01
    endDate: 2026-01-03
    legs:
      - day: 2026-03-02
        dep: 0800
        arr: 0930
      - day: 2026-03-02
        dep: 2300
        arr: 0130
      - startUtc: 2026-03-04
        endUtc: 2026-03-04T06:00:00Z
  - id: untimed
    startDate: 2026-01-01
    endDate: 2026-01-03
    legs:
      - from: EGLF
`)
	trips, err := Decode(doc, FormatYAML, today)
	require.NoError(t, err)
	require.Len(t, trips, 2)

	legs := trips[0].Legs
	require.Len(t, legs, 3)
	require.NotNil(t, legs[0].StartUTC)
	require.NotNil(t, legs[0].EndUTC)
	assert.Equal(t, "2026-03-02T08:00:00Z", legs[0].StartUTC.Format(time.RFC3339))
	assert.Equal(t, "2026-03-02T09:30:00Z", legs[0].EndUTC.Format(time.RFC3339))
	require.NotNil(t, legs[1].EndUTC)
	assert.Equal(t, "2026-03-03T01:30:00Z", legs[1].EndUTC.Format(time.RFC3339))
	require.NotNil(t, legs[2].StartUTC)
	assert.Equal(t, "2026-03-04T00:00:00Z", legs[2].StartUTC.Format(time.RFC3339))
	assert.Equal(t, model.Date("2026-03-02"), trips[0].StartDate)
	assert.Equal(t, model.Date("2026-03-04"), trips[0].EndDate)

	// no valid leg: the stored range is kept, not replaced by today
	assert.Equal(t, model.Date("2026-01-01"), trips[1].StartDate)
	assert.Equal(t, model.Date("2026-01-03"), trips[1].EndDate)
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	trips, err := Decode([]byte("  "), FormatJSON, today)
	require.NoError(t, err)
	assert.Empty(t, trips)

	_, err = Decode([]byte(`{"trips": 5}`), FormatJSON, today)
	assert.Error(t, err)

	_, err = Decode([]byte(`{"version": 99, "trips": []}`), FormatJSON, today)
	assert.Error(t, err)

	_, err = Decode([]byte(`[]`), "csv", today)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestEncodeDecodeKeepsTrips(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(26 * time.Hour)
	leg := schedule.NewLeg()
	leg.StartUTC, leg.EndUTC = &start, &end
	leg.Status[model.StatusHotel] = model.StatusEntry{State: model.StateNotApplicable, Note: "day trip"}
	in := model.TripList{schedule.NormalizeTrip(model.Trip{ID: "t", Client: "C", Aircraft: "A", Legs: []model.Leg{leg}}, today)}

	for _, f := range []Format{FormatJSON, FormatYAML} {
		b, err := Encode(in, f, today)
		require.NoError(t, err, f)
		out, err := Decode(b, f, today)
		require.NoError(t, err, f)
		require.Len(t, out, 1, f)
		assert.Equal(t, in[0].StartDate, out[0].StartDate, f)
		assert.Equal(t, in[0].EndDate, out[0].EndDate, f)
		assert.True(t, out[0].Legs[0].EndUTC.Equal(end), f)
		assert.Equal(t, in[0].Legs[0].Status, out[0].Legs[0].Status, f)
	}
}
