package model

import "time"

// Core domain types for the scheduling board.

// Date is a UTC calendar date in YYYY-MM-DD form.
type Date string

const DateLayout = "2006-01-02"

// DateOf returns the UTC calendar date containing t.
func DateOf(t time.Time) Date {
    return Date(t.UTC().Format(DateLayout))
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() (time.Time, error) {
    return time.ParseInLocation(DateLayout, string(d), time.UTC)
}

// Valid reports whether d parses as a calendar date.
func (d Date) Valid() bool {
    _, err := d.Time()
    return err == nil
}

type Trip struct {
    ID        string   `json:"id" yaml:"id"`
    Client    string   `json:"client,omitempty" yaml:"client,omitempty"`
    Aircraft  string   `json:"aircraft,omitempty" yaml:"aircraft,omitempty"`
    Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
    Notes     string   `json:"notes,omitempty" yaml:"notes,omitempty"`
    Legs      []Leg    `json:"legs" yaml:"legs"`
    StartDate Date     `json:"startDate,omitempty" yaml:"startDate,omitempty"` // derived
    EndDate   Date     `json:"endDate,omitempty" yaml:"endDate,omitempty"`     // derived
}

// TripList is the unit the store persists.
type TripList []Trip

type Leg struct {
    StartUTC *time.Time                `json:"startUtc,omitempty" yaml:"startUtc,omitempty"`
    EndUTC   *time.Time                `json:"endUtc,omitempty" yaml:"endUtc,omitempty"`
    From     string                    `json:"from,omitempty" yaml:"from,omitempty"`
    To       string                    `json:"to,omitempty" yaml:"to,omitempty"`
    FlightNo string                    `json:"flightNo,omitempty" yaml:"flightNo,omitempty"`
    Status   map[StatusKey]StatusEntry `json:"status" yaml:"status"`
}

type StatusEntry struct {
    State StatusState `json:"state" yaml:"state"`
    Note  string      `json:"note,omitempty" yaml:"note,omitempty"`
}

// LegRef points at a leg by its owning trip and position.
type LegRef struct {
    TripID string `json:"tripId"`
    Index  int    `json:"index"`
}

// DaySegment is the projection of one leg onto one UTC calendar day.
// Derived on every render; never stored.
type DaySegment struct {
    Day         Date     `json:"day"`
    StartMinute int      `json:"startMinute"`
    EndMinute   int      `json:"endMinute"`
    Lane        int      `json:"lane"`
    Leg         LegRef   `json:"leg"`
    Severity    Severity `json:"severity"`
}

// Board is the render input for a window of days.
type Board struct {
    Days []Date     `json:"days"`
    Rows []BoardRow `json:"rows"`
}

type BoardRow struct {
    TripID    string      `json:"tripId"`
    Client    string      `json:"client,omitempty"`
    Aircraft  string      `json:"aircraft,omitempty"`
    Severity  Severity    `json:"severity"`
    StartDate Date        `json:"startDate"`
    EndDate   Date        `json:"endDate"`
    Cells     []BoardCell `json:"cells"`
}

type BoardCell struct {
    Day      Date         `json:"day"`
    InRange  bool         `json:"inRange"`
    Lanes    int          `json:"lanes"` // lanes used by the aircraft on this day
    Segments []DaySegment `json:"segments"`
}

// Read models for API responses
type TripView struct {
    Trip
    Severity    Severity   `json:"severity"`
    LegSeverity []Severity `json:"legSeverity"`
}

type TripInput struct {
    Client   string   `json:"client,omitempty"`
    Aircraft string   `json:"aircraft,omitempty"`
    Tags     []string `json:"tags,omitempty"`
    Notes    string   `json:"notes,omitempty"`
    Legs     []Leg    `json:"legs,omitempty"`
}

// TripPatch updates metadata; nil fields are left untouched.
type TripPatch struct {
    Client   *string   `json:"client,omitempty"`
    Aircraft *string   `json:"aircraft,omitempty"`
    Tags     *[]string `json:"tags,omitempty"`
    Notes    *string   `json:"notes,omitempty"`
}

// LegPatch edits a leg in place. Clear* remove an endpoint.
type LegPatch struct {
    StartUTC   *time.Time `json:"startUtc,omitempty"`
    EndUTC     *time.Time `json:"endUtc,omitempty"`
    ClearStart bool       `json:"clearStart,omitempty"`
    ClearEnd   bool       `json:"clearEnd,omitempty"`
    From       *string    `json:"from,omitempty"`
    To         *string    `json:"to,omitempty"`
    FlightNo   *string    `json:"flightNo,omitempty"`
}

type StatusUpdate struct {
    State StatusState `json:"state"`
    Note  *string     `json:"note,omitempty"`
}
