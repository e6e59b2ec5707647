package model

import "fmt"

// StatusKey names one operational check on a leg.
type StatusKey string

const (
	StatusTimesConfirmed    StatusKey = "timesConfirmed"
	StatusCrew              StatusKey = "crew"
	StatusFlightPlan        StatusKey = "flightPlan"
	StatusHandling          StatusKey = "handling"
	StatusFuel              StatusKey = "fuel"
	StatusPermits           StatusKey = "permits"
	StatusSlots             StatusKey = "slots"
	StatusCatering          StatusKey = "catering"
	StatusPassengerManifest StatusKey = "passengerManifest"
	StatusGroundTransport   StatusKey = "groundTransport"
	StatusHotel             StatusKey = "hotel"
)

// StatusKeys is the closed set of checks every leg carries, in display order.
var StatusKeys = []StatusKey{
	StatusTimesConfirmed,
	StatusCrew,
	StatusFlightPlan,
	StatusHandling,
	StatusFuel,
	StatusPermits,
	StatusSlots,
	StatusCatering,
	StatusPassengerManifest,
	StatusGroundTransport,
	StatusHotel,
}

// Valid reports whether k belongs to StatusKeys.
func (k StatusKey) Valid() bool {
	for _, v := range StatusKeys {
		if v == k {
			return true
		}
	}
	return false
}

// StatusState is the raw value recorded against a status key.
type StatusState string

const (
	StateNotApplicable StatusState = "na"
	StateNotStarted    StatusState = "not_started"
	StateInProgress    StatusState = "in_progress"
	StatePartial       StatusState = "partial"
	StateComplete      StatusState = "complete"
)

// DefaultState is the least-complete state, used for missing or unknown values.
const DefaultState = StateNotStarted

// Known reports whether s is one of the recognized states.
func (s StatusState) Known() bool {
	switch s {
	case StateNotApplicable, StateNotStarted, StateInProgress, StatePartial, StateComplete:
		return true
	}
	return false
}

// Severity is the four-level summary used for legs and trips.
type Severity int

const (
	SeverityGrey Severity = iota // not applicable / no signal
	SeverityRed
	SeverityAmber
	SeverityGreen
)

func (s Severity) String() string {
	switch s {
	case SeverityGrey:
		return "grey"
	case SeverityRed:
		return "red"
	case SeverityAmber:
		return "amber"
	case SeverityGreen:
		return "green"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "grey":
		return SeverityGrey, true
	case "red":
		return SeverityRed, true
	case "amber":
		return SeverityAmber, true
	case "green":
		return SeverityGreen, true
	}
	return 0, false
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, ok := ParseSeverity(string(b))
	if !ok {
		return fmt.Errorf("invalid severity: %q", b)
	}
	*s = v
	return nil
}
