package schedule

import "tripboard/internal/model"

// StateSeverity maps a raw status state onto the board's colors.
// Unrecognized states count as not started so they never read as done.
func StateSeverity(s model.StatusState) model.Severity {
	switch s {
	case model.StateNotApplicable:
		return model.SeverityGrey
	case model.StateNotStarted:
		return model.SeverityRed
	case model.StateInProgress, model.StatePartial:
		return model.SeverityAmber
	case model.StateComplete:
		return model.SeverityGreen
	default:
		return model.SeverityRed
	}
}

// LegSeverity reduces a leg's status checks to one severity. Not-applicable
// checks are ignored; with nothing left the leg is grey.
func LegSeverity(leg model.Leg) model.Severity {
	set := map[model.Severity]bool{}
	for _, e := range leg.Status {
		set[StateSeverity(e.State)] = true
	}
	return reduce(set)
}

// TripSeverity reduces a trip's legs the same way, discarding grey legs.
func TripSeverity(trip model.Trip) model.Severity {
	set := map[model.Severity]bool{}
	for _, leg := range trip.Legs {
		set[LegSeverity(leg)] = true
	}
	return reduce(set)
}

// LegSeverities returns LegSeverity for each leg, by index.
func LegSeverities(trip model.Trip) []model.Severity {
	out := make([]model.Severity, len(trip.Legs))
	for i, leg := range trip.Legs {
		out[i] = LegSeverity(leg)
	}
	return out
}

// red > amber > green; grey is not a signal.
func reduce(set map[model.Severity]bool) model.Severity {
	switch {
	case set[model.SeverityRed]:
		return model.SeverityRed
	case set[model.SeverityAmber]:
		return model.SeverityAmber
	case set[model.SeverityGreen]:
		return model.SeverityGreen
	default:
		return model.SeverityGrey
	}
}
