// Package flightops implements the flight status state machine.  The
// machine is pure: given the flight's current state and an operator
// action it validates the transition and returns a Plan describing the
// side effects to apply (timestamps, runway release, alert emission).
// Handlers translate the plan into repository calls; the repository
// re-checks the source status on write so a raced transition surfaces
// as a conflict instead of silently overwriting.
package flightops

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/airport-operations/internal/model"
)

// Operator actions accepted by Build.
const (
	ActionDepart    = "depart"
	ActionLand      = "land"
	ActionDelay     = "delay"
	ActionCancel    = "cancel"
	ActionEmergency = "emergency"
)

// Errors returned by Build.  ErrIllegalTransition maps to HTTP 409 so a
// caller holding a stale flight can refetch and retry; the others map
// to 400.
var (
	ErrUnknownAction     = errors.New("unknown transition action")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrDelayTooShort     = errors.New("delay must be at least 5 minutes")
)

// DefaultDelayMinutes is applied when a delay action carries no minutes.
const DefaultDelayMinutes = 30

// MinDelayMinutes is the smallest accepted delay.
const MinDelayMinutes = 5

// transition describes one row of the state machine: the destination
// status and the set of source statuses it may be reached from.
type transition struct {
	to   string
	from map[string]bool
}

// transitions is the machine itself.  DEPARTED is semi-terminal: it can
// only move on to LANDED or EMERGENCY.  LANDED and CANCELLED are
// terminal for normal operations; CANCELLED and EMERGENCY are never
// valid sources.
var transitions = map[string]transition{
	ActionDepart: {
		to:   model.FlightDeparted,
		from: statuses(model.FlightScheduled, model.FlightBoarding),
	},
	ActionLand: {
		to: model.FlightLanded,
		from: statuses(model.FlightScheduled, model.FlightBoarding,
			model.FlightDeparted, model.FlightLanded),
	},
	ActionDelay: {
		to:   model.FlightDelayed,
		from: statuses(model.FlightScheduled, model.FlightBoarding),
	},
	ActionCancel: {
		to: model.FlightCancelled,
		from: statuses(model.FlightScheduled, model.FlightBoarding,
			model.FlightDelayed),
	},
	ActionEmergency: {
		to: model.FlightEmergency,
		from: statuses(model.FlightScheduled, model.FlightBoarding,
			model.FlightDelayed, model.FlightDeparted, model.FlightLanded),
	},
}

// Params carries operator-supplied inputs for an action.  Minutes is
// only meaningful for delay (0 means DefaultDelayMinutes); Reason feeds
// the delay note and the emergency alert message.
type Params struct {
	Minutes int
	Reason  string
}

// Plan is the computed outcome of a valid transition.  ReleaseRunway is
// only meaningful when the flight currently holds a runway; the caller
// applies the release best-effort after the status write commits.
type Plan struct {
	Action          string
	NewStatus       string
	ActualDeparture *time.Time
	ActualArrival   *time.Time
	ReleaseRunway   bool
	Shift           time.Duration
	AppendNote      string
	AlertSeverity   string
	AlertTitle      string
	AlertMessage    string
}

// EmitsAlert reports whether applying the plan raises an alert.
func (p Plan) EmitsAlert() bool { return p.AlertSeverity != "" }

// CanTransition reports whether action is legal for a flight currently
// in status from.
func CanTransition(from, action string) bool {
	t, ok := transitions[action]
	return ok && t.from[from]
}

// Build validates the action against the flight's current status and
// returns the side-effect plan.  now is injected for testability.
func Build(f *model.Flight, action string, p Params, now time.Time) (Plan, error) {
	t, ok := transitions[action]
	if !ok {
		return Plan{}, ErrUnknownAction
	}
	if !t.from[f.Status] {
		return Plan{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.Status, t.to)
	}

	plan := Plan{Action: action, NewStatus: t.to}
	switch action {
	case ActionDepart:
		ts := now.UTC()
		plan.ActualDeparture = &ts
		plan.ReleaseRunway = true
	case ActionLand:
		ts := now.UTC()
		plan.ActualArrival = &ts
		plan.ReleaseRunway = true
	case ActionDelay:
		mins := p.Minutes
		if mins == 0 {
			mins = DefaultDelayMinutes
		}
		if mins < MinDelayMinutes {
			return Plan{}, ErrDelayTooShort
		}
		plan.Shift = time.Duration(mins) * time.Minute
		reason := p.Reason
		if reason == "" {
			reason = "no reason given"
		}
		plan.AppendNote = fmt.Sprintf("delayed %d min: %s", mins, reason)
		plan.AlertSeverity = model.SeverityWarning
		plan.AlertTitle = fmt.Sprintf("Flight %s delayed", f.FlightNumber)
		plan.AlertMessage = fmt.Sprintf("Flight %s delayed by %d minutes: %s",
			f.FlightNumber, mins, reason)
	case ActionCancel:
		plan.ReleaseRunway = true
		plan.AlertSeverity = model.SeverityCritical
		plan.AlertTitle = fmt.Sprintf("Flight %s cancelled", f.FlightNumber)
		plan.AlertMessage = fmt.Sprintf("Flight %s (%s-%s) has been cancelled",
			f.FlightNumber, f.Origin, f.Destination)
	case ActionEmergency:
		plan.AlertSeverity = model.SeverityEmergency
		plan.AlertTitle = fmt.Sprintf("EMERGENCY: flight %s", f.FlightNumber)
		msg := p.Reason
		if msg == "" {
			msg = fmt.Sprintf("Flight %s declared an emergency", f.FlightNumber)
		}
		plan.AlertMessage = msg
	}
	return plan, nil
}

func statuses(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
