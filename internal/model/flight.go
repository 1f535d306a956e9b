package model

import "time"

// Flight status values stored in flights.status.
const (
	FlightScheduled = "SCHEDULED"
	FlightBoarding  = "BOARDING"
	FlightDelayed   = "DELAYED"
	FlightDeparted  = "DEPARTED"
	FlightLanded    = "LANDED"
	FlightCancelled = "CANCELLED"
	FlightEmergency = "EMERGENCY"
)

// ValidFlightStatus reports whether s is a known flight status.
func ValidFlightStatus(s string) bool {
	switch s {
	case FlightScheduled, FlightBoarding, FlightDelayed, FlightDeparted,
		FlightLanded, FlightCancelled, FlightEmergency:
		return true
	}
	return false
}

// ActiveFlightStatus reports whether a flight in status s still holds
// operational resources.  A flight in DEPARTED, LANDED or CANCELLED no
// longer occupies a runway; everything else counts as active.
func ActiveFlightStatus(s string) bool {
	switch s {
	case FlightDeparted, FlightLanded, FlightCancelled:
		return false
	}
	return true
}

// TerminalFlightStatus reports whether s is a status from which only
// administrative correction, not normal transition, is expected.
func TerminalFlightStatus(s string) bool {
	return s == FlightLanded || s == FlightCancelled
}

// Flight mirrors the `flights` table.  ActualDeparture is set when the
// flight transitions to DEPARTED and ActualArrival when it transitions
// to LANDED.  RunwayID is cleared whenever the flight reaches DEPARTED,
// LANDED or CANCELLED.
//
// Fields:
//  ID                 – primary key identifier.
//  FlightNumber       – unique flight designator (e.g. "AA100").
//  Airline            – operating airline name.
//  Origin             – departure airport code.
//  Destination        – arrival airport code.
//  Status             – current flight status.
//  ScheduledDeparture – planned departure time.
//  ScheduledArrival   – planned arrival time.
//  ActualDeparture    – recorded departure time (nullable).
//  ActualArrival      – recorded arrival time (nullable).
//  RunwayID           – assigned runway (nullable, references runways.id).
//  Gate               – assigned gate (nullable).
//  AircraftType       – aircraft model (e.g. "B738").
//  Capacity           – passenger capacity.
//  Notes              – operational notes, delay reasons (nullable).
//  CreatedBy          – user who created the flight.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Flight struct {
	ID                 uint64     // flights.id
	FlightNumber       string     // flights.flight_number
	Airline            string     // flights.airline
	Origin             string     // flights.origin
	Destination        string     // flights.destination
	Status             string     // flights.status
	ScheduledDeparture time.Time  // flights.scheduled_departure
	ScheduledArrival   time.Time  // flights.scheduled_arrival
	ActualDeparture    *time.Time // flights.actual_departure (nullable)
	ActualArrival      *time.Time // flights.actual_arrival (nullable)
	RunwayID           *uint64    // flights.runway_id (nullable)
	Gate               *string    // flights.gate (nullable)
	AircraftType       string     // flights.aircraft_type
	Capacity           uint32     // flights.capacity
	Notes              *string    // flights.notes (nullable)
	CreatedBy          uint64     // flights.created_by
	CreatedAt          time.Time  // flights.created_at
	UpdatedAt          time.Time  // flights.updated_at
}
