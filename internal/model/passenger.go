package model

import "time"

// Boarding status values stored in passengers.boarding_status.
const (
	BoardingCheckedIn = "CHECKED_IN"
	BoardingBoarding  = "BOARDING"
	BoardingBoarded   = "BOARDED"
	BoardingNoShow    = "NO_SHOW"
)

// ValidBoardingStatus reports whether s is a known boarding status.
func ValidBoardingStatus(s string) bool {
	switch s {
	case BoardingCheckedIn, BoardingBoarding, BoardingBoarded, BoardingNoShow:
		return true
	}
	return false
}

// Passenger mirrors the `passengers` table.  A passenger always belongs
// to a flight and is removed when the flight is deleted (ON DELETE
// CASCADE).  TicketID is generated by the service on insert and is
// globally unique.
//
// Fields:
//  ID             – primary key identifier.
//  FlightID       – owning flight (references flights.id).
//  FirstName      – given name.
//  LastName       – family name.
//  PassportNumber – travel document number.
//  SeatNumber     – assigned seat (nullable).
//  TicketID       – unique ticket identifier (TKT-XXXXXXXX).
//  BoardingStatus – CHECKED_IN, BOARDING, BOARDED or NO_SHOW.
//  Nationality    – passenger nationality.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Passenger struct {
	ID             uint64    // passengers.id
	FlightID       uint64    // passengers.flight_id
	FirstName      string    // passengers.first_name
	LastName       string    // passengers.last_name
	PassportNumber string    // passengers.passport_number
	SeatNumber     *string   // passengers.seat_number (nullable)
	TicketID       string    // passengers.ticket_id
	BoardingStatus string    // passengers.boarding_status
	Nationality    string    // passengers.nationality
	CreatedAt      time.Time // passengers.created_at
	UpdatedAt      time.Time // passengers.updated_at
}
