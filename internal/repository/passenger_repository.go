package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/airport-operations/internal/model"
	"github.com/iliyamo/airport-operations/internal/utils"
)

// PassengerRepo provides data access to the passengers table. Ticket
// identifiers are generated here on insert; the unique index on
// ticket_id backs global uniqueness, with one retry on the (unlikely)
// collision.
type PassengerRepo struct{ db *sql.DB }

// NewPassengerRepo returns a new PassengerRepo bound to the database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

const passengerCols = `id, flight_id, first_name, last_name, passport_number,
	seat_number, ticket_id, boarding_status, nationality, created_at, updated_at`

func scanPassenger(row interface{ Scan(...any) error }) (model.Passenger, error) {
	var p model.Passenger
	var seat sql.NullString
	err := row.Scan(&p.ID, &p.FlightID, &p.FirstName, &p.LastName, &p.PassportNumber,
		&seat, &p.TicketID, &p.BoardingStatus, &p.Nationality, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if seat.Valid {
		p.SeatNumber = &seat.String
	}
	return p, nil
}

// Create inserts a passenger with a freshly generated ticket ID and
// populates ID and TicketID on the model. A foreign key failure on
// flight_id surfaces as ErrFlightNotFound.
func (r *PassengerRepo) Create(ctx context.Context, p *model.Passenger) error {
	for attempt := 0; attempt < 2; attempt++ {
		ticket, err := utils.NewTicketID()
		if err != nil {
			return err
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO passengers (flight_id, first_name, last_name, passport_number,
			    seat_number, ticket_id, boarding_status, nationality)
			 VALUES (?,?,?,?,?,?,?,?)`,
			p.FlightID, p.FirstName, p.LastName, p.PassportNumber,
			p.SeatNumber, ticket, p.BoardingStatus, p.Nationality)
		if err != nil {
			if isDuplicate(err) && strings.Contains(err.Error(), "ticket_id") {
				continue // regenerate and retry once
			}
			if strings.Contains(strings.ToLower(err.Error()), "1452") {
				return ErrFlightNotFound // FK violation on flight_id
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = uint64(id)
		p.TicketID = ticket
		return nil
	}
	return ErrConflict
}

// GetByID fetches a passenger by id.
func (r *PassengerRepo) GetByID(ctx context.Context, id uint64) (model.Passenger, error) {
	p, err := scanPassenger(r.db.QueryRowContext(ctx,
		"SELECT "+passengerCols+" FROM passengers WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return p, ErrPassengerNotFound
	}
	return p, err
}

// ListByFlight returns all passengers of a flight ordered by last name.
func (r *PassengerRepo) ListByFlight(ctx context.Context, flightID uint64) ([]model.Passenger, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+passengerCols+" FROM passengers WHERE flight_id=? ORDER BY last_name, first_name",
		flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Passenger{}
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PassengerPatch carries optional field updates. The ticket ID is
// system-generated and never updatable.
type PassengerPatch struct {
	FirstName      *string
	LastName       *string
	PassportNumber *string
	SeatNumber     *string
	BoardingStatus *string
	Nationality    *string
}

// UpdateFields patches passenger attributes.
func (r *PassengerRepo) UpdateFields(ctx context.Context, id uint64, p PassengerPatch) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.FirstName != nil {
		add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		add("last_name", *p.LastName)
	}
	if p.PassportNumber != nil {
		add("passport_number", *p.PassportNumber)
	}
	if p.SeatNumber != nil {
		add("seat_number", *p.SeatNumber)
	}
	if p.BoardingStatus != nil {
		add("boarding_status", *p.BoardingStatus)
	}
	if p.Nationality != nil {
		add("nationality", *p.Nationality)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE passengers SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a passenger.
func (r *PassengerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM passengers WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPassengerNotFound
	}
	return nil
}
