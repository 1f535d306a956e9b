package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/airport-operations/internal/flightops"
	"github.com/iliyamo/airport-operations/internal/model"
)

// FlightRepo provides data access to the flights table. Status
// transitions are applied with a stored-status precondition so that two
// operators racing on the same flight cannot both win: the loser gets
// ErrConflict and must refetch.
type FlightRepo struct{ db *sql.DB }

// NewFlightRepo returns a new FlightRepo bound to the provided database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle for callers that open transactions.
func (r *FlightRepo) DB() *sql.DB { return r.db }

const flightCols = `id, flight_number, airline, origin, destination, status,
	scheduled_departure, scheduled_arrival, actual_departure, actual_arrival,
	runway_id, gate, aircraft_type, capacity, notes, created_by, created_at, updated_at`

func scanFlight(row interface{ Scan(...any) error }) (model.Flight, error) {
	var f model.Flight
	var actualDep, actualArr sql.NullTime
	var runwayID sql.NullInt64
	var gate, notes sql.NullString
	err := row.Scan(&f.ID, &f.FlightNumber, &f.Airline, &f.Origin, &f.Destination,
		&f.Status, &f.ScheduledDeparture, &f.ScheduledArrival, &actualDep, &actualArr,
		&runwayID, &gate, &f.AircraftType, &f.Capacity, &notes,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	if actualDep.Valid {
		t := actualDep.Time
		f.ActualDeparture = &t
	}
	if actualArr.Valid {
		t := actualArr.Time
		f.ActualArrival = &t
	}
	if runwayID.Valid {
		id := uint64(runwayID.Int64)
		f.RunwayID = &id
	}
	if gate.Valid {
		f.Gate = &gate.String
	}
	if notes.Valid {
		f.Notes = &notes.String
	}
	return f, nil
}

// Create inserts a flight in SCHEDULED status and populates its ID.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO flights (flight_number, airline, origin, destination, status,
		    scheduled_departure, scheduled_arrival, gate, aircraft_type, capacity, notes, created_by)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		f.FlightNumber, f.Airline, f.Origin, f.Destination, model.FlightScheduled,
		f.ScheduledDeparture.UTC(), f.ScheduledArrival.UTC(),
		f.Gate, f.AircraftType, f.Capacity, f.Notes, f.CreatedBy)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	f.Status = model.FlightScheduled
	return nil
}

// GetByID fetches a flight by id.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (model.Flight, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx,
		"SELECT "+flightCols+" FROM flights WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return f, ErrFlightNotFound
	}
	return f, err
}

// List returns flights ordered by scheduled departure, optionally
// filtered by status.
func (r *FlightRepo) List(ctx context.Context, status string) ([]model.Flight, error) {
	q := "SELECT " + flightCols + " FROM flights"
	var args []any
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY scheduled_departure"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// FlightPatch carries optional field updates for the full (admin/atc)
// update path. Nil pointers leave the column untouched.
type FlightPatch struct {
	Airline            *string
	Origin             *string
	Destination        *string
	ScheduledDeparture *time.Time
	ScheduledArrival   *time.Time
	Gate               *string
	AircraftType       *string
	Capacity           *uint32
	Notes              *string
}

// UpdateFields patches flight attributes other than status.
func (r *FlightRepo) UpdateFields(ctx context.Context, id uint64, p FlightPatch) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.Airline != nil {
		add("airline", *p.Airline)
	}
	if p.Origin != nil {
		add("origin", *p.Origin)
	}
	if p.Destination != nil {
		add("destination", *p.Destination)
	}
	if p.ScheduledDeparture != nil {
		add("scheduled_departure", p.ScheduledDeparture.UTC())
	}
	if p.ScheduledArrival != nil {
		add("scheduled_arrival", p.ScheduledArrival.UTC())
	}
	if p.Gate != nil {
		add("gate", *p.Gate)
	}
	if p.AircraftType != nil {
		add("aircraft_type", *p.AircraftType)
	}
	if p.Capacity != nil {
		add("capacity", *p.Capacity)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE flights SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
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

// UpdateStatusOnly sets the status column and nothing else. This is the
// constrained staff path: it bypasses the transition table on purpose
// and triggers none of the ATC side effects.
func (r *FlightRepo) UpdateStatusOnly(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE flights SET status=? WHERE id=?", status, id)
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

// ApplyTransition writes the outcome of a state-machine plan. The
// UPDATE carries a `status=fromStatus` precondition: zero rows affected
// with an existing flight means the stored state moved underneath the
// caller and surfaces as ErrConflict.
func (r *FlightRepo) ApplyTransition(ctx context.Context, id uint64, fromStatus string, plan flightops.Plan) error {
	sets := []string{"status=?"}
	args := []any{plan.NewStatus}
	if plan.ActualDeparture != nil {
		sets = append(sets, "actual_departure=?")
		args = append(args, plan.ActualDeparture.UTC())
	}
	if plan.ActualArrival != nil {
		sets = append(sets, "actual_arrival=?")
		args = append(args, plan.ActualArrival.UTC())
	}
	if plan.ReleaseRunway {
		sets = append(sets, "runway_id=NULL")
	}
	if plan.Shift > 0 {
		mins := int(plan.Shift / time.Minute)
		sets = append(sets,
			"scheduled_departure=DATE_ADD(scheduled_departure, INTERVAL ? MINUTE)",
			"scheduled_arrival=DATE_ADD(scheduled_arrival, INTERVAL ? MINUTE)")
		args = append(args, mins, mins)
	}
	if plan.AppendNote != "" {
		// CONCAT_WS skips a NULL notes column.
		sets = append(sets, "notes=CONCAT_WS('\n', notes, ?)")
		args = append(args, plan.AppendNote)
	}
	args = append(args, id, fromStatus)
	res, err := r.db.ExecContext(ctx,
		"UPDATE flights SET "+strings.Join(sets, ", ")+" WHERE id=? AND status=?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// AssignRunwayTx points a flight at a runway within the provided
// transaction. Terminal flights cannot take a runway. The caller pairs
// this with RunwayRepo.Occupy in the same transaction.
func (r *FlightRepo) AssignRunwayTx(ctx context.Context, tx *sql.Tx, flightID, runwayID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE flights SET runway_id=? WHERE id=? AND status NOT IN (?,?,?)",
		runwayID, flightID,
		model.FlightDeparted, model.FlightLanded, model.FlightCancelled)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM flights WHERE id=?)", flightID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrFlightNotFound
		}
		return ErrConflict
	}
	return nil
}

// Delete removes a flight. Its passengers go with it through the
// ON DELETE CASCADE foreign key.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flights WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFlightNotFound
	}
	return nil
}
