package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/airport-operations/internal/model"
)

// RunwayRepo provides data access to the runways table. The allocation
// guard lives here: a runway can only return to AVAILABLE when no
// active flight still references it, enforced in a single conditional
// UPDATE so concurrent callers cannot slip past the check.
type RunwayRepo struct{ db *sql.DB }

// NewRunwayRepo returns a new RunwayRepo bound to the provided database.
func NewRunwayRepo(db *sql.DB) *RunwayRepo { return &RunwayRepo{db: db} }

// DB exposes the underlying handle for callers that open transactions.
func (r *RunwayRepo) DB() *sql.DB { return r.db }

const runwayCols = "id, name, length_meters, status, surface_type, notes, created_at, updated_at"

func scanRunway(row interface{ Scan(...any) error }) (model.Runway, error) {
	var rw model.Runway
	var notes sql.NullString
	err := row.Scan(&rw.ID, &rw.Name, &rw.LengthMeters, &rw.Status,
		&rw.SurfaceType, &notes, &rw.CreatedAt, &rw.UpdatedAt)
	if err != nil {
		return rw, err
	}
	if notes.Valid {
		rw.Notes = &notes.String
	}
	return rw, nil
}

// Create inserts a runway and populates its generated ID.
func (r *RunwayRepo) Create(ctx context.Context, rw *model.Runway) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO runways (name, length_meters, status, surface_type, notes) VALUES (?,?,?,?,?)",
		rw.Name, rw.LengthMeters, rw.Status, rw.SurfaceType, rw.Notes)
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
	rw.ID = uint64(id)
	return nil
}

// GetByID fetches a runway by id.
func (r *RunwayRepo) GetByID(ctx context.Context, id uint64) (model.Runway, error) {
	rw, err := scanRunway(r.db.QueryRowContext(ctx,
		"SELECT "+runwayCols+" FROM runways WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return rw, ErrRunwayNotFound
	}
	return rw, err
}

// List returns all runways, optionally filtered by status.
func (r *RunwayRepo) List(ctx context.Context, status string) ([]model.Runway, error) {
	q := "SELECT " + runwayCols + " FROM runways"
	var args []any
	if status != "" {
		q += " WHERE status=?"
		args = append(args, status)
	}
	q += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Runway{}
	for rows.Next() {
		rw, err := scanRunway(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

// UpdateFields patches the mutable runway attributes. Nil pointers
// leave the column untouched.
func (r *RunwayRepo) UpdateFields(ctx context.Context, id uint64, name *string, lengthMeters *uint32, surfaceType, notes *string) error {
	sets := []string{}
	args := []any{}
	if name != nil {
		sets = append(sets, "name=?")
		args = append(args, strings.TrimSpace(*name))
	}
	if lengthMeters != nil {
		sets = append(sets, "length_meters=?")
		args = append(args, *lengthMeters)
	}
	if surfaceType != nil {
		sets = append(sets, "surface_type=?")
		args = append(args, *surfaceType)
	}
	if notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, *notes)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE runways SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetStatus changes a runway's status. A transition to AVAILABLE is
// rejected with ErrConflict while any active flight still has this
// runway assigned; the NOT EXISTS condition makes check and write one
// atomic statement. Other statuses are unrestricted.
func (r *RunwayRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	if status != model.RunwayAvailable {
		res, err := r.db.ExecContext(ctx,
			"UPDATE runways SET status=? WHERE id=?", status, id)
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
	res, err := r.db.ExecContext(ctx,
		`UPDATE runways SET status=?
		 WHERE id=? AND NOT EXISTS (
		     SELECT 1 FROM flights
		     WHERE runway_id=? AND status NOT IN (?,?,?)
		 )`,
		model.RunwayAvailable, id, id,
		model.FlightDeparted, model.FlightLanded, model.FlightCancelled)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the runway does not exist, it was already AVAILABLE,
		// or an active flight blocks the release.
		rw, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rw.Status == model.RunwayAvailable {
			return nil
		}
		return ErrConflict
	}
	return nil
}

// Release is the best-effort runway release performed after a flight
// reaches DEPARTED, LANDED or CANCELLED. It is a plain status write:
// the flight has already left its active state, so the guard in
// SetStatus would always pass.
func (r *RunwayRepo) Release(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE runways SET status=? WHERE id=?", model.RunwayAvailable, id)
	return err
}

// Occupy flips a runway from AVAILABLE to OCCUPIED. Zero rows affected
// means the runway was taken (or missing) and surfaces as ErrConflict /
// ErrRunwayNotFound so double-assignment cannot happen.
func (r *RunwayRepo) Occupy(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE runways SET status=? WHERE id=? AND status=?",
		model.RunwayOccupied, id, model.RunwayAvailable)
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
			"SELECT EXISTS(SELECT 1 FROM runways WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRunwayNotFound
		}
		return ErrConflict
	}
	return nil
}

// Delete removes a runway. Flights referencing it are detached by the
// ON DELETE SET NULL foreign key.
func (r *RunwayRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM runways WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRunwayNotFound
	}
	return nil
}
