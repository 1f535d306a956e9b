package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airport-operations/internal/model"
)

// AlertRepo provides data access to the alerts table. Acknowledgement
// is written with an is_acknowledged=0 precondition so it happens
// exactly once; a second acknowledge sees zero rows affected and
// surfaces as ErrConflict without touching acknowledged_by/at again.
type AlertRepo struct{ db *sql.DB }

// NewAlertRepo returns a new AlertRepo bound to the provided database.
func NewAlertRepo(db *sql.DB) *AlertRepo { return &AlertRepo{db: db} }

const alertCols = `id, title, message, severity, flight_id, runway_id,
	is_active, is_acknowledged, acknowledged_by, acknowledged_at, created_by, created_at`

func scanAlert(row interface{ Scan(...any) error }) (model.Alert, error) {
	var a model.Alert
	var flightID, runwayID, ackBy sql.NullInt64
	var ackAt sql.NullTime
	err := row.Scan(&a.ID, &a.Title, &a.Message, &a.Severity, &flightID, &runwayID,
		&a.IsActive, &a.IsAcknowledged, &ackBy, &ackAt, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		return a, err
	}
	if flightID.Valid {
		id := uint64(flightID.Int64)
		a.FlightID = &id
	}
	if runwayID.Valid {
		id := uint64(runwayID.Int64)
		a.RunwayID = &id
	}
	if ackBy.Valid {
		id := uint64(ackBy.Int64)
		a.AcknowledgedBy = &id
	}
	if ackAt.Valid {
		t := ackAt.Time
		a.AcknowledgedAt = &t
	}
	return a, nil
}

// Create inserts an active, unacknowledged alert and populates its ID.
func (r *AlertRepo) Create(ctx context.Context, a *model.Alert) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (title, message, severity, flight_id, runway_id, is_active, created_by)
		 VALUES (?,?,?,?,?,1,?)`,
		a.Title, a.Message, a.Severity, a.FlightID, a.RunwayID, a.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.IsActive = true
	return nil
}

// GetByID fetches an alert by id.
func (r *AlertRepo) GetByID(ctx context.Context, id uint64) (model.Alert, error) {
	a, err := scanAlert(r.db.QueryRowContext(ctx,
		"SELECT "+alertCols+" FROM alerts WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return a, ErrAlertNotFound
	}
	return a, err
}

// List returns alerts newest first. When activeOnly is true only
// active alerts are returned.
func (r *AlertRepo) List(ctx context.Context, activeOnly bool) ([]model.Alert, error) {
	q := "SELECT " + alertCols + " FROM alerts"
	if activeOnly {
		q += " WHERE is_active=1"
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Acknowledge marks an alert acknowledged by userID. Acknowledging
// deactivates the alert in the same statement, keeping the invariant
// that an acknowledged alert is never active.
func (r *AlertRepo) Acknowledge(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alerts
		 SET is_acknowledged=1, is_active=0, acknowledged_by=?, acknowledged_at=UTC_TIMESTAMP()
		 WHERE id=? AND is_acknowledged=0`,
		userID, id)
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
		return ErrConflict // already acknowledged
	}
	return nil
}

// SetActive flips the is_active flag without acknowledging. The same
// is_acknowledged=0 precondition as Acknowledge guards the write: an
// acknowledged alert can never come back active, so flipping one is
// ErrConflict.
func (r *AlertRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE alerts SET is_active=? WHERE id=? AND is_acknowledged=0", active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		a, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a.IsAcknowledged {
			return ErrConflict
		}
		// Existing row, same value: nothing to do.
	}
	return nil
}

// Delete removes an alert.
func (r *AlertRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM alerts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAlertNotFound
	}
	return nil
}
