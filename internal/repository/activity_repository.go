package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airport-operations/internal/model"
)

// ActivityRepo appends to and reads from the activity_log table. The
// table is append-only: no update or delete method exists, for any
// role.
type ActivityRepo struct{ db *sql.DB }

// NewActivityRepo returns a new ActivityRepo bound to the database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Insert appends one log entry.
func (r *ActivityRepo) Insert(ctx context.Context, e *model.ActivityLogEntry) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_log (user_id, action, entity_type, entity_id, details) VALUES (?,?,?,?,?)",
		e.UserID, e.Action, e.EntityType, e.EntityID, e.Details)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// List returns entries newest first, optionally filtered by entity
// type and/or acting user. limit caps the result (default 100).
func (r *ActivityRepo) List(ctx context.Context, entityType string, userID uint64, limit int) ([]model.ActivityLogEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	q := "SELECT id, user_id, action, entity_type, entity_id, details, created_at FROM activity_log"
	where := []string{}
	args := []any{}
	if entityType != "" {
		where = append(where, "entity_type=?")
		args = append(args, entityType)
	}
	if userID != 0 {
		where = append(where, "user_id=?")
		args = append(args, userID)
	}
	for i, w := range where {
		if i == 0 {
			q += " WHERE " + w
		} else {
			q += " AND " + w
		}
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ActivityLogEntry{}
	for rows.Next() {
		var e model.ActivityLogEntry
		var entityID sql.NullInt64
		var details sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType,
			&entityID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if entityID.Valid {
			id := uint64(entityID.Int64)
			e.EntityID = &id
		}
		if details.Valid {
			e.Details = &details.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
