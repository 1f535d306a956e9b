package model

import "time"

// ActivityLogEntry mirrors the append-only `activity_log` table.  An
// entry is written after every successful mutation.  Entries are never
// updated or deleted; there is no retention policy.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user who performed the action.
//  Action     – free-text action name (e.g. "flight.departed").
//  EntityType – table the action touched (flight, runway, ...).
//  EntityID   – primary key of the touched row (nullable).
//  Details    – structured context, stored as JSON (nullable).
//  CreatedAt  – when the entry was written.
type ActivityLogEntry struct {
	ID         uint64    // activity_log.id
	UserID     uint64    // activity_log.user_id
	Action     string    // activity_log.action
	EntityType string    // activity_log.entity_type
	EntityID   *uint64   // activity_log.entity_id (nullable)
	Details    *string   // activity_log.details (nullable JSON text)
	CreatedAt  time.Time // activity_log.created_at
}
