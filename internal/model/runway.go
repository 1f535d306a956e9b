package model

import "time"

// Runway status values stored in runways.status.
const (
	RunwayAvailable   = "AVAILABLE"
	RunwayOccupied    = "OCCUPIED"
	RunwayMaintenance = "MAINTENANCE"
	RunwayClosed      = "CLOSED"
)

// ValidRunwayStatus reports whether s is a known runway status.
func ValidRunwayStatus(s string) bool {
	switch s {
	case RunwayAvailable, RunwayOccupied, RunwayMaintenance, RunwayClosed:
		return true
	}
	return false
}

// Runway describes a physical runway.  Runways are uniquely identified
// by their name (e.g. "09L/27R").  A runway referenced by an active
// flight must never be AVAILABLE; the repository enforces this when the
// status is changed.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – unique runway designator.
//  LengthMeters – usable length in meters.
//  Status       – AVAILABLE, OCCUPIED, MAINTENANCE or CLOSED.
//  SurfaceType  – surface material (asphalt, concrete, ...).
//  Notes        – free-form operational notes (nullable).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Runway struct {
	ID           uint64    // runways.id
	Name         string    // runways.name
	LengthMeters uint32    // runways.length_meters
	Status       string    // runways.status
	SurfaceType  string    // runways.surface_type
	Notes        *string   // runways.notes (nullable)
	CreatedAt    time.Time // runways.created_at
	UpdatedAt    time.Time // runways.updated_at
}
