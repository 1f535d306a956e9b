package model

import "time"

// Alert severity values stored in alerts.severity.
const (
	SeverityInfo      = "INFO"
	SeverityWarning   = "WARNING"
	SeverityCritical  = "CRITICAL"
	SeverityEmergency = "EMERGENCY"
)

// ValidSeverity reports whether s is a known alert severity.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical, SeverityEmergency:
		return true
	}
	return false
}

// Alert mirrors the `alerts` table.  Alerts may reference a flight, a
// runway, both or neither.  Invariant: an acknowledged alert is never
// active, and AcknowledgedBy/AcknowledgedAt are written exactly once.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – short summary.
//  Message        – full alert text.
//  Severity       – INFO, WARNING, CRITICAL or EMERGENCY.
//  FlightID       – related flight (nullable).
//  RunwayID       – related runway (nullable).
//  IsActive       – whether the alert is still active.
//  IsAcknowledged – whether an operator has acknowledged it.
//  AcknowledgedBy – user who acknowledged (nullable).
//  AcknowledgedAt – acknowledgement time (nullable).
//  CreatedBy      – user who raised the alert.
//  CreatedAt      – creation timestamp.
type Alert struct {
	ID             uint64     // alerts.id
	Title          string     // alerts.title
	Message        string     // alerts.message
	Severity       string     // alerts.severity
	FlightID       *uint64    // alerts.flight_id (nullable)
	RunwayID       *uint64    // alerts.runway_id (nullable)
	IsActive       bool       // alerts.is_active
	IsAcknowledged bool       // alerts.is_acknowledged
	AcknowledgedBy *uint64    // alerts.acknowledged_by (nullable)
	AcknowledgedAt *time.Time // alerts.acknowledged_at (nullable)
	CreatedBy      uint64     // alerts.created_by
	CreatedAt      time.Time  // alerts.created_at
}
