// Package authz implements the authorization policy table.  The rules
// that a managed database would express as row-level security policies
// live here as an explicit, unit-testable predicate: one lookup per
// (role, entity, operation) triple, evaluated by handlers before any
// repository mutation.
package authz

import "github.com/iliyamo/airport-operations/internal/model"

// Entity names the protected resource classes.
type Entity string

const (
	EntityRunway    Entity = "runway"
	EntityFlight    Entity = "flight"
	EntityPassenger Entity = "passenger"
	EntityAlert     Entity = "alert"
	EntityRole      Entity = "role"
	EntityActivity  Entity = "activity"
)

// Operation names the actions a caller can request against an entity.
// OpUpdateStatus is the constrained flight path: STAFF may flip the
// status field directly but may not touch any other flight field.
type Operation string

const (
	OpRead         Operation = "read"
	OpInsert       Operation = "insert"
	OpUpdate       Operation = "update"
	OpDelete       Operation = "delete"
	OpUpdateStatus Operation = "update_status"
)

// policy maps entity -> operation -> set of roles allowed to perform it.
// Read access is intentionally identical across roles: every
// authenticated user sees the whole operational picture.
var policy = map[Entity]map[Operation]map[string]bool{
	EntityRunway: {
		OpRead:   anyRole(),
		OpInsert: roles(model.RoleAdmin, model.RoleATC),
		OpUpdate: roles(model.RoleAdmin, model.RoleATC),
		OpDelete: roles(model.RoleAdmin, model.RoleATC),
	},
	EntityFlight: {
		OpRead:         anyRole(),
		OpInsert:       roles(model.RoleAdmin, model.RoleATC),
		OpUpdate:       roles(model.RoleAdmin, model.RoleATC),
		OpDelete:       roles(model.RoleAdmin, model.RoleATC),
		OpUpdateStatus: anyRole(),
	},
	EntityPassenger: {
		OpRead:   anyRole(),
		OpInsert: anyRole(),
		OpUpdate: anyRole(),
		OpDelete: anyRole(),
	},
	EntityAlert: {
		OpRead:   anyRole(),
		OpInsert: anyRole(),
		OpUpdate: roles(model.RoleAdmin, model.RoleATC),
		OpDelete: roles(model.RoleAdmin, model.RoleATC),
	},
	EntityRole: {
		OpRead:   anyRole(),
		OpInsert: roles(model.RoleAdmin),
		OpUpdate: roles(model.RoleAdmin),
		OpDelete: roles(model.RoleAdmin),
	},
	EntityActivity: {
		OpRead:   anyRole(),
		OpInsert: anyRole(), // the recorder always writes as the acting user
		// no update/delete: the log is append-only for every role
	},
}

// CanPerform reports whether role may perform op on entity.  Unknown
// roles, entities and operations are all denied.
func CanPerform(role string, entity Entity, op Operation) bool {
	if !model.ValidRole(role) {
		return false
	}
	ops, ok := policy[entity]
	if !ok {
		return false
	}
	allowed, ok := ops[op]
	if !ok {
		return false
	}
	return allowed[role]
}

func roles(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func anyRole() map[string]bool {
	return roles(model.RoleAdmin, model.RoleATC, model.RoleStaff)
}
