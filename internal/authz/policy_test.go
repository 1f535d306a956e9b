package authz

import (
	"testing"

	"github.com/iliyamo/airport-operations/internal/model"
)

func TestRunwayWritesRestrictedToAdminAndATC(t *testing.T) {
	for _, op := range []Operation{OpInsert, OpUpdate, OpDelete} {
		if !CanPerform(model.RoleAdmin, EntityRunway, op) {
			t.Errorf("ADMIN should be allowed runway %s", op)
		}
		if !CanPerform(model.RoleATC, EntityRunway, op) {
			t.Errorf("ATC should be allowed runway %s", op)
		}
		if CanPerform(model.RoleStaff, EntityRunway, op) {
			t.Errorf("STAFF should be denied runway %s", op)
		}
	}
}

func TestEveryRoleReadsEverything(t *testing.T) {
	entities := []Entity{EntityRunway, EntityFlight, EntityPassenger, EntityAlert, EntityRole, EntityActivity}
	for _, role := range []string{model.RoleAdmin, model.RoleATC, model.RoleStaff} {
		for _, e := range entities {
			if !CanPerform(role, e, OpRead) {
				t.Errorf("%s should be allowed to read %s", role, e)
			}
		}
	}
}

func TestStaffFlightAccess(t *testing.T) {
	if CanPerform(model.RoleStaff, EntityFlight, OpInsert) {
		t.Error("STAFF should not insert flights")
	}
	if CanPerform(model.RoleStaff, EntityFlight, OpUpdate) {
		t.Error("STAFF should not update flights")
	}
	if CanPerform(model.RoleStaff, EntityFlight, OpDelete) {
		t.Error("STAFF should not delete flights")
	}
	if !CanPerform(model.RoleStaff, EntityFlight, OpUpdateStatus) {
		t.Error("STAFF should be allowed the status-only flight update")
	}
}

func TestPassengerWritesOpenToAllRoles(t *testing.T) {
	for _, role := range []string{model.RoleAdmin, model.RoleATC, model.RoleStaff} {
		for _, op := range []Operation{OpInsert, OpUpdate, OpDelete} {
			if !CanPerform(role, EntityPassenger, op) {
				t.Errorf("%s should be allowed passenger %s", role, op)
			}
		}
	}
}

func TestAlertPolicy(t *testing.T) {
	for _, role := range []string{model.RoleAdmin, model.RoleATC, model.RoleStaff} {
		if !CanPerform(role, EntityAlert, OpInsert) {
			t.Errorf("%s should be allowed to raise alerts", role)
		}
	}
	if CanPerform(model.RoleStaff, EntityAlert, OpUpdate) {
		t.Error("STAFF should not acknowledge or edit alerts")
	}
	if CanPerform(model.RoleStaff, EntityAlert, OpDelete) {
		t.Error("STAFF should not delete alerts")
	}
}

func TestRoleManagementAdminOnly(t *testing.T) {
	for _, op := range []Operation{OpInsert, OpUpdate, OpDelete} {
		if !CanPerform(model.RoleAdmin, EntityRole, op) {
			t.Errorf("ADMIN should be allowed role %s", op)
		}
		if CanPerform(model.RoleATC, EntityRole, op) {
			t.Errorf("ATC should be denied role %s", op)
		}
		if CanPerform(model.RoleStaff, EntityRole, op) {
			t.Errorf("STAFF should be denied role %s", op)
		}
	}
}

func TestActivityLogAppendOnly(t *testing.T) {
	for _, role := range []string{model.RoleAdmin, model.RoleATC, model.RoleStaff} {
		if !CanPerform(role, EntityActivity, OpInsert) {
			t.Errorf("%s should be allowed to append activity", role)
		}
		if CanPerform(role, EntityActivity, OpUpdate) {
			t.Errorf("%s should not update activity entries", role)
		}
		if CanPerform(role, EntityActivity, OpDelete) {
			t.Errorf("%s should not delete activity entries", role)
		}
	}
}

func TestUnknownInputsDenied(t *testing.T) {
	if CanPerform("SUPERUSER", EntityFlight, OpRead) {
		t.Error("unknown role should be denied")
	}
	if CanPerform("", EntityFlight, OpRead) {
		t.Error("empty role should be denied")
	}
	if CanPerform(model.RoleAdmin, Entity("gate"), OpRead) {
		t.Error("unknown entity should be denied")
	}
	if CanPerform(model.RoleAdmin, EntityFlight, Operation("truncate")) {
		t.Error("unknown operation should be denied")
	}
	if CanPerform("admin", EntityFlight, OpRead) {
		t.Error("role comparison should be case-sensitive")
	}
}
