package flightops

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/airport-operations/internal/model"
)

func testFlight(status string) *model.Flight {
	return &model.Flight{
		ID:           1,
		FlightNumber: "AB123",
		Origin:       "LHR",
		Destination:  "JFK",
		Status:       status,
	}
}

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		from, action string
		want         bool
	}{
		{model.FlightScheduled, ActionDepart, true},
		{model.FlightBoarding, ActionDepart, true},
		{model.FlightDelayed, ActionDepart, false},
		{model.FlightDeparted, ActionDepart, false},

		{model.FlightDeparted, ActionLand, true},
		{model.FlightLanded, ActionLand, true},
		{model.FlightScheduled, ActionLand, true},
		{model.FlightCancelled, ActionLand, false},
		{model.FlightEmergency, ActionLand, false},

		{model.FlightScheduled, ActionDelay, true},
		{model.FlightBoarding, ActionDelay, true},
		{model.FlightDeparted, ActionDelay, false},
		{model.FlightDelayed, ActionDelay, false},

		{model.FlightScheduled, ActionCancel, true},
		{model.FlightDelayed, ActionCancel, true},
		{model.FlightDeparted, ActionCancel, false},
		{model.FlightLanded, ActionCancel, false},

		{model.FlightDeparted, ActionEmergency, true},
		{model.FlightLanded, ActionEmergency, true},
		{model.FlightDelayed, ActionEmergency, true},
		{model.FlightCancelled, ActionEmergency, false},
		{model.FlightEmergency, ActionEmergency, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.action); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.action, got, c.want)
		}
	}
}

func TestBuildUnknownAction(t *testing.T) {
	_, err := Build(testFlight(model.FlightScheduled), "teleport", Params{}, time.Now())
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestBuildIllegalTransition(t *testing.T) {
	_, err := Build(testFlight(model.FlightCancelled), ActionDepart, Params{}, time.Now())
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
}

func TestDepartPlan(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	plan, err := Build(testFlight(model.FlightBoarding), ActionDepart, Params{}, now)
	if err != nil {
		t.Fatal(err)
	}
	if plan.NewStatus != model.FlightDeparted {
		t.Errorf("NewStatus = %s, want DEPARTED", plan.NewStatus)
	}
	if plan.ActualDeparture == nil || !plan.ActualDeparture.Equal(now) {
		t.Errorf("ActualDeparture = %v, want %v", plan.ActualDeparture, now)
	}
	if plan.ActualDeparture.Location() != time.UTC {
		t.Error("departure timestamp should be UTC")
	}
	if !plan.ReleaseRunway {
		t.Error("departure should release the runway")
	}
	if plan.EmitsAlert() {
		t.Error("departure should not emit an alert")
	}
}

func TestLandPlan(t *testing.T) {
	now := time.Now()
	plan, err := Build(testFlight(model.FlightDeparted), ActionLand, Params{}, now)
	if err != nil {
		t.Fatal(err)
	}
	if plan.NewStatus != model.FlightLanded {
		t.Errorf("NewStatus = %s, want LANDED", plan.NewStatus)
	}
	if plan.ActualArrival == nil {
		t.Fatal("landing should set ActualArrival")
	}
	if plan.ActualDeparture != nil {
		t.Error("landing should not touch ActualDeparture")
	}
	if !plan.ReleaseRunway {
		t.Error("landing should release the runway")
	}
}

func TestDelayDefaultsToThirtyMinutes(t *testing.T) {
	plan, err := Build(testFlight(model.FlightScheduled), ActionDelay, Params{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if plan.Shift != 30*time.Minute {
		t.Errorf("Shift = %v, want 30m", plan.Shift)
	}
	if plan.NewStatus != model.FlightDelayed {
		t.Errorf("NewStatus = %s, want DELAYED", plan.NewStatus)
	}
	if plan.AlertSeverity != model.SeverityWarning {
		t.Errorf("AlertSeverity = %s, want WARNING", plan.AlertSeverity)
	}
	if !strings.Contains(plan.AppendNote, "delayed 30 min") {
		t.Errorf("note %q should mention the delay", plan.AppendNote)
	}
}

func TestDelayBelowMinimumRejected(t *testing.T) {
	_, err := Build(testFlight(model.FlightScheduled), ActionDelay, Params{Minutes: 3}, time.Now())
	if !errors.Is(err, ErrDelayTooShort) {
		t.Fatalf("expected ErrDelayTooShort, got %v", err)
	}
}

func TestDelayWithReason(t *testing.T) {
	plan, err := Build(testFlight(model.FlightBoarding), ActionDelay,
		Params{Minutes: 45, Reason: "crosswind"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if plan.Shift != 45*time.Minute {
		t.Errorf("Shift = %v, want 45m", plan.Shift)
	}
	if !strings.Contains(plan.AppendNote, "crosswind") {
		t.Errorf("note %q should carry the reason", plan.AppendNote)
	}
	if !strings.Contains(plan.AlertMessage, "45 minutes") {
		t.Errorf("alert message %q should state the delay", plan.AlertMessage)
	}
	if plan.ReleaseRunway {
		t.Error("delay should not release the runway")
	}
}

func TestCancelPlan(t *testing.T) {
	plan, err := Build(testFlight(model.FlightDelayed), ActionCancel, Params{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if plan.NewStatus != model.FlightCancelled {
		t.Errorf("NewStatus = %s, want CANCELLED", plan.NewStatus)
	}
	if !plan.ReleaseRunway {
		t.Error("cancellation should release the runway")
	}
	if plan.AlertSeverity != model.SeverityCritical {
		t.Errorf("AlertSeverity = %s, want CRITICAL", plan.AlertSeverity)
	}
	if plan.ActualDeparture != nil || plan.ActualArrival != nil {
		t.Error("cancellation should not set actual times")
	}
}

func TestEmergencyPlan(t *testing.T) {
	plan, err := Build(testFlight(model.FlightDeparted), ActionEmergency,
		Params{Reason: "engine failure"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if plan.NewStatus != model.FlightEmergency {
		t.Errorf("NewStatus = %s, want EMERGENCY", plan.NewStatus)
	}
	if plan.ReleaseRunway {
		t.Error("emergency must keep the runway occupied")
	}
	if plan.AlertSeverity != model.SeverityEmergency {
		t.Errorf("AlertSeverity = %s, want EMERGENCY", plan.AlertSeverity)
	}
	if plan.AlertMessage != "engine failure" {
		t.Errorf("AlertMessage = %q, want the operator reason", plan.AlertMessage)
	}
}

func TestEmergencyDefaultMessage(t *testing.T) {
	plan, err := Build(testFlight(model.FlightScheduled), ActionEmergency, Params{}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plan.AlertMessage, "AB123") {
		t.Errorf("default message %q should name the flight", plan.AlertMessage)
	}
}
