package model

import "testing"

func TestValidFlightStatus(t *testing.T) {
	for _, s := range []string{FlightScheduled, FlightBoarding, FlightDelayed,
		FlightDeparted, FlightLanded, FlightCancelled, FlightEmergency} {
		if !ValidFlightStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []string{"", "scheduled", "TAXIING"} {
		if ValidFlightStatus(s) {
			t.Errorf("%s should be invalid", s)
		}
	}
}

func TestActiveFlightStatus(t *testing.T) {
	cases := map[string]bool{
		FlightScheduled: true,
		FlightBoarding:  true,
		FlightDelayed:   true,
		FlightEmergency: true,
		FlightDeparted:  false,
		FlightLanded:    false,
		FlightCancelled: false,
	}
	for s, want := range cases {
		if got := ActiveFlightStatus(s); got != want {
			t.Errorf("ActiveFlightStatus(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestTerminalFlightStatus(t *testing.T) {
	if !TerminalFlightStatus(FlightLanded) || !TerminalFlightStatus(FlightCancelled) {
		t.Error("LANDED and CANCELLED are terminal")
	}
	for _, s := range []string{FlightScheduled, FlightBoarding, FlightDelayed,
		FlightDeparted, FlightEmergency} {
		if TerminalFlightStatus(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleAdmin, RoleATC, RoleStaff} {
		if !ValidRole(r) {
			t.Errorf("%s should be a valid role", r)
		}
	}
	for _, r := range []string{"", "admin", "PILOT"} {
		if ValidRole(r) {
			t.Errorf("%s should be rejected", r)
		}
	}
}
