package utils

import (
	"regexp"
	"testing"
)

var ticketPattern = regexp.MustCompile(`^TKT-[A-Z0-9]{8}$`)

func TestNewTicketIDFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := NewTicketID()
		if err != nil {
			t.Fatal(err)
		}
		if !ticketPattern.MatchString(id) {
			t.Fatalf("ticket %q does not match TKT-XXXXXXXX", id)
		}
	}
}

func TestNewTicketIDUsesFullAlphabet(t *testing.T) {
	seen := make(map[byte]bool)
	for i := 0; i < 2000; i++ {
		id, err := NewTicketID()
		if err != nil {
			t.Fatal(err)
		}
		for _, ch := range []byte(id[4:]) {
			seen[ch] = true
		}
	}
	for _, ch := range []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789") {
		if !seen[ch] {
			t.Errorf("character %c never drawn", ch)
		}
	}
}

func TestNewTicketIDUniqueness(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id, err := NewTicketID()
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate ticket after %d draws: %s", i, id)
		}
		seen[id] = true
	}
}
