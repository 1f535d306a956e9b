package utils

import "crypto/rand"

// ticketAlphabet is the character set for ticket identifiers.  Uppercase
// alphanumerics only, so tickets are easy to read over the radio.
const ticketAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ticketSuffixLen is the number of random characters after the prefix.
const ticketSuffixLen = 8

// maxUnbiasedByte is the largest multiple of len(ticketAlphabet) that
// fits in a byte; values at or above it are rejected so every alphabet
// character is equally likely.
const maxUnbiasedByte = 256 / len(ticketAlphabet) * len(ticketAlphabet)

// NewTicketID generates a passenger ticket identifier of the form
// TKT-XXXXXXXX where X is an uppercase letter or digit.  Uniqueness is
// enforced by the unique index on passengers.ticket_id; the caller
// retries on a duplicate-key error.
func NewTicketID() (string, error) {
	out := make([]byte, 0, 4+ticketSuffixLen)
	out = append(out, "TKT-"...)
	buf := make([]byte, 1)
	for len(out) < 4+ticketSuffixLen {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if int(buf[0]) >= maxUnbiasedByte {
			continue
		}
		out = append(out, ticketAlphabet[int(buf[0])%len(ticketAlphabet)])
	}
	return string(out), nil
}
