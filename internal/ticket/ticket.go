// Package ticket generates the codes printed on tickets and scanned at the
// gate.
//
// The code format is a contract with gate tooling, not an implementation
// detail: the literal prefix "TICKET-" followed by exactly 8 characters
// drawn from A-Z and 0-9. Codes are random, not sequential; uniqueness is
// enforced by the booking ledger, which retries generation on collision.
package ticket

import "crypto/rand"

// Prefix is the fixed leading part of every ticket code.
const Prefix = "TICKET-"

// codeLength is the number of random characters after the prefix.
const codeLength = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCode returns a fresh ticket code such as "TICKET-7GQ2MK9A".
func NewCode() string {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		panic("ticket: rand failed: " + err.Error())
	}
	code := make([]byte, 0, len(Prefix)+codeLength)
	code = append(code, Prefix...)
	for _, v := range b {
		code = append(code, alphabet[int(v)%len(alphabet)])
	}
	return string(code)
}
