// Package model defines the core domain types for the ticketing backend.
package model

import "time"

// User is an account in the identity store. The password is stored only as
// a bcrypt hash and never serialised.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Attendee is one entry in an event's attendee list: who holds a ticket and
// which code was issued to them.
type Attendee struct {
	UserID     string `json:"userId"`
	TicketCode string `json:"ticketCode"`
}

// Event represents a bookable occasion with a fixed ticket capacity.
//
// Invariant: 0 <= TicketsAvailable <= TotalTickets, and len(Attendees) is
// always TotalTickets - TicketsAvailable. Both fields are mutated only by
// the booking flow.
type Event struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Date             string     `json:"date"`
	TotalTickets     int        `json:"totalTickets"`
	TicketsAvailable int        `json:"ticketsAvailable"`
	Attendees        []Attendee `json:"attendees"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// IsSoldOut returns true when no tickets remain.
func (e *Event) IsSoldOut() bool {
	return e.TicketsAvailable <= 0
}

// Booking is one user's claim on one ticket unit of one event. The ticket
// code is the sole external handle used for validation at the gate.
// Validated transitions false to true exactly once and never reverts.
type Booking struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	EventID    string    `json:"eventId"`
	TicketCode string    `json:"ticketCode"`
	Validated  bool      `json:"validated"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ─── Request payloads ─────────────────────────────────────────────────────────

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateEventRequest is the payload for POST /events.
type CreateEventRequest struct {
	Name         string `json:"name"`
	Date         string `json:"date"`
	TotalTickets int    `json:"totalTickets"`
}

// BookRequest is the payload for POST /events/{id}/book.
type BookRequest struct {
	UserID string `json:"userId"`
}

// ValidateRequest is the payload for POST /tickets/validate.
type ValidateRequest struct {
	TicketCode string `json:"ticketCode"`
}

// ─── Response payloads ────────────────────────────────────────────────────────

// MessageResponse is the standard JSON envelope for plain outcomes and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the signed token back to the client.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// CreateEventResponse confirms event creation.
type CreateEventResponse struct {
	Message string `json:"message"`
	EventID string `json:"eventId"`
}

// EventSummary is the public projection of an event in listings.
type EventSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Date             string `json:"date"`
	TicketsAvailable int    `json:"ticketsAvailable"`
}

// BookResponse confirms a booking and hands over the ticket code.
type BookResponse struct {
	Message    string `json:"message"`
	TicketCode string `json:"ticketCode"`
}

// UserBooking is one entry in a user's booking history.
type UserBooking struct {
	Event      string `json:"event"`
	TicketCode string `json:"ticketCode"`
	Validated  bool   `json:"validated"`
}

// ValidateResponse reports a successful gate validation.
type ValidateResponse struct {
	Message string `json:"message"`
	Event   string `json:"event"`
	UserID  string `json:"userId"`
}

// AttendeeEntry is one row of the attendee listing, resolved to a username.
type AttendeeEntry struct {
	Username   string `json:"username"`
	TicketCode string `json:"ticketCode"`
}

// AttendeesResponse is the payload of GET /events/{id}/attendees.
type AttendeesResponse struct {
	Event     string          `json:"event"`
	Attendees []AttendeeEntry `json:"attendees"`
}
