// Package repository defines the storage contracts for the ticketing
// backend and provides the in-memory implementation used by default.
//
// The event inventory, booking ledger, and identity store are separate
// interfaces so the services stay testable without a live database and the
// backing store can be swapped (see the postgres subpackage).
package repository

import (
	"context"
	"errors"

	"github.com/ticketline/ticketline/internal/model"
)

// ErrEventNotFound is returned when the requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrUserNotFound is returned when the requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrTicketNotFound is returned when no booking matches a ticket code.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSoldOut is returned when an event has no tickets left to reserve.
var ErrSoldOut = errors.New("event is sold out")

// ErrAlreadyValidated is returned when a ticket code has been redeemed before.
var ErrAlreadyValidated = errors.New("ticket already validated")

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already exists")

// EventStore is the event inventory: it owns event records and their
// remaining-ticket counters. Reserve and AddAttendee are the only mutations
// after creation, and both are driven solely by the booking service.
type EventStore interface {
	// Create inserts a new event with TicketsAvailable = TotalTickets.
	Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error)

	// GetByID returns the event or ErrEventNotFound.
	GetByID(ctx context.Context, id string) (*model.Event, error)

	// List returns all events in creation order.
	List(ctx context.Context) ([]model.Event, error)

	// Reserve atomically checks TicketsAvailable > 0 and decrements it.
	// Returns ErrEventNotFound or ErrSoldOut; the counter never goes
	// negative regardless of concurrent callers.
	Reserve(ctx context.Context, eventID string) error

	// AddAttendee appends a {userID, ticketCode} pair to the event's
	// attendee list. Called only after a successful Reserve, within the
	// same per-event critical section.
	AddAttendee(ctx context.Context, eventID, userID, ticketCode string) error

	// Attendees returns the event's attendee list in booking order.
	Attendees(ctx context.Context, eventID string) ([]model.Attendee, error)
}

// BookingStore is the booking ledger, keyed by ticket code.
type BookingStore interface {
	// Create issues a new booking with a fresh id and a ticket code that
	// is unique across the ledger (generation retries on collision).
	Create(ctx context.Context, userID, eventID string) (*model.Booking, error)

	// GetByCode returns the booking or ErrTicketNotFound.
	GetByCode(ctx context.Context, code string) (*model.Booking, error)

	// MarkValidated flips the booking's validated flag, exactly once.
	// The check-then-set is atomic: of any number of concurrent calls for
	// the same code, one gets the booking back and the rest get
	// ErrAlreadyValidated. Unknown codes get ErrTicketNotFound.
	MarkValidated(ctx context.Context, code string) (*model.Booking, error)

	// ListByUser returns the user's bookings in insertion order.
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
}

// UserStore is the identity store consumed by the core as a collaborator.
type UserStore interface {
	// Create inserts a user; ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error)

	// GetByID returns the user or ErrUserNotFound.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByEmail returns the user or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
