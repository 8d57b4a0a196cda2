// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ticketline/ticketline/internal/model"
	"github.com/ticketline/ticketline/internal/repository"
)

// BookingService orchestrates the event inventory and the booking ledger to
// issue tickets.
type BookingService struct {
	events   repository.EventStore
	bookings repository.BookingStore
	users    repository.UserStore
	locks    *eventLocks
}

// NewBookingService constructs a BookingService with its dependencies.
func NewBookingService(
	events repository.EventStore,
	bookings repository.BookingStore,
	users repository.UserStore,
) *BookingService {
	return &BookingService{
		events:   events,
		bookings: bookings,
		users:    users,
		locks:    newEventLocks(),
	}
}

// Book claims one ticket of the event for the user and returns the booking
// carrying the issued ticket code.
//
// Reservation, ledger insert, and attendee append run under one per-event
// mutex, so a failed attempt leaves the inventory untouched and two
// concurrent attempts can never both claim the last ticket. The user is
// re-checked even though callers are presumed authenticated, to guard
// against stale or forged ids.
func (s *BookingService) Book(ctx context.Context, eventID, userID string) (*model.Booking, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	mu := s.locks.forEvent(eventID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.events.Reserve(ctx, eventID); err != nil {
		return nil, err
	}
	booking, err := s.bookings.Create(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if err := s.events.AddAttendee(ctx, eventID, userID, booking.TicketCode); err != nil {
		return nil, fmt.Errorf("record attendee: %w", err)
	}
	return booking, nil
}

// MyBookings returns the user's bookings in booking order, resolved to
// event names.
func (s *BookingService) MyBookings(ctx context.Context, userID string) ([]model.UserBooking, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]model.UserBooking, 0, len(bookings))
	for _, b := range bookings {
		entry := model.UserBooking{TicketCode: b.TicketCode, Validated: b.Validated}
		event, err := s.events.GetByID(ctx, b.EventID)
		if err != nil && !errors.Is(err, repository.ErrEventNotFound) {
			return nil, fmt.Errorf("resolve event: %w", err)
		}
		if event != nil {
			entry.Event = event.Name
		}
		out = append(out, entry)
	}
	return out, nil
}
