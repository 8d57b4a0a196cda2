package service

import (
	"context"
	"fmt"

	"github.com/ticketline/ticketline/internal/repository"
)

// ValidationResult is what the gate sees after a successful redemption.
type ValidationResult struct {
	EventName string
	UserID    string
}

// ValidationService redeems ticket codes at the point of entry.
type ValidationService struct {
	bookings repository.BookingStore
	events   repository.EventStore
}

// NewValidationService constructs a ValidationService.
func NewValidationService(
	bookings repository.BookingStore,
	events repository.EventStore,
) *ValidationService {
	return &ValidationService{bookings: bookings, events: events}
}

// Validate marks the booking for the given ticket code as used, exactly
// once. An unknown code fails with ErrTicketNotFound and a spent one with
// ErrAlreadyValidated; the two outcomes stay distinct here even if the
// HTTP layer chooses to blur them for the public caller.
func (s *ValidationService) Validate(ctx context.Context, ticketCode string) (*ValidationResult, error) {
	if ticketCode == "" {
		return nil, fmt.Errorf("ticketCode is required")
	}

	booking, err := s.bookings.MarkValidated(ctx, ticketCode)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{UserID: booking.UserID}
	event, err := s.events.GetByID(ctx, booking.EventID)
	if err == nil {
		result.EventName = event.Name
	}
	return result, nil
}
