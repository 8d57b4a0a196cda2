package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ticketline/ticketline/internal/model"
	"github.com/ticketline/ticketline/internal/repository"
)

// EventService covers the organizer-facing event surface: creation,
// listing, and the attendee projection.
type EventService struct {
	events repository.EventStore
	users  repository.UserStore
}

// NewEventService constructs an EventService.
func NewEventService(events repository.EventStore, users repository.UserStore) *EventService {
	return &EventService{events: events, users: users}
}

// CreateEvent validates the request and delegates to the inventory.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Date = strings.TrimSpace(req.Date)
	if req.Name == "" || req.Date == "" || req.TotalTickets == 0 {
		return nil, fmt.Errorf("all fields are required")
	}
	if req.TotalTickets < 0 {
		return nil, fmt.Errorf("totalTickets must be a positive integer")
	}
	if req.TotalTickets > 100_000 {
		return nil, fmt.Errorf("totalTickets cannot exceed 100,000")
	}
	return s.events.Create(ctx, req)
}

// ListEvents returns the public projection of all events.
func (s *EventService) ListEvents(ctx context.Context) ([]model.EventSummary, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	summaries := make([]model.EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, model.EventSummary{
			ID:               e.ID,
			Name:             e.Name,
			Date:             e.Date,
			TicketsAvailable: e.TicketsAvailable,
		})
	}
	return summaries, nil
}

// GetEvent returns a single event by id.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}
	return s.events.GetByID(ctx, id)
}

// Attendees returns the event name and its attendee list with user ids
// resolved to usernames. Users deleted from the identity store show up
// with an empty username rather than failing the listing.
func (s *EventService) Attendees(ctx context.Context, eventID string) (*model.AttendeesResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	attendees, err := s.events.Attendees(ctx, eventID)
	if err != nil {
		return nil, err
	}

	entries := make([]model.AttendeeEntry, 0, len(attendees))
	for _, a := range attendees {
		entry := model.AttendeeEntry{TicketCode: a.TicketCode}
		user, err := s.users.GetByID(ctx, a.UserID)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("resolve attendee user: %w", err)
		}
		if user != nil {
			entry.Username = user.Name
		}
		entries = append(entries, entry)
	}
	return &model.AttendeesResponse{Event: event.Name, Attendees: entries}, nil
}
