package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ticketline/ticketline/internal/model"
	"github.com/ticketline/ticketline/internal/ticket"
)

// MemoryEventStore keeps events in process memory. All accesses go through
// a single mutex; returned events are copies so callers never observe a
// record mid-mutation.
type MemoryEventStore struct {
	mu     sync.Mutex
	events map[string]*model.Event
	order  []string
}

// NewMemoryEventStore constructs an empty MemoryEventStore.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{events: make(map[string]*model.Event)}
}

// Create inserts a new event with a generated UUID and a full ticket pool.
func (s *MemoryEventStore) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Date:             req.Date,
		TotalTickets:     req.TotalTickets,
		TicketsAvailable: req.TotalTickets,
		CreatedAt:        time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = event
	s.order = append(s.order, event.ID)
	return copyEvent(event), nil
}

// GetByID returns a copy of the event or ErrEventNotFound.
func (s *MemoryEventStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return copyEvent(event), nil
}

// List returns all events in creation order.
func (s *MemoryEventStore) List(ctx context.Context) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]model.Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, *copyEvent(s.events[id]))
	}
	return events, nil
}

// Reserve decrements the event's ticket counter if any tickets remain.
// Check and decrement happen under the store mutex, so two concurrent
// callers can never both claim the last ticket.
func (s *MemoryEventStore) Reserve(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return ErrEventNotFound
	}
	if event.TicketsAvailable <= 0 {
		return ErrSoldOut
	}
	event.TicketsAvailable--
	return nil
}

// AddAttendee appends to the event's attendee list.
func (s *MemoryEventStore) AddAttendee(ctx context.Context, eventID, userID, ticketCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return ErrEventNotFound
	}
	event.Attendees = append(event.Attendees, model.Attendee{UserID: userID, TicketCode: ticketCode})
	return nil
}

// Attendees returns the event's attendee list in booking order.
func (s *MemoryEventStore) Attendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	attendees := make([]model.Attendee, len(event.Attendees))
	copy(attendees, event.Attendees)
	return attendees, nil
}

func copyEvent(e *model.Event) *model.Event {
	out := *e
	out.Attendees = make([]model.Attendee, len(e.Attendees))
	copy(out.Attendees, e.Attendees)
	return &out
}

// MemoryBookingStore keeps the booking ledger in process memory, indexed by
// ticket code.
type MemoryBookingStore struct {
	mu     sync.Mutex
	byCode map[string]*model.Booking
	order  []string
}

// NewMemoryBookingStore constructs an empty MemoryBookingStore.
func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{byCode: make(map[string]*model.Booking)}
}

// Create issues a booking with a fresh UUID and a ticket code unique across
// the ledger. On the (vanishingly rare) code collision it regenerates.
func (s *MemoryBookingStore) Create(ctx context.Context, userID, eventID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := ticket.NewCode()
	for {
		if _, taken := s.byCode[code]; !taken {
			break
		}
		code = ticket.NewCode()
	}

	booking := &model.Booking{
		ID:         uuid.New().String(),
		UserID:     userID,
		EventID:    eventID,
		TicketCode: code,
		Validated:  false,
		CreatedAt:  time.Now().UTC(),
	}
	s.byCode[code] = booking
	s.order = append(s.order, code)

	out := *booking
	return &out, nil
}

// GetByCode returns a copy of the booking or ErrTicketNotFound.
func (s *MemoryBookingStore) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.byCode[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	out := *booking
	return &out, nil
}

// MarkValidated flips the validated flag exactly once. The read-check-write
// runs under the store mutex, so concurrent validators of the same code get
// exactly one success.
func (s *MemoryBookingStore) MarkValidated(ctx context.Context, code string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.byCode[code]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if booking.Validated {
		return nil, ErrAlreadyValidated
	}
	booking.Validated = true
	out := *booking
	return &out, nil
}

// ListByUser returns the user's bookings in insertion order.
func (s *MemoryBookingStore) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bookings []model.Booking
	for _, code := range s.order {
		if b := s.byCode[code]; b.UserID == userID {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

// MemoryUserStore keeps user accounts in process memory.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
}

// NewMemoryUserStore constructs an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

// Create inserts a user, rejecting duplicate emails.
func (s *MemoryUserStore) Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[email]; taken {
		return nil, ErrDuplicateEmail
	}
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	out := *user
	return &out, nil
}

// GetByID returns the user or ErrUserNotFound.
func (s *MemoryUserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

// GetByEmail returns the user or ErrUserNotFound.
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}
