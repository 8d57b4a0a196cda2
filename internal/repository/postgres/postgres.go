// Package postgres implements the repository store contracts on PostgreSQL
// using pgx directly (no ORM) for transparency and performance.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ticketline/ticketline/internal/model"
	"github.com/ticketline/ticketline/internal/repository"
	"github.com/ticketline/ticketline/internal/ticket"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// EventStore persists events and their attendee lists.
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore constructs an EventStore.
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

// Create inserts a new event with a full ticket pool.
func (s *EventStore) Create(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	event := &model.Event{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Date:             req.Date,
		TotalTickets:     req.TotalTickets,
		TicketsAvailable: req.TotalTickets,
		CreatedAt:        time.Now().UTC(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO events (id, name, date, total_tickets, tickets_available, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Name, event.Date, event.TotalTickets, event.TicketsAvailable, event.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// GetByID returns a single event, attendee list included, or ErrEventNotFound.
func (s *EventStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := s.db.QueryRow(ctx,
		`SELECT id, name, date, total_tickets, tickets_available, created_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Name, &e.Date, &e.TotalTickets, &e.TicketsAvailable, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	attendees, err := s.attendees(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Attendees = attendees
	return &e, nil
}

// List returns all events in creation order.
func (s *EventStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, date, total_tickets, tickets_available, created_at
		 FROM events
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Date, &e.TotalTickets, &e.TicketsAvailable, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Reserve decrements the ticket counter inside a transaction that holds a
// row-level lock on the event. SELECT ... FOR UPDATE blocks any concurrent
// reservation of the same event until this transaction resolves, so two
// callers can never both observe the last free ticket.
func (s *EventStore) Reserve(ctx context.Context, eventID string) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var available int
	err = tx.QueryRow(ctx,
		`SELECT tickets_available FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrEventNotFound
		}
		return fmt.Errorf("lock event row: %w", err)
	}
	if available <= 0 {
		return repository.ErrSoldOut
	}

	_, err = tx.Exec(ctx,
		`UPDATE events SET tickets_available = tickets_available - 1 WHERE id = $1`,
		eventID,
	)
	if err != nil {
		return fmt.Errorf("decrement tickets_available: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// AddAttendee appends a {userID, ticketCode} row for the event.
func (s *EventStore) AddAttendee(ctx context.Context, eventID, userID, ticketCode string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO attendees (event_id, user_id, ticket_code)
		 VALUES ($1, $2, $3)`,
		eventID, userID, ticketCode,
	)
	if err != nil {
		return fmt.Errorf("insert attendee: %w", err)
	}
	return nil
}

// Attendees returns the event's attendee list in booking order.
func (s *EventStore) Attendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.attendees(ctx, eventID)
}

func (s *EventStore) attendees(ctx context.Context, eventID string) ([]model.Attendee, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, ticket_code FROM attendees WHERE event_id = $1 ORDER BY id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	var attendees []model.Attendee
	for rows.Next() {
		var a model.Attendee
		if err := rows.Scan(&a.UserID, &a.TicketCode); err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

// BookingStore persists the booking ledger.
type BookingStore struct {
	db *pgxpool.Pool
}

// NewBookingStore constructs a BookingStore.
func NewBookingStore(db *pgxpool.Pool) *BookingStore {
	return &BookingStore{db: db}
}

// Create issues a booking with a fresh ticket code. The UNIQUE constraint
// on ticket_code is the authority on collisions; on a hit we regenerate
// and retry.
func (s *BookingStore) Create(ctx context.Context, userID, eventID string) (*model.Booking, error) {
	for {
		booking := &model.Booking{
			ID:         uuid.New().String(),
			UserID:     userID,
			EventID:    eventID,
			TicketCode: ticket.NewCode(),
			Validated:  false,
			CreatedAt:  time.Now().UTC(),
		}

		_, err := s.db.Exec(ctx,
			`INSERT INTO bookings (id, user_id, event_id, ticket_code, validated, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			booking.ID, booking.UserID, booking.EventID, booking.TicketCode, booking.Validated, booking.CreatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				continue
			}
			return nil, fmt.Errorf("insert booking: %w", err)
		}
		return booking, nil
	}
}

// GetByCode returns the booking for a ticket code or ErrTicketNotFound.
func (s *BookingStore) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	var b model.Booking
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, event_id, ticket_code, validated, created_at
		 FROM bookings WHERE ticket_code = $1`,
		code,
	).Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketCode, &b.Validated, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

// MarkValidated flips the validated flag with a conditional UPDATE, so the
// check and the write are one statement. A miss is then classified as
// unknown code or already validated.
func (s *BookingStore) MarkValidated(ctx context.Context, code string) (*model.Booking, error) {
	var b model.Booking
	err := s.db.QueryRow(ctx,
		`UPDATE bookings SET validated = TRUE
		 WHERE ticket_code = $1 AND validated = FALSE
		 RETURNING id, user_id, event_id, ticket_code, validated, created_at`,
		code,
	).Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketCode, &b.Validated, &b.CreatedAt)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mark validated: %w", err)
	}

	if _, err := s.GetByCode(ctx, code); err != nil {
		return nil, err
	}
	return nil, repository.ErrAlreadyValidated
}

// ListByUser returns the user's bookings in insertion order.
func (s *BookingStore) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, event_id, ticket_code, validated, created_at
		 FROM bookings
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &b.TicketCode, &b.Validated, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// UserStore persists user accounts.
type UserStore struct {
	db *pgxpool.Pool
}

// NewUserStore constructs a UserStore.
func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user, rejecting duplicate emails.
func (s *UserStore) Create(ctx context.Context, name, email, passwordHash, role string) (*model.User, error) {
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetByID returns the user or ErrUserNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1`, id)
}

// GetByEmail returns the user or ErrUserNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx, `SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = $1`, email)
}

func (s *UserStore) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
