package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/ticketline/ticketline/internal/model"
	"github.com/ticketline/ticketline/internal/repository"
	"github.com/ticketline/ticketline/internal/service"
)

var testSecret = []byte("test-secret")

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	events := repository.NewMemoryEventStore()
	bookings := repository.NewMemoryBookingStore()
	users := repository.NewMemoryUserStore()

	h := New(
		service.NewAuthService(users, testSecret),
		service.NewEventService(events, users),
		service.NewBookingService(events, bookings, users),
		service.NewValidationService(bookings, events),
	)
	return Routes(h, testSecret)
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// signUp registers a user, logs in, and returns the token plus the user id
// carried in its claims.
func signUp(t *testing.T, router http.Handler, name, email, password string) (token, userID string) {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/auth/register", "", model.RegisterRequest{
		Name: name, Email: email, Password: password, Role: "user",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodPost, "/auth/login", "", model.LoginRequest{
		Email: email, Password: password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeBody[model.LoginResponse](t, rec)
	require.NotEmpty(t, login.Token)

	parsed, err := jwt.Parse(login.Token, func(*jwt.Token) (any, error) { return testSecret, nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	id, _ := claims["id"].(string)
	require.NotEmpty(t, id)
	return login.Token, id
}

func createEvent(t *testing.T, router http.Handler, token, name string, total int) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/events", token, model.CreateEventRequest{
		Name: name, Date: "2025-11-10", TotalTickets: total,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[model.CreateEventResponse](t, rec)
	require.NotEmpty(t, resp.EventID)
	return resp.EventID
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("register and login", func(t *testing.T) {
		token, userID := signUp(t, router, "Alice", "alice@example.com", "alice123")
		require.NotEmpty(t, token)
		require.NotEmpty(t, userID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/auth/register", "", model.RegisterRequest{
			Name: "Alice Again", Email: "alice@example.com", Password: "x", Role: "user",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email already exists", decodeBody[model.MessageResponse](t, rec).Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/auth/register", "", model.RegisterRequest{Name: "X"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/auth/login", "", model.LoginRequest{
			Email: "alice@example.com", Password: "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid credentials", decodeBody[model.MessageResponse](t, rec).Message)
	})
}

func TestEventEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token, _ := signUp(t, router, "Olga", "olga@example.com", "organizer1")

	t.Run("create requires auth", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events", "", model.CreateEventRequest{
			Name: "X", Date: "2025-11-10", TotalTickets: 5,
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create, list, get", func(t *testing.T) {
		eventID := createEvent(t, router, token, "Tech Conference", 100)

		rec := do(t, router, http.MethodGet, "/events", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		summaries := decodeBody[[]model.EventSummary](t, rec)
		require.Len(t, summaries, 1)
		require.Equal(t, eventID, summaries[0].ID)
		require.Equal(t, 100, summaries[0].TicketsAvailable)

		rec = do(t, router, http.MethodGet, "/events/"+eventID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		event := decodeBody[model.Event](t, rec)
		require.Equal(t, "Tech Conference", event.Name)
		require.Equal(t, 100, event.TotalTickets)
	})

	t.Run("get unknown event", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/events/nope", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Event not found", decodeBody[model.MessageResponse](t, rec).Message)
	})

	t.Run("create rejects bad payload", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events", token, model.CreateEventRequest{Name: "X"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookingEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token, aliceID := signUp(t, router, "Alice", "alice@example.com", "alice123")
	_, bobID := signUp(t, router, "Bob", "bob@example.com", "bob123")
	eventID := createEvent(t, router, token, "Secret Show", 1)

	t.Run("booking requires auth", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events/"+eventID+"/book", "", model.BookRequest{UserID: aliceID})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events/nope/book", token, model.BookRequest{UserID: aliceID})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Event not found", decodeBody[model.MessageResponse](t, rec).Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events/"+eventID+"/book", token, model.BookRequest{UserID: "forged"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "User not found", decodeBody[model.MessageResponse](t, rec).Message)
	})

	var ticketCode string

	t.Run("book the last ticket", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events/"+eventID+"/book", token, model.BookRequest{UserID: aliceID})
		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[model.BookResponse](t, rec)
		require.Equal(t, "Ticket booked successfully", resp.Message)
		require.True(t, strings.HasPrefix(resp.TicketCode, "TICKET-"))
		ticketCode = resp.TicketCode
	})

	t.Run("sold out", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/events/"+eventID+"/book", token, model.BookRequest{UserID: bobID})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Event is full", decodeBody[model.MessageResponse](t, rec).Message)
	})

	t.Run("my bookings", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/my-bookings?userId="+aliceID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		bookings := decodeBody[[]model.UserBooking](t, rec)
		require.Equal(t, []model.UserBooking{
			{Event: "Secret Show", TicketCode: ticketCode, Validated: false},
		}, bookings)
	})

	t.Run("my bookings falls back to token identity", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/my-bookings", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		bookings := decodeBody[[]model.UserBooking](t, rec)
		require.Len(t, bookings, 1)
		require.Equal(t, ticketCode, bookings[0].TicketCode)
	})

	t.Run("attendee listing", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, fmt.Sprintf("/events/%s/attendees", eventID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[model.AttendeesResponse](t, rec)
		require.Equal(t, "Secret Show", resp.Event)
		require.Equal(t, []model.AttendeeEntry{
			{Username: "Alice", TicketCode: ticketCode},
		}, resp.Attendees)
	})

	t.Run("validate", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/tickets/validate", token, model.ValidateRequest{TicketCode: ticketCode})
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[model.ValidateResponse](t, rec)
		require.Equal(t, "Ticket validated successfully", resp.Message)
		require.Equal(t, "Secret Show", resp.Event)
		require.Equal(t, aliceID, resp.UserID)
	})

	t.Run("validate twice", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/tickets/validate", token, model.ValidateRequest{TicketCode: ticketCode})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid/already validated", decodeBody[model.MessageResponse](t, rec).Message)
	})

	t.Run("validate unknown code", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/tickets/validate", token, model.ValidateRequest{TicketCode: "TICKET-NOPE0000"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Invalid or already validated", decodeBody[model.MessageResponse](t, rec).Message)
	})

	t.Run("validate requires a code", func(t *testing.T) {
		rec := do(t, router, http.MethodPost, "/tickets/validate", token, model.ValidateRequest{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "ticketCode is required", decodeBody[model.MessageResponse](t, rec).Message)
	})
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	router := newTestRouter(t)
	rec := do(t, router, http.MethodGet, "/my-bookings?userId=x", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
