// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ticketline/ticketline/internal/model"
	"github.com/ticketline/ticketline/internal/repository"
	"github.com/ticketline/ticketline/internal/service"
)

// Handler holds all HTTP handlers for the ticketing API.
type Handler struct {
	auth       *service.AuthService
	events     *service.EventService
	booking    *service.BookingService
	validation *service.ValidationService
}

// New constructs a Handler.
func New(
	auth *service.AuthService,
	events *service.EventService,
	booking *service.BookingService,
	validation *service.ValidationService,
) *Handler {
	return &Handler{auth: auth, events: events, booking: booking, validation: validation}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.MessageResponse{Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

// RegisterUser handles POST /auth/register
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if _, err := h.auth.Register(r.Context(), req); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeMessage(w, http.StatusBadRequest, "Email already exists")
			return
		}
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Message: "Login successful", Token: token})
}

// ─── Events ───────────────────────────────────────────────────────────────────

// CreateEvent handles POST /events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.CreateEvent(r.Context(), req)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, model.CreateEventResponse{
		Message: "Event created successfully",
		EventID: event.ID,
	})
}

// ListEvents handles GET /events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListEvents(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeMessage(w, http.StatusNotFound, "Event not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ListAttendees handles GET /events/{id}/attendees
func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.events.Attendees(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeMessage(w, http.StatusNotFound, "Event not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "failed to list attendees")
		return
	}
	writeJSON(w, http.StatusOK, attendees)
}

// ─── Booking ──────────────────────────────────────────────────────────────────

// Book handles POST /events/{id}/book
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	booking, err := h.booking.Book(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			writeMessage(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, repository.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrSoldOut):
			writeMessage(w, http.StatusBadRequest, "Event is full")
		default:
			writeMessage(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, model.BookResponse{
		Message:    "Ticket booked successfully",
		TicketCode: booking.TicketCode,
	})
}

// MyBookings handles GET /my-bookings?userId=
// Without an explicit userId it falls back to the identity carried in the
// bearer token.
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = UserID(r.Context())
	}
	if userID == "" {
		writeMessage(w, http.StatusBadRequest, "userId is required")
		return
	}

	bookings, err := h.booking.MyBookings(r.Context(), userID)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// ─── Validation ───────────────────────────────────────────────────────────────

// Validate handles POST /tickets/validate
//
// An unknown code reports 404 and a spent one 400, with near-identical
// messages so the response does not advertise whether a guessed code
// exists.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.TicketCode == "" {
		writeMessage(w, http.StatusBadRequest, "ticketCode is required")
		return
	}

	result, err := h.validation.Validate(r.Context(), req.TicketCode)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTicketNotFound):
			writeMessage(w, http.StatusNotFound, "Invalid or already validated")
		case errors.Is(err, repository.ErrAlreadyValidated):
			writeMessage(w, http.StatusBadRequest, "Invalid/already validated")
		default:
			writeMessage(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, model.ValidateResponse{
		Message: "Ticket validated successfully",
		Event:   result.EventName,
		UserID:  result.UserID,
	})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
