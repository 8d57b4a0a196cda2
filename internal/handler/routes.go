package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Routes assembles the full API router with its middleware stack. Mutating
// routes sit behind bearer-token auth; listings and the auth endpoints are
// public.
func Routes(h *Handler, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(CORS)                    // permissive CORS for browser frontends

	r.Get("/health", HealthCheck)

	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.Login)

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)
		r.Get("/{id}/attendees", h.ListAttendees)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(jwtSecret))
			r.Post("/", h.CreateEvent)
			r.Post("/{id}/book", h.Book)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(jwtSecret))
		r.Get("/my-bookings", h.MyBookings)
		r.Post("/tickets/validate", h.Validate)
	})

	return r
}
