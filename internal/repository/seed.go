package repository

import (
	"context"
	"fmt"

	"github.com/ticketline/ticketline/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemo loads the demo accounts and events so a fresh memory-backed
// instance is immediately usable. Passwords follow the documented demo
// credentials (admin123 and so on).
func SeedDemo(ctx context.Context, users UserStore, events EventStore) error {
	demoUsers := []struct {
		name, email, password, role string
	}{
		{"Admin", "admin@example.com", "admin123", "admin"},
		{"Alice", "alice@example.com", "alice123", "user"},
		{"Bob", "bob@example.com", "bob123", "user"},
	}
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash demo password: %w", err)
		}
		if _, err := users.Create(ctx, u.name, u.email, string(hash), u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.email, err)
		}
	}

	demoEvents := []struct {
		name, date   string
		totalTickets int
	}{
		{"Tech Conference", "2025-11-10", 100},
		{"Music Fest", "2025-12-01", 50},
	}
	for _, e := range demoEvents {
		req := model.CreateEventRequest{Name: e.name, Date: e.date, TotalTickets: e.totalTickets}
		if _, err := events.Create(ctx, req); err != nil {
			return fmt.Errorf("seed event %s: %w", e.name, err)
		}
	}
	return nil
}
