package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketline/ticketline/internal/repository"
)

func TestValidationService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("redeems a ticket once", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "Alice", "alice@example.com")
		event := f.addEvent(t, "Tech Conference", 5)
		booking, err := f.booking.Book(ctx, event.ID, user.ID)
		require.NoError(t, err)

		result, err := f.validation.Validate(ctx, booking.TicketCode)
		require.NoError(t, err)
		require.Equal(t, "Tech Conference", result.EventName)
		require.Equal(t, user.ID, result.UserID)

		got, err := f.bookings.GetByCode(ctx, booking.TicketCode)
		require.NoError(t, err)
		require.True(t, got.Validated)
	})

	t.Run("second redemption is rejected", func(t *testing.T) {
		f := newFixture(t)
		user := f.addUser(t, "Alice", "alice@example.com")
		event := f.addEvent(t, "Tech Conference", 5)
		booking, err := f.booking.Book(ctx, event.ID, user.ID)
		require.NoError(t, err)

		_, err = f.validation.Validate(ctx, booking.TicketCode)
		require.NoError(t, err)
		_, err = f.validation.Validate(ctx, booking.TicketCode)
		require.ErrorIs(t, err, repository.ErrAlreadyValidated)

		got, err := f.bookings.GetByCode(ctx, booking.TicketCode)
		require.NoError(t, err)
		require.True(t, got.Validated)
	})

	t.Run("unknown code mutates nothing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.validation.Validate(ctx, "TICKET-NOPE0000")
		require.ErrorIs(t, err, repository.ErrTicketNotFound)
	})

	t.Run("empty code", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.validation.Validate(ctx, "")
		require.Error(t, err)
		require.NotErrorIs(t, err, repository.ErrTicketNotFound)
	})
}

func TestValidationService_ValidateConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.addUser(t, "Alice", "alice@example.com")
	event := f.addEvent(t, "Tech Conference", 5)
	booking, err := f.booking.Book(ctx, event.ID, user.ID)
	require.NoError(t, err)

	const validators = 16
	errs := make([]error, validators)
	var wg sync.WaitGroup
	for i := 0; i < validators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.validation.Validate(ctx, booking.TicketCode)
		}(i)
	}
	wg.Wait()

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, repository.ErrAlreadyValidated)
	}
	require.Equal(t, 1, successes)
}
