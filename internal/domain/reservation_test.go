package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eventhub-io/eventhub/internal/domain"
)

func TestReservation_CanBeCancelled(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   domain.ReservationStatus
		startsAt time.Time
		want     bool
	}{
		{
			name:     "well before the window closes",
			status:   domain.ReservationPending,
			startsAt: now.Add(72 * time.Hour),
			want:     true,
		},
		{
			name:     "one minute outside the window",
			status:   domain.ReservationConfirmed,
			startsAt: now.Add(48*time.Hour + time.Minute),
			want:     true,
		},
		{
			name:     "exactly 48 hours before start",
			status:   domain.ReservationPending,
			startsAt: now.Add(48 * time.Hour),
			want:     false,
		},
		{
			name:     "one minute inside the window",
			status:   domain.ReservationPending,
			startsAt: now.Add(48*time.Hour - time.Minute),
			want:     false,
		},
		{
			name:     "event already started",
			status:   domain.ReservationConfirmed,
			startsAt: now.Add(-time.Hour),
			want:     false,
		},
		{
			name:     "already cancelled",
			status:   domain.ReservationCancelled,
			startsAt: now.Add(72 * time.Hour),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.Reservation{
				Status: tt.status,
				Event:  domain.Event{StartsAt: tt.startsAt},
			}

			assert.Equal(t, tt.want, r.CanBeCancelled(now))
		})
	}
}

func TestEvent_ReservedSeats(t *testing.T) {
	event := domain.Event{
		Capacity: 100,
		Reservations: []domain.Reservation{
			{Seats: 3, Status: domain.ReservationPending},
			{Seats: 5, Status: domain.ReservationConfirmed},
			{Seats: 4, Status: domain.ReservationCancelled},
		},
	}

	assert.Equal(t, 8, event.ReservedSeats())
}

func TestEvent_FillRate(t *testing.T) {
	event := domain.Event{Capacity: 10, AvailableSeats: 7}
	assert.InDelta(t, 30.0, event.FillRate(), 0.0001)

	empty := domain.Event{Capacity: 0, AvailableSeats: 0}
	assert.Zero(t, empty.FillRate())
}

func TestEvent_IsAvailable(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event domain.Event
		want  bool
	}{
		{
			name:  "published future event with seats",
			event: domain.Event{Status: domain.EventPublished, StartsAt: now.Add(time.Hour), AvailableSeats: 1},
			want:  true,
		},
		{
			name:  "draft event",
			event: domain.Event{Status: domain.EventDraft, StartsAt: now.Add(time.Hour), AvailableSeats: 1},
			want:  false,
		},
		{
			name:  "started event",
			event: domain.Event{Status: domain.EventPublished, StartsAt: now, AvailableSeats: 1},
			want:  false,
		},
		{
			name:  "sold out",
			event: domain.Event{Status: domain.EventPublished, StartsAt: now.Add(time.Hour), AvailableSeats: 0},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.IsAvailable(now))
		})
	}
}
