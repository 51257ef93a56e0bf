package response_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-io/eventhub/internal/api/handler/v1/response"
	"github.com/eventhub-io/eventhub/internal/domain"
)

func TestWriteReservationsCSV(t *testing.T) {
	starts := time.Date(2026, 9, 20, 20, 0, 0, 0, time.UTC)

	reservations := []domain.Reservation{
		{
			Code:        "EVT-00042",
			Seats:       3,
			TotalAmount: 105,
			Comment:     "aisle, please",
			Status:      domain.ReservationConfirmed,
			CreatedAt:   time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
			Event:       domain.Event{Title: "Jazz Night", StartsAt: starts},
			User:        domain.User{Name: "Alice", Email: "alice@example.com"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, response.WriteReservationsCSV(&buf, reservations))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "code", records[0][0])
	assert.Equal(t, []string{
		"EVT-00042",
		"CONFIRMED",
		"3",
		"105.00",
		"2026-08-01T10:30:00Z",
		"Jazz Night",
		"2026-09-20T20:00:00Z",
		"Alice",
		"alice@example.com",
		"aisle, please",
	}, records[1])
}

func TestNewReservationResponse(t *testing.T) {
	res := domain.Reservation{
		Code:   "EVT-00007",
		Status: domain.ReservationPending,
		Event:  domain.Event{StartsAt: time.Now().Add(30 * 24 * time.Hour)},
	}

	got := response.NewReservationResponse(res)
	assert.True(t, got.Cancellable)
	assert.Equal(t, "Pending", got.StatusDisplay.Label)

	res.Status = domain.ReservationCancelled
	got = response.NewReservationResponse(res)
	assert.False(t, got.Cancellable)
	assert.Equal(t, "Cancelled", got.StatusDisplay.Label)
}
