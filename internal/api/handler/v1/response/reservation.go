package response

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/eventhub-io/eventhub/internal/domain"
)

type ReservationResponse struct {
	domain.Reservation
	StatusDisplay domain.StatusDisplay `json:"status_display"`
	Cancellable   bool                 `json:"cancellable"`
}

func NewReservationResponse(res domain.Reservation) ReservationResponse {
	return ReservationResponse{
		Reservation:   res,
		StatusDisplay: domain.ReservationStatusDisplays[res.Status],
		Cancellable:   res.CanBeCancelled(time.Now()),
	}
}

func NewReservationsResponse(reservations []domain.Reservation) []ReservationResponse {
	result := make([]ReservationResponse, len(reservations))
	for i, res := range reservations {
		result[i] = NewReservationResponse(res)
	}

	return result
}

// WriteReservationsCSV streams the reservation list as CSV, one row per
// reservation with its event and user details flattened.
func WriteReservationsCSV(w io.Writer, reservations []domain.Reservation) error {
	writer := csv.NewWriter(w)

	header := []string{"code", "status", "seats", "total_amount", "created_at", "event", "event_starts_at", "user_name", "user_email", "comment"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writer.Write -> %w", err)
	}

	for _, res := range reservations {
		record := []string{
			res.Code,
			string(res.Status),
			fmt.Sprintf("%d", res.Seats),
			fmt.Sprintf("%.2f", res.TotalAmount),
			res.CreatedAt.Format(time.RFC3339),
			res.Event.Title,
			res.Event.StartsAt.Format(time.RFC3339),
			res.User.Name,
			res.User.Email,
			res.Comment,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writer.Write -> %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}
