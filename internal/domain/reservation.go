package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// CancellationWindow is the cutoff before an event's start time after
// which a reservation can no longer be cancelled.
const CancellationWindow = 48 * time.Hour

// ReservationCodePrefix prefixes the human-facing reservation code,
// e.g. "EVT-04217".
const ReservationCodePrefix = "EVT-"

type Reservation struct {
	ID          uint              `json:"id"`
	Code        string            `json:"code"`
	Seats       int               `json:"seats"`
	TotalAmount float64           `json:"total_amount"`
	Comment     string            `json:"comment,omitempty"`
	Status      ReservationStatus `json:"status"`
	UserID      uint              `json:"user_id"`
	EventID     uint              `json:"event_id"`
	CreatedAt   time.Time         `json:"created_at"`

	// Event and User are materialized by the repository inside the
	// transaction that fetched the reservation; nothing is lazy-loaded.
	Event Event `json:"event,omitempty"`
	User  User  `json:"user,omitempty"`
}

// CanBeCancelled reports whether the reservation may still be cancelled
// at the given time: it must not already be cancelled, and now must be
// more than 48 hours before the event starts.
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	if r.Status == ReservationCancelled {
		return false
	}

	limit := r.Event.StartsAt.Add(-CancellationWindow)

	return now.Before(limit)
}
