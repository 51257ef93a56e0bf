package domain

import "time"

type Category string

const (
	CategoryConcert    Category = "CONCERT"
	CategoryTheatre    Category = "THEATRE"
	CategoryConference Category = "CONFERENCE"
	CategorySport      Category = "SPORT"
	CategoryOther      Category = "OTHER"
)

type EventStatus string

const (
	EventDraft     EventStatus = "DRAFT"
	EventPublished EventStatus = "PUBLISHED"
	EventCancelled EventStatus = "CANCELLED"
	EventFinished  EventStatus = "FINISHED"
)

type Event struct {
	ID             uint        `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Category       Category    `json:"category"`
	StartsAt       time.Time   `json:"starts_at"`
	EndsAt         time.Time   `json:"ends_at"`
	Venue          string      `json:"venue"`
	City           string      `json:"city"`
	Capacity       int         `json:"capacity"`
	UnitPrice      float64     `json:"unit_price"`
	ImageURL       string      `json:"image_url,omitempty"`
	Status         EventStatus `json:"status"`
	AvailableSeats int         `json:"available_seats"`
	OrganizerID    uint        `json:"organizer_id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Reservations is only populated when the event was fetched
	// with its reservation set materialized.
	Reservations []Reservation `json:"reservations,omitempty"`
}

// ReservedSeats sums the seats of reservations that count against
// capacity, i.e. pending and confirmed ones.
func (e *Event) ReservedSeats() int {
	total := 0
	for _, r := range e.Reservations {
		if r.Status == ReservationPending || r.Status == ReservationConfirmed {
			total += r.Seats
		}
	}

	return total
}

// FillRate returns the reserved share of capacity as a percentage.
func (e *Event) FillRate() float64 {
	if e.Capacity == 0 {
		return 0
	}

	return float64(e.Capacity-e.AvailableSeats) * 100 / float64(e.Capacity)
}

// IsAvailable reports whether the event can still be booked at the given time.
func (e *Event) IsAvailable(now time.Time) bool {
	return e.Status == EventPublished &&
		e.StartsAt.After(now) &&
		e.AvailableSeats > 0
}
