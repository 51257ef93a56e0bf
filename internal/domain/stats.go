package domain

// EventStats carries the reporting figures derived from an event's
// reservation set.
type EventStats struct {
	EventID                uint    `json:"event_id"`
	Capacity               int     `json:"capacity"`
	ReservedSeats          int     `json:"reserved_seats"`
	FillRate               float64 `json:"fill_rate"`
	TotalReservations      int     `json:"total_reservations"`
	ConfirmedReservations  int     `json:"confirmed_reservations"`
	AverageConfirmedAmount float64 `json:"average_confirmed_amount"`
	ConfirmationRate       float64 `json:"confirmation_rate"`
}
