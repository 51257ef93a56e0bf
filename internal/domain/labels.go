package domain

// Display metadata for statuses and categories. Kept as pure lookup
// tables so the UI layer never switches on enum values itself.

type StatusDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var EventStatusDisplays = map[EventStatus]StatusDisplay{
	EventDraft:     {Label: "Draft", Color: "#FFA500"},
	EventPublished: {Label: "Published", Color: "#28A745"},
	EventCancelled: {Label: "Cancelled", Color: "#DC3545"},
	EventFinished:  {Label: "Finished", Color: "#6C757D"},
}

var ReservationStatusDisplays = map[ReservationStatus]StatusDisplay{
	ReservationPending:   {Label: "Pending", Color: "#FFC107"},
	ReservationConfirmed: {Label: "Confirmed", Color: "#28A745"},
	ReservationCancelled: {Label: "Cancelled", Color: "#DC3545"},
}

type CategoryDisplay struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

var CategoryDisplays = map[Category]CategoryDisplay{
	CategoryConcert:    {Label: "Concert", Icon: "🎵"},
	CategoryTheatre:    {Label: "Theatre", Icon: "🎭"},
	CategoryConference: {Label: "Conference", Icon: "🎤"},
	CategorySport:      {Label: "Sport", Icon: "⚽"},
	CategoryOther:      {Label: "Other", Icon: "📌"},
}
