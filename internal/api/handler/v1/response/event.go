package response

import (
	"github.com/eventhub-io/eventhub/internal/domain"
)

// EventResponse decorates an event with its display metadata so the UI
// never has to switch on status or category values.
type EventResponse struct {
	domain.Event
	StatusDisplay   domain.StatusDisplay   `json:"status_display"`
	CategoryDisplay domain.CategoryDisplay `json:"category_display"`
}

func NewEventResponse(event domain.Event) EventResponse {
	return EventResponse{
		Event:           event,
		StatusDisplay:   domain.EventStatusDisplays[event.Status],
		CategoryDisplay: domain.CategoryDisplays[event.Category],
	}
}

func NewEventsResponse(events []domain.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = NewEventResponse(e)
	}

	return result
}
