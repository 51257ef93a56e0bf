package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/eventhub-io/eventhub/internal/domain"
)

var errEndsBeforeStarts = errors.New("ends_at must not precede starts_at")

type SaveEventRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	StartsAt    string  `json:"starts_at" format:"RFC3339"`
	EndsAt      string  `json:"ends_at" format:"RFC3339"`
	Venue       string  `json:"venue"`
	City        string  `json:"city"`
	Capacity    int     `json:"capacity"`
	UnitPrice   float64 `json:"unit_price"`
	ImageURL    string  `json:"image_url"`
}

func (req *SaveEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(5, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Category, validation.Required,
			validation.In("CONCERT", "THEATRE", "CONFERENCE", "SPORT", "OTHER")),
		validation.Field(&req.StartsAt, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&req.EndsAt, validation.Required, validation.Date(time.RFC3339)),
		validation.Field(&req.Venue, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.City, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&req.UnitPrice, validation.Min(0.0)),
		validation.Field(&req.ImageURL, validation.Length(0, 500)),
	)
	if err != nil {
		return err
	}

	starts, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return err
	}
	ends, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return err
	}
	if ends.Before(starts) {
		return errEndsBeforeStarts
	}

	return nil
}

// ToDomain builds the domain event. Validate must have passed already,
// so the timestamps parse.
func (req *SaveEventRequest) ToDomain() domain.Event {
	starts, _ := time.Parse(time.RFC3339, req.StartsAt)
	ends, _ := time.Parse(time.RFC3339, req.EndsAt)

	return domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.Category(req.Category),
		StartsAt:    starts,
		EndsAt:      ends,
		Venue:       req.Venue,
		City:        req.City,
		Capacity:    req.Capacity,
		UnitPrice:   req.UnitPrice,
		ImageURL:    req.ImageURL,
	}
}

type UpdateEventStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateEventStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required,
			validation.In("DRAFT", "PUBLISHED", "CANCELLED", "FINISHED")),
	)
}
