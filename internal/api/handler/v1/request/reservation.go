package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateReservationRequest struct {
	EventID uint   `json:"event_id"`
	Seats   int    `json:"seats"`
	Comment string `json:"comment"`
}

func (req *CreateReservationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Seats, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&req.Comment, validation.Length(0, 500)),
	)
}
