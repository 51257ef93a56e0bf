package request_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eventhub-io/eventhub/internal/api/handler/v1/request"
)

func validSignup() request.SignupRequest {
	return request.SignupRequest{
		Email:           "alice@example.com",
		Password:        "sup3rsecret",
		ConfirmPassword: "sup3rsecret",
		Name:            "Alice",
		Role:            "client",
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *request.SignupRequest)
		wantErr bool
	}{
		{"valid", func(r *request.SignupRequest) {}, false},
		{"organizer role", func(r *request.SignupRequest) { r.Role = "organizer" }, false},
		{"admin role refused", func(r *request.SignupRequest) { r.Role = "admin" }, true},
		{"bad email", func(r *request.SignupRequest) { r.Email = "not-an-email" }, true},
		{"too short password", func(r *request.SignupRequest) {
			r.Password = "ab1"
			r.ConfirmPassword = "ab1"
		}, true},
		{"password without digit", func(r *request.SignupRequest) {
			r.Password = "onlyletters"
			r.ConfirmPassword = "onlyletters"
		}, true},
		{"password without letter", func(r *request.SignupRequest) {
			r.Password = "1234567890"
			r.ConfirmPassword = "1234567890"
		}, true},
		{"confirm mismatch", func(r *request.SignupRequest) { r.ConfirmPassword = "different1" }, true},
		{"missing name", func(r *request.SignupRequest) { r.Name = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateReservationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     request.CreateReservationRequest
		wantErr bool
	}{
		{"valid", request.CreateReservationRequest{EventID: 1, Seats: 3}, false},
		{"max seats", request.CreateReservationRequest{EventID: 1, Seats: 10}, false},
		{"zero seats", request.CreateReservationRequest{EventID: 1, Seats: 0}, true},
		{"too many seats", request.CreateReservationRequest{EventID: 1, Seats: 11}, true},
		{"missing event", request.CreateReservationRequest{Seats: 2}, true},
		{
			"comment at the limit",
			request.CreateReservationRequest{EventID: 1, Seats: 1, Comment: strings.Repeat("x", 500)},
			false,
		},
		{
			"comment too long",
			request.CreateReservationRequest{EventID: 1, Seats: 1, Comment: strings.Repeat("x", 501)},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func validSaveEvent() request.SaveEventRequest {
	starts := time.Now().Add(30 * 24 * time.Hour)

	return request.SaveEventRequest{
		Title:     "Jazz Night",
		Category:  "CONCERT",
		StartsAt:  starts.Format(time.RFC3339),
		EndsAt:    starts.Add(3 * time.Hour).Format(time.RFC3339),
		Venue:     "Le Transbordeur",
		City:      "Lyon",
		Capacity:  300,
		UnitPrice: 35,
	}
}

func TestSaveEventRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *request.SaveEventRequest)
		wantErr bool
	}{
		{"valid", func(r *request.SaveEventRequest) {}, false},
		{"title too short", func(r *request.SaveEventRequest) { r.Title = "Jazz" }, true},
		{"unknown category", func(r *request.SaveEventRequest) { r.Category = "OPERA" }, true},
		{"bad timestamp", func(r *request.SaveEventRequest) { r.StartsAt = "tomorrow" }, true},
		{"zero capacity", func(r *request.SaveEventRequest) { r.Capacity = 0 }, true},
		{"ends before starts", func(r *request.SaveEventRequest) {
			starts, _ := time.Parse(time.RFC3339, r.StartsAt)
			r.EndsAt = starts.Add(-time.Hour).Format(time.RFC3339)
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSaveEvent()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveEventRequest_ToDomain(t *testing.T) {
	req := validSaveEvent()
	event := req.ToDomain()

	assert.Equal(t, req.Title, event.Title)
	assert.Equal(t, req.City, event.City)
	assert.Equal(t, req.Capacity, event.Capacity)
	assert.Equal(t, req.StartsAt, event.StartsAt.Format(time.RFC3339))
}

func TestUpdateEventStatusRequest_Validate(t *testing.T) {
	valid := request.UpdateEventStatusRequest{Status: "PUBLISHED"}
	assert.NoError(t, valid.Validate())

	invalid := request.UpdateEventStatusRequest{Status: "LIVE"}
	assert.Error(t, invalid.Validate())
}
