package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/eventhub-io/eventhub/internal/api/handler/v1"
	"github.com/eventhub-io/eventhub/internal/api/middleware"
	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/service"
)

type stubReservationService struct {
	createErr error
	created   domain.Reservation
}

func (s *stubReservationService) CreateReservation(_ context.Context, _ domain.User, _ uint, _ int, _ string) (domain.Reservation, error) {
	if s.createErr != nil {
		return domain.Reservation{}, s.createErr
	}

	return s.created, nil
}

func (s *stubReservationService) ConfirmReservation(_ context.Context, _ uint) (domain.Reservation, error) {
	return domain.Reservation{}, nil
}

func (s *stubReservationService) CancelReservation(_ context.Context, _ uint) (domain.Reservation, error) {
	return domain.Reservation{}, nil
}

func (s *stubReservationService) DeleteReservation(_ context.Context, _ uint) error {
	return nil
}

func (s *stubReservationService) GetReservation(_ context.Context, _ uint) (domain.Reservation, error) {
	return domain.Reservation{}, nil
}

func (s *stubReservationService) ListReservations(_ context.Context) ([]domain.Reservation, error) {
	return nil, nil
}

func (s *stubReservationService) FindByStatus(_ context.Context, _ domain.ReservationStatus) ([]domain.Reservation, error) {
	return nil, nil
}

func (s *stubReservationService) FindByEventIDs(_ context.Context, _ []uint) ([]domain.Reservation, error) {
	return nil, nil
}

func (s *stubReservationService) FindByUser(_ context.Context, _ uint) ([]domain.Reservation, error) {
	return nil, nil
}

func (s *stubReservationService) FindByCode(_ context.Context, _ string) (domain.Reservation, error) {
	return domain.Reservation{}, nil
}

type stubEventService struct{}

func (s stubEventService) FindByOrganizer(_ context.Context, _ uint) ([]domain.Event, error) {
	return nil, nil
}

type stubUserService struct {
	user domain.User
}

func (s stubUserService) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return s.user, nil
}

func (s stubUserService) ListUsers(_ context.Context, _ service.UserFilter) ([]domain.User, error) {
	return nil, nil
}

func (s stubUserService) SetActive(_ context.Context, _ uint, _ bool) (domain.User, error) {
	return domain.User{}, nil
}

func (s stubUserService) DeleteUser(_ context.Context, _ uint) error {
	return nil
}

func newTestRouter(svc v1.ReservationService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := v1.NewReservationHandler(svc, stubEventService{}, stubUserService{
		user: domain.User{ID: 7, Role: domain.RoleClient, Active: true},
	})

	router := gin.New()
	router.POST("/reservations", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(7))
		handler.HandleCreateReservation(ctx)
	})

	return router
}

func postReservation(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/reservations", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestHandleCreateReservation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"event_id": 1, "seats": 3}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{"event_id": "one"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "seats above the limit",
			body:       `{"event_id": 1, "seats": 11}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "event not published",
			body:       `{"event_id": 1, "seats": 3}`,
			createErr:  service.ErrEventNotPublished,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "event already started",
			body:       `{"event_id": 1, "seats": 3}`,
			createErr:  service.ErrEventAlreadyStarted,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "not enough seats",
			body:       `{"event_id": 1, "seats": 3}`,
			createErr:  service.ErrInsufficientSeats,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown event",
			body:       `{"event_id": 99, "seats": 3}`,
			createErr:  service.ErrEventNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubReservationService{
				createErr: tt.createErr,
				created: domain.Reservation{
					ID:     1,
					Code:   "EVT-00042",
					Seats:  3,
					Status: domain.ReservationPending,
				},
			}

			recorder := postReservation(t, newTestRouter(svc), tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
