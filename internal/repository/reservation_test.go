package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-io/eventhub/internal/api/handler/v1/response"
	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository"
	"github.com/eventhub-io/eventhub/internal/repository/dao"
)

// stubReservationDAO mimics the real store's return shapes: Insert,
// Confirm and Cancel hand back the bare row without its associations,
// and only FindByID materializes Event and User.
type stubReservationDAO struct {
	rows   map[uint]dao.Reservation
	events map[uint]dao.Event
	users  map[uint]dao.User
}

func (s *stubReservationDAO) bare(res dao.Reservation) dao.Reservation {
	res.Event = dao.Event{}
	res.User = dao.User{}

	return res
}

func (s *stubReservationDAO) Insert(_ context.Context, res dao.Reservation) (dao.Reservation, error) {
	res.Status = "PENDING"
	s.rows[res.ID] = res

	return s.bare(res), nil
}

func (s *stubReservationDAO) Confirm(_ context.Context, id uint) (dao.Reservation, error) {
	res, ok := s.rows[id]
	if !ok {
		return dao.Reservation{}, dao.ErrReservationNotFound
	}

	res.Status = "CONFIRMED"
	s.rows[id] = res

	return s.bare(res), nil
}

func (s *stubReservationDAO) Cancel(_ context.Context, id uint) (dao.Reservation, error) {
	res, ok := s.rows[id]
	if !ok {
		return dao.Reservation{}, dao.ErrReservationNotFound
	}

	res.Status = "CANCELLED"
	s.rows[id] = res

	return s.bare(res), nil
}

func (s *stubReservationDAO) Delete(_ context.Context, id uint) error {
	delete(s.rows, id)

	return nil
}

func (s *stubReservationDAO) FindByID(_ context.Context, id uint) (dao.Reservation, error) {
	res, ok := s.rows[id]
	if !ok {
		return dao.Reservation{}, dao.ErrReservationNotFound
	}

	res.Event = s.events[res.EventID]
	res.User = s.users[res.UserID]

	return res, nil
}

func (s *stubReservationDAO) FindAll(_ context.Context) ([]dao.Reservation, error) {
	return nil, nil
}

func (s *stubReservationDAO) FindByStatus(_ context.Context, _ string) ([]dao.Reservation, error) {
	return nil, nil
}

func (s *stubReservationDAO) FindByEventIDs(_ context.Context, _ []uint) ([]dao.Reservation, error) {
	return nil, nil
}

func (s *stubReservationDAO) FindByUserID(_ context.Context, _ uint) ([]dao.Reservation, error) {
	return nil, nil
}

func (s *stubReservationDAO) FindByCode(_ context.Context, _ string) (dao.Reservation, error) {
	return dao.Reservation{}, dao.ErrReservationNotFound
}

func (s *stubReservationDAO) ExistsByCode(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func newStubReservationDAO() *stubReservationDAO {
	starts := time.Now().Add(30 * 24 * time.Hour)

	return &stubReservationDAO{
		rows: map[uint]dao.Reservation{
			1: {
				ID:      1,
				Code:    "EVT-00042",
				Seats:   3,
				Status:  "PENDING",
				UserID:  7,
				EventID: 5,
			},
		},
		events: map[uint]dao.Event{
			5: {
				ID:       5,
				Title:    "Jazz Night",
				StartsAt: starts,
				EndsAt:   starts.Add(3 * time.Hour),
				Status:   "PUBLISHED",
			},
		},
		users: map[uint]dao.User{
			7: {ID: 7, Name: "Alice", Email: "alice@example.com"},
		},
	}
}

// Confirm and Cancel must hand back the same fully materialized
// aggregate as FindByID; callers derive cancellability from the event's
// start time, so a zero event is not an acceptable return shape.
func TestReservationRepository_ConfirmReturnsMaterializedAggregate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewReservationRepository(newStubReservationDAO())

	confirmed, err := repo.Confirm(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationConfirmed, confirmed.Status)
	assert.Equal(t, "Jazz Night", confirmed.Event.Title)
	assert.False(t, confirmed.Event.StartsAt.IsZero())
	assert.Equal(t, "Alice", confirmed.User.Name)
	assert.True(t, confirmed.CanBeCancelled(time.Now()))

	resp := response.NewReservationResponse(confirmed)
	assert.True(t, resp.Cancellable, "a confirmed reservation more than 48 hours out is still cancellable")
}

func TestReservationRepository_CancelReturnsMaterializedAggregate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewReservationRepository(newStubReservationDAO())

	cancelled, err := repo.Cancel(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)
	assert.Equal(t, "Jazz Night", cancelled.Event.Title)
	assert.False(t, cancelled.Event.StartsAt.IsZero())
	assert.False(t, cancelled.CanBeCancelled(time.Now()))
}
