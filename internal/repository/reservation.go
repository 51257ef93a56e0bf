package repository

import (
	"context"
	"fmt"

	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository/dao"
)

var (
	ErrReservationNotFound       = dao.ErrReservationNotFound
	ErrEventNotPublished         = dao.ErrEventNotPublished
	ErrEventAlreadyStarted       = dao.ErrEventAlreadyStarted
	ErrInsufficientSeats         = dao.ErrInsufficientSeats
	ErrCancellationWindowExpired = dao.ErrCancellationWindowExpired
	ErrAlreadyCancelled          = dao.ErrAlreadyCancelled
	ErrInvalidStateTransition    = dao.ErrInvalidStateTransition
)

type ReservationDAO interface {
	Insert(ctx context.Context, res dao.Reservation) (dao.Reservation, error)
	Confirm(ctx context.Context, id uint) (dao.Reservation, error)
	Cancel(ctx context.Context, id uint) (dao.Reservation, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Reservation, error)
	FindAll(ctx context.Context) ([]dao.Reservation, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Reservation, error)
	FindByEventIDs(ctx context.Context, eventIDs []uint) ([]dao.Reservation, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Reservation, error)
	FindByCode(ctx context.Context, code string) (dao.Reservation, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

type ReservationRepository struct {
	dao ReservationDAO
}

func NewReservationRepository(dao ReservationDAO) *ReservationRepository {
	return &ReservationRepository{
		dao: dao,
	}
}

func (r *ReservationRepository) reservationDomainToDAO(res domain.Reservation) dao.Reservation {
	return dao.Reservation{
		ID:          res.ID,
		Code:        res.Code,
		Seats:       res.Seats,
		TotalAmount: res.TotalAmount,
		Comment:     res.Comment,
		Status:      string(res.Status),
		UserID:      res.UserID,
		EventID:     res.EventID,
		CreatedAt:   res.CreatedAt,
	}
}

func (r *ReservationRepository) reservationDAOToDomain(res dao.Reservation) domain.Reservation {
	reservation := domain.Reservation{
		ID:          res.ID,
		Code:        res.Code,
		Seats:       res.Seats,
		TotalAmount: res.TotalAmount,
		Comment:     res.Comment,
		Status:      domain.ReservationStatus(res.Status),
		UserID:      res.UserID,
		EventID:     res.EventID,
		CreatedAt:   res.CreatedAt,
	}

	if res.Event.ID != 0 {
		reservation.Event = domain.Event{
			ID:             res.Event.ID,
			Title:          res.Event.Title,
			Description:    res.Event.Description,
			Category:       domain.Category(res.Event.Category),
			StartsAt:       res.Event.StartsAt,
			EndsAt:         res.Event.EndsAt,
			Venue:          res.Event.Venue,
			City:           res.Event.City,
			Capacity:       res.Event.Capacity,
			UnitPrice:      res.Event.UnitPrice,
			AvailableSeats: res.Event.AvailableSeats,
			ImageURL:       res.Event.ImageURL,
			Status:         domain.EventStatus(res.Event.Status),
			OrganizerID:    res.Event.OrganizerID,
			CreatedAt:      res.Event.CreatedAt,
			UpdatedAt:      res.Event.UpdatedAt,
		}
	}

	if res.User.ID != 0 {
		reservation.User = domain.User{
			ID:     res.User.ID,
			Email:  res.User.Email,
			Name:   res.User.Name,
			Role:   domain.Role(res.User.Role),
			Active: res.User.Active,
		}
	}

	return reservation
}

func (r *ReservationRepository) reservationsDAOToDomain(reservations []dao.Reservation) []domain.Reservation {
	result := make([]domain.Reservation, len(reservations))
	for i, res := range reservations {
		result[i] = r.reservationDAOToDomain(res)
	}

	return result
}

func (r *ReservationRepository) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	created, err := r.dao.Insert(ctx, r.reservationDomainToDAO(res))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	// Reload so the caller gets the event and user materialized.
	full, err := r.dao.FindByID(ctx, created.ID)
	if err != nil {
		return r.reservationDAOToDomain(created), nil
	}

	return r.reservationDAOToDomain(full), nil
}

func (r *ReservationRepository) Confirm(ctx context.Context, id uint) (domain.Reservation, error) {
	confirmed, err := r.dao.Confirm(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.Confirm -> %w", err)
	}

	// Reload so the caller gets the event and user materialized.
	full, err := r.dao.FindByID(ctx, confirmed.ID)
	if err != nil {
		return r.reservationDAOToDomain(confirmed), nil
	}

	return r.reservationDAOToDomain(full), nil
}

func (r *ReservationRepository) Cancel(ctx context.Context, id uint) (domain.Reservation, error) {
	cancelled, err := r.dao.Cancel(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.Cancel -> %w", err)
	}

	// Reload so the caller gets the event and user materialized.
	full, err := r.dao.FindByID(ctx, cancelled.ID)
	if err != nil {
		return r.reservationDAOToDomain(cancelled), nil
	}

	return r.reservationDAOToDomain(full), nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uint) (domain.Reservation, error) {
	res, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.reservationDAOToDomain(res), nil
}

func (r *ReservationRepository) FindAll(ctx context.Context) ([]domain.Reservation, error) {
	reservations, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.reservationsDAOToDomain(reservations), nil
}

func (r *ReservationRepository) FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	reservations, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	return r.reservationsDAOToDomain(reservations), nil
}

func (r *ReservationRepository) FindByEventIDs(ctx context.Context, eventIDs []uint) ([]domain.Reservation, error) {
	reservations, err := r.dao.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventIDs -> %w", err)
	}

	return r.reservationsDAOToDomain(reservations), nil
}

func (r *ReservationRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Reservation, error) {
	reservations, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.reservationsDAOToDomain(reservations), nil
}

func (r *ReservationRepository) FindByCode(ctx context.Context, code string) (domain.Reservation, error) {
	res, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.reservationDAOToDomain(res), nil
}

func (r *ReservationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	exists, err := r.dao.ExistsByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("r.dao.ExistsByCode -> %w", err)
	}

	return exists, nil
}
