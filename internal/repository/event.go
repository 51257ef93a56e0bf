package repository

import (
	"context"
	"fmt"

	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrEventHasReservations  = dao.ErrEventHasReservations
	ErrCapacityBelowReserved = dao.ErrCapacityBelowReserved
	ErrEndsBeforeStarts      = dao.ErrEndsBeforeStarts
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	UpdateStatus(ctx context.Context, id uint, status string) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByIDWithReservations(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	FindPublished(ctx context.Context) ([]dao.Event, error)
	FindByOrganizer(ctx context.Context, organizerID uint) ([]dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) eventDomainToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Category:       string(e.Category),
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		Venue:          e.Venue,
		City:           e.City,
		Capacity:       e.Capacity,
		UnitPrice:      e.UnitPrice,
		AvailableSeats: e.AvailableSeats,
		ImageURL:       e.ImageURL,
		Status:         string(e.Status),
		OrganizerID:    e.OrganizerID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r *EventRepository) eventDAOToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		Category:       domain.Category(e.Category),
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		Venue:          e.Venue,
		City:           e.City,
		Capacity:       e.Capacity,
		UnitPrice:      e.UnitPrice,
		AvailableSeats: e.AvailableSeats,
		ImageURL:       e.ImageURL,
		Status:         domain.EventStatus(e.Status),
		OrganizerID:    e.OrganizerID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}

	if len(e.Reservations) > 0 {
		event.Reservations = make([]domain.Reservation, len(e.Reservations))
		for i, res := range e.Reservations {
			event.Reservations[i] = domain.Reservation{
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
		}
	}

	return event
}

func (r *EventRepository) eventsDAOToDomain(events []dao.Event) []domain.Event {
	result := make([]domain.Event, len(events))
	for i, e := range events {
		result[i] = r.eventDAOToDomain(e)
	}

	return result
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.eventDomainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.eventDAOToDomain(created), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.eventDomainToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.eventDAOToDomain(updated), nil
}

func (r *EventRepository) UpdateStatus(ctx context.Context, id uint, status domain.EventStatus) (domain.Event, error) {
	updated, err := r.dao.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.eventDAOToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.eventDAOToDomain(event), nil
}

func (r *EventRepository) FindByIDWithReservations(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindByIDWithReservations(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByIDWithReservations -> %w", err)
	}

	return r.eventDAOToDomain(event), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.eventsDAOToDomain(events), nil
}

func (r *EventRepository) FindPublished(ctx context.Context) ([]domain.Event, error) {
	events, err := r.dao.FindPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPublished -> %w", err)
	}

	return r.eventsDAOToDomain(events), nil
}

func (r *EventRepository) FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	events, err := r.dao.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizer -> %w", err)
	}

	return r.eventsDAOToDomain(events), nil
}
