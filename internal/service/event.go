package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository"
)

var (
	ErrEventNotFound         = repository.ErrEventNotFound
	ErrEventHasReservations  = repository.ErrEventHasReservations
	ErrCapacityBelowReserved = repository.ErrCapacityBelowReserved
	ErrEndsBeforeStarts      = repository.ErrEndsBeforeStarts
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	UpdateStatus(ctx context.Context, id uint, status domain.EventStatus) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByIDWithReservations(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindPublished(ctx context.Context) ([]domain.Event, error)
	FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error)
}

// EventFilter holds the optional criteria of FilterEvents; nil or empty
// fields are ignored and the remaining filters combine with AND.
type EventFilter struct {
	Keyword     string
	Category    *domain.Category
	City        string
	StartDate   *time.Time
	EndDate     *time.Time
	MinPrice    *float64
	MaxPrice    *float64
	OrganizerID *uint
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, organizerID uint) (domain.Event, error) {
	event.OrganizerID = organizerID
	if event.Status == "" {
		event.Status = domain.EventDraft
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// UpdateEvent rewrites an event's attributes. Capacity changes keep the
// already-reserved seat count and rederive the available counter; a
// capacity below the reserved count is rejected.
func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// UpdateStatus applies an owner/admin-driven lifecycle transition
// (publish, unpublish, cancel, finish).
func (s *EventService) UpdateStatus(ctx context.Context, id uint, status domain.EventStatus) (domain.Event, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return updated, nil
}

// DeleteEvent removes an event; events that still have reservations are
// refused.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	events, err := s.repo.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizer -> %w", err)
	}

	return events, nil
}

// FilterEvents applies the optional filters over all events, or over
// one organizer's events when OrganizerID is set.
func (s *EventService) FilterEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	var events []domain.Event
	var err error

	if filter.OrganizerID != nil {
		events, err = s.repo.FindByOrganizer(ctx, *filter.OrganizerID)
	} else {
		events, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("FilterEvents -> %w", err)
	}

	filtered := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !matchesKeyword(e, filter.Keyword) {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if !matchesCity(e, filter.City) {
			continue
		}
		if filter.StartDate != nil && startDay(e).Before(day(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && startDay(e).After(day(*filter.EndDate)) {
			continue
		}
		if filter.MinPrice != nil && e.UnitPrice < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && e.UnitPrice > *filter.MaxPrice {
			continue
		}

		filtered = append(filtered, e)
	}

	return filtered, nil
}

// SearchPublicEvents is the public catalog search: published events
// whose end time has not passed, narrowed by the optional keyword,
// category, city and start date.
func (s *EventService) SearchPublicEvents(ctx context.Context, keyword string, category *domain.Category, city string, date *time.Time) ([]domain.Event, error) {
	events, err := s.repo.FindPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPublished -> %w", err)
	}

	now := time.Now()

	filtered := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if !e.EndsAt.After(now) {
			continue
		}
		if !matchesKeyword(e, keyword) {
			continue
		}
		if category != nil && e.Category != *category {
			continue
		}
		if !matchesCity(e, city) {
			continue
		}
		if date != nil && !startDay(e).Equal(day(*date)) {
			continue
		}

		filtered = append(filtered, e)
	}

	return filtered, nil
}

func matchesKeyword(e domain.Event, keyword string) bool {
	if keyword == "" {
		return true
	}

	kw := strings.ToLower(keyword)

	return strings.Contains(strings.ToLower(e.Title), kw) ||
		strings.Contains(strings.ToLower(e.Description), kw)
}

func matchesCity(e domain.Event, city string) bool {
	if city == "" {
		return true
	}

	return strings.Contains(strings.ToLower(e.City), strings.ToLower(city))
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startDay(e domain.Event) time.Time {
	return day(e.StartsAt)
}
