package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository"
)

var (
	ErrReservationNotFound       = repository.ErrReservationNotFound
	ErrEventNotPublished         = repository.ErrEventNotPublished
	ErrEventAlreadyStarted       = repository.ErrEventAlreadyStarted
	ErrInsufficientSeats         = repository.ErrInsufficientSeats
	ErrCancellationWindowExpired = repository.ErrCancellationWindowExpired
	ErrAlreadyCancelled          = repository.ErrAlreadyCancelled
	ErrInvalidStateTransition    = repository.ErrInvalidStateTransition
	ErrInvalidSeatCount          = errors.New("invalid seat count")
)

// Seat bounds for a single reservation.
const (
	MinSeatsPerReservation = 1
	MaxSeatsPerReservation = 10
)

type ReservationRepository interface {
	Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	Confirm(ctx context.Context, id uint) (domain.Reservation, error)
	Cancel(ctx context.Context, id uint) (domain.Reservation, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Reservation, error)
	FindAll(ctx context.Context) ([]domain.Reservation, error)
	FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	FindByEventIDs(ctx context.Context, eventIDs []uint) ([]domain.Reservation, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Reservation, error)
	FindByCode(ctx context.Context, code string) (domain.Reservation, error)
}

type ReservationEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindByIDWithReservations(ctx context.Context, id uint) (domain.Event, error)
}

// ReservationService owns the reservation lifecycle: creation with
// seat-availability accounting, confirmation, cancellation under the
// 48-hour rule, and the read-only lookups the UI layer builds on.
type ReservationService struct {
	repo      ReservationRepository
	eventRepo ReservationEventRepository
}

func NewReservationService(repo ReservationRepository, eventRepo ReservationEventRepository) *ReservationService {
	return &ReservationService{
		repo:      repo,
		eventRepo: eventRepo,
	}
}

// CreateReservation books seats for a user on an event. Validations run
// in order, each failing with a distinct error and before anything is
// written: the seat count must be within bounds, the event published,
// its start still in the future, and enough seats available. The
// repository re-runs the availability checks under a row lock on the
// event, so the pre-checks here only serve to fail fast.
func (s *ReservationService) CreateReservation(ctx context.Context, user domain.User, eventID uint, seats int, comment string) (domain.Reservation, error) {
	if seats < MinSeatsPerReservation || seats > MaxSeatsPerReservation {
		return domain.Reservation{}, ErrInvalidSeatCount
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.eventRepo.FindByID -> %w", err)
	}

	if event.Status != domain.EventPublished {
		return domain.Reservation{}, ErrEventNotPublished
	}
	if !event.StartsAt.After(time.Now()) {
		return domain.Reservation{}, ErrEventAlreadyStarted
	}
	if event.AvailableSeats < seats {
		return domain.Reservation{}, ErrInsufficientSeats
	}

	res := domain.Reservation{
		Seats:   seats,
		Comment: comment,
		UserID:  user.ID,
		EventID: eventID,
	}

	created, err := s.repo.Create(ctx, res)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// ConfirmReservation moves a pending reservation to confirmed.
// Confirming a confirmed reservation succeeds without effect;
// confirming a cancelled one fails with ErrInvalidStateTransition.
func (s *ReservationService) ConfirmReservation(ctx context.Context, id uint) (domain.Reservation, error) {
	confirmed, err := s.repo.Confirm(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.Confirm -> %w", err)
	}

	return confirmed, nil
}

// CancelReservation cancels a reservation when the 48-hour window
// before the event start has not passed, freeing its seats.
func (s *ReservationService) CancelReservation(ctx context.Context, id uint) (domain.Reservation, error) {
	cancelled, err := s.repo.Cancel(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.Cancel -> %w", err)
	}

	return cancelled, nil
}

// CanBeCancelled reports whether the reservation may still be
// cancelled right now.
func (s *ReservationService) CanBeCancelled(ctx context.Context, id uint) (bool, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return res.CanBeCancelled(time.Now()), nil
}

// DeleteReservation removes a reservation outright. This is an
// administrative operation outside the normal lifecycle.
func (s *ReservationService) DeleteReservation(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (domain.Reservation, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return res, nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	reservations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return reservations, nil
}

func (s *ReservationService) FindByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	reservations, err := s.repo.FindByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByStatus -> %w", err)
	}

	return reservations, nil
}

func (s *ReservationService) FindByEventIDs(ctx context.Context, eventIDs []uint) ([]domain.Reservation, error) {
	reservations, err := s.repo.FindByEventIDs(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventIDs -> %w", err)
	}

	return reservations, nil
}

func (s *ReservationService) FindByUser(ctx context.Context, userID uint) ([]domain.Reservation, error) {
	reservations, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return reservations, nil
}

func (s *ReservationService) FindByCode(ctx context.Context, code string) (domain.Reservation, error) {
	res, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	return res, nil
}

// EventStats aggregates the reporting figures for one event: fill rate,
// average confirmed reservation amount, and confirmation rate.
func (s *ReservationService) EventStats(ctx context.Context, eventID uint) (domain.EventStats, error) {
	event, err := s.eventRepo.FindByIDWithReservations(ctx, eventID)
	if err != nil {
		return domain.EventStats{}, fmt.Errorf("s.eventRepo.FindByIDWithReservations -> %w", err)
	}

	stats := domain.EventStats{
		EventID:       event.ID,
		Capacity:      event.Capacity,
		ReservedSeats: event.ReservedSeats(),
	}

	if event.Capacity > 0 {
		stats.FillRate = float64(stats.ReservedSeats) * 100 / float64(event.Capacity)
	}

	var confirmedRevenue float64
	var confirmedCount, totalCount int
	for _, res := range event.Reservations {
		totalCount++
		if res.Status == domain.ReservationConfirmed {
			confirmedCount++
			confirmedRevenue += res.TotalAmount
		}
	}

	stats.TotalReservations = totalCount
	stats.ConfirmedReservations = confirmedCount
	if confirmedCount > 0 {
		stats.AverageConfirmedAmount = confirmedRevenue / float64(confirmedCount)
	}
	if totalCount > 0 {
		stats.ConfirmationRate = float64(confirmedCount) * 100 / float64(totalCount)
	}

	return stats, nil
}
