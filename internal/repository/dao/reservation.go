package dao

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReservationNotFound       = errors.New("reservation not found")
	ErrEventNotPublished         = errors.New("event not published")
	ErrEventAlreadyStarted       = errors.New("event already finished/started")
	ErrInsufficientSeats         = errors.New("not enough seats available")
	ErrCancellationWindowExpired = errors.New("cancellation window passed")
	ErrAlreadyCancelled          = errors.New("reservation already cancelled")
	ErrInvalidStateTransition    = errors.New("invalid reservation state transition")
)

// Reservation statuses as persisted.
const (
	reservationStatusPending   = "PENDING"
	reservationStatusConfirmed = "CONFIRMED"
	reservationStatusCancelled = "CANCELLED"
)

const (
	reservationCodePrefix = "EVT-"
	cancellationWindow    = 48 * time.Hour
)

type Reservation struct {
	ID uint `gorm:"primaryKey"`

	Code string `gorm:"uniqueIndex;not null;size:20"`

	Seats       int     `gorm:"not null"`
	TotalAmount float64 `gorm:"not null"`
	Comment     string  `gorm:"size:500"`
	Status      string  `gorm:"not null;size:20;index"`

	UserID uint `gorm:"not null;index"`
	User   User

	EventID uint `gorm:"not null;index"`
	Event   Event

	CreatedAt time.Time `gorm:"not null"`
}

type ReservationDAO struct {
	db *gorm.DB
}

func NewReservationDAO(db *gorm.DB) *ReservationDAO {
	return &ReservationDAO{
		db: db,
	}
}

// Insert books seats in a single transaction: the event row is locked,
// the availability checks re-run under the lock, a unique code is
// assigned, the reservation is inserted, and the event's available
// seats are recomputed from the reservation set. Two concurrent
// bookings for the last seat therefore serialize on the event row and
// only one succeeds.
func (d *ReservationDAO) Insert(ctx context.Context, res Reservation) (Reservation, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, res.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		now := time.Now()
		if event.Status != eventStatusPublished {
			return ErrEventNotPublished
		}
		if !event.StartsAt.After(now) {
			return ErrEventAlreadyStarted
		}
		if event.AvailableSeats < res.Seats {
			return ErrInsufficientSeats
		}

		code, err := d.generateUniqueCode(tx)
		if err != nil {
			return err
		}

		res.Code = code
		res.Status = reservationStatusPending
		res.TotalAmount = float64(res.Seats) * event.UnitPrice
		res.CreatedAt = now

		if err = tx.Create(&res).Error; err != nil {
			return err
		}

		return recomputeAvailableSeats(tx, event.ID, event.Capacity)
	})
	if err != nil {
		return Reservation{}, err
	}

	return res, nil
}

// Confirm moves a pending reservation to confirmed. Confirming an
// already-confirmed reservation is a no-op; a cancelled one is rejected.
// The reservation row is locked so a concurrent cancel cannot slip
// between the status check and the write. Seat accounting is unchanged
// since pending and confirmed both count against capacity.
func (d *ReservationDAO) Confirm(ctx context.Context, id uint) (Reservation, error) {
	var res Reservation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}

			return err
		}

		switch res.Status {
		case reservationStatusCancelled:
			return ErrInvalidStateTransition
		case reservationStatusConfirmed:
			return nil
		}

		res.Status = reservationStatusConfirmed

		return tx.Save(&res).Error
	})
	if err != nil {
		return Reservation{}, err
	}

	return res, nil
}

// Cancel transitions a reservation to cancelled if the 48-hour window
// before the event start has not passed, then recomputes the event's
// available seats with the cancelled reservation no longer counted.
func (d *ReservationDAO) Cancel(ctx context.Context, id uint) (Reservation, error) {
	var res Reservation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}

			return err
		}

		if res.Status == reservationStatusCancelled {
			return ErrAlreadyCancelled
		}

		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, res.EventID).Error; err != nil {
			return err
		}

		limit := event.StartsAt.Add(-cancellationWindow)
		if !time.Now().Before(limit) {
			return ErrCancellationWindowExpired
		}

		res.Status = reservationStatusCancelled
		if err := tx.Save(&res).Error; err != nil {
			return err
		}

		return recomputeAvailableSeats(tx, event.ID, event.Capacity)
	})
	if err != nil {
		return Reservation{}, err
	}

	return res, nil
}

// Delete removes a reservation outright (administrative operation) and
// recomputes the event's available seats in the same transaction.
func (d *ReservationDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res Reservation
		if err := tx.First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}

			return err
		}

		var event Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, res.EventID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&Reservation{}, id).Error; err != nil {
			return err
		}

		return recomputeAvailableSeats(tx, event.ID, event.Capacity)
	})
}

func (d *ReservationDAO) FindByID(ctx context.Context, id uint) (Reservation, error) {
	var res Reservation

	result := d.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		First(&res, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reservation{}, ErrReservationNotFound
		}

		return Reservation{}, result.Error
	}

	return res, nil
}

func (d *ReservationDAO) FindAll(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Order("created_at DESC").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) FindByStatus(ctx context.Context, status string) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) FindByEventIDs(ctx context.Context, eventIDs []uint) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Where("event_id IN ?", eventIDs).
		Order("created_at DESC").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) FindByUserID(ctx context.Context, userID uint) ([]Reservation, error) {
	var reservations []Reservation

	result := d.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}

	return reservations, nil
}

func (d *ReservationDAO) FindByCode(ctx context.Context, code string) (Reservation, error) {
	var res Reservation

	result := d.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		First(&res, "code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reservation{}, ErrReservationNotFound
		}

		return Reservation{}, result.Error
	}

	return res, nil
}

func (d *ReservationDAO) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("code = ?", code).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// generateUniqueCode draws random codes until one does not collide with
// a persisted reservation. It runs inside the booking transaction so
// the check and the insert cannot race; the unique index on code is the
// authoritative defense either way.
func (d *ReservationDAO) generateUniqueCode(tx *gorm.DB) (string, error) {
	for {
		code := reservationCodePrefix + fmt.Sprintf("%05d", rand.Intn(100000))

		var count int64
		if err := tx.Model(&Reservation{}).
			Where("code = ?", code).
			Count(&count).Error; err != nil {
			return "", err
		}

		if count == 0 {
			return code, nil
		}
	}
}

// recomputeAvailableSeats rewrites the event's cached counter as
// capacity minus the seats of its pending and confirmed reservations.
func recomputeAvailableSeats(tx *gorm.DB, eventID uint, capacity int) error {
	reserved, err := reservedSeats(tx, eventID)
	if err != nil {
		return err
	}

	return tx.Model(&Event{}).
		Where("id = ?", eventID).
		Update("available_seats", capacity-reserved).Error
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, e.g. a duplicate reservation code racing past the in-tx check.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
