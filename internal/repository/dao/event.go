package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventHasReservations  = errors.New("event still has reservations")
	ErrCapacityBelowReserved = errors.New("capacity is below already reserved seats")
	ErrEndsBeforeStarts      = errors.New("event end time precedes its start time")
)

// Event lifecycle statuses as persisted.
const (
	eventStatusPublished = "PUBLISHED"
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null;size:100"`
	Description string `gorm:"size:1000"`
	Category    string `gorm:"not null;size:20"`

	StartsAt time.Time `gorm:"not null"`
	EndsAt   time.Time `gorm:"not null"`

	Venue string `gorm:"not null;size:200"`
	City  string `gorm:"not null;size:100"`

	Capacity       int     `gorm:"not null"`
	UnitPrice      float64 `gorm:"not null"`
	AvailableSeats int     `gorm:"not null"`

	ImageURL string `gorm:"size:500"`
	Status   string `gorm:"not null;size:20;index"`

	OrganizerID uint `gorm:"not null;index"`

	Reservations []Reservation `gorm:"foreignKey:EventID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if event.EndsAt.Before(event.StartsAt) {
		return Event{}, ErrEndsBeforeStarts
	}

	// A fresh event has no reservations yet.
	event.AvailableSeats = event.Capacity

	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

// Update rewrites the event's attributes. When capacity changes, the
// reserved-seat count is preserved and available seats rederived from
// it; a capacity smaller than the reserved count is rejected. The
// reserved count is summed from the reservation rows under a row lock
// so a concurrent booking cannot slip between the read and the write.
func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	if event.EndsAt.Before(event.StartsAt) {
		return Event{}, ErrEndsBeforeStarts
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, event.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		reserved, err := reservedSeats(tx, event.ID)
		if err != nil {
			return err
		}

		if event.Capacity < reserved {
			return ErrCapacityBelowReserved
		}
		event.AvailableSeats = event.Capacity - reserved
		event.OrganizerID = existing.OrganizerID
		event.CreatedAt = existing.CreatedAt

		return tx.Save(&event).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) UpdateStatus(ctx context.Context, id uint, status string) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}

			return err
		}

		event.Status = status

		return tx.Save(&event).Error
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}

// Delete removes an event, but only when no reservations reference it.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Reservation{}).
			Where("event_id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEventHasReservations
		}

		result := tx.Delete(&Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return nil
	})
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByIDWithReservations(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("Reservations").
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("starts_at").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindPublished(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("status = ?", eventStatusPublished).
		Order("starts_at").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByOrganizer(ctx context.Context, organizerID uint) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("starts_at").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// reservedSeats sums the seats of pending and confirmed reservations
// for an event within the caller's transaction.
func reservedSeats(tx *gorm.DB, eventID uint) (int, error) {
	var reserved int64

	err := tx.Model(&Reservation{}).
		Where("event_id = ? AND status IN ?", eventID,
			[]string{reservationStatusPending, reservationStatusConfirmed}).
		Select("COALESCE(SUM(seats), 0)").
		Scan(&reserved).Error
	if err != nil {
		return 0, err
	}

	return int(reserved), nil
}
