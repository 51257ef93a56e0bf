package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository"
	"github.com/eventhub-io/eventhub/internal/service"
)

type fakeEventRepo struct {
	events map[uint]domain.Event
	nextID uint
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{
		events: make(map[uint]domain.Event),
		nextID: 1,
	}
	for _, e := range events {
		r.events[e.ID] = e
		if e.ID >= r.nextID {
			r.nextID = e.ID + 1
		}
	}

	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = r.nextID
	r.nextID++
	event.AvailableSeats = event.Capacity
	r.events[event.ID] = event

	return event, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	existing, ok := r.events[event.ID]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	reserved := existing.Capacity - existing.AvailableSeats
	if event.Capacity < reserved {
		return domain.Event{}, repository.ErrCapacityBelowReserved
	}

	event.OrganizerID = existing.OrganizerID
	event.AvailableSeats = event.Capacity - reserved
	r.events[event.ID] = event

	return event, nil
}

func (r *fakeEventRepo) UpdateStatus(_ context.Context, id uint, status domain.EventStatus) (domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	event.Status = status
	r.events[id] = event

	return event, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.events[id]; !ok {
		return repository.ErrEventNotFound
	}

	delete(r.events, id)

	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

func (r *fakeEventRepo) FindByIDWithReservations(ctx context.Context, id uint) (domain.Event, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeEventRepo) FindAll(_ context.Context) ([]domain.Event, error) {
	all := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		all = append(all, e)
	}

	return all, nil
}

func (r *fakeEventRepo) FindPublished(ctx context.Context) ([]domain.Event, error) {
	all, _ := r.FindAll(ctx)

	published := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if e.Status == domain.EventPublished {
			published = append(published, e)
		}
	}

	return published, nil
}

func (r *fakeEventRepo) FindByOrganizer(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	all, _ := r.FindAll(ctx)

	owned := make([]domain.Event, 0, len(all))
	for _, e := range all {
		if e.OrganizerID == organizerID {
			owned = append(owned, e)
		}
	}

	return owned, nil
}

func eventFixture(id uint, title, city string, category domain.Category, price float64, startsIn time.Duration) domain.Event {
	starts := time.Now().Add(startsIn)

	return domain.Event{
		ID:             id,
		Title:          title,
		Category:       category,
		StartsAt:       starts,
		EndsAt:         starts.Add(3 * time.Hour),
		City:           city,
		Capacity:       50,
		UnitPrice:      price,
		Status:         domain.EventPublished,
		AvailableSeats: 50,
		OrganizerID:    1,
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	svc := service.NewEventService(newFakeEventRepo())

	created, err := svc.CreateEvent(ctx, domain.Event{
		Title:    "Rust Meetup",
		Category: domain.CategoryConference,
		Capacity: 40,
	}, 9)
	require.NoError(t, err)

	assert.Equal(t, domain.EventDraft, created.Status)
	assert.Equal(t, uint(9), created.OrganizerID)
	assert.Equal(t, 40, created.AvailableSeats)
}

func TestEventService_UpdateEvent_CapacityChange(t *testing.T) {
	ctx := context.Background()

	event := eventFixture(1, "Jazz Night", "Lyon", domain.CategoryConcert, 100, 30*24*time.Hour)
	event.AvailableSeats = 44 // 6 seats reserved
	repo := newFakeEventRepo(event)
	svc := service.NewEventService(repo)

	t.Run("growing capacity keeps the reserved count", func(t *testing.T) {
		event.Capacity = 80
		updated, err := svc.UpdateEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, 74, updated.AvailableSeats)
	})

	t.Run("capacity below the reserved count is rejected", func(t *testing.T) {
		event.Capacity = 5
		_, err := svc.UpdateEvent(ctx, event)
		assert.ErrorIs(t, err, service.ErrCapacityBelowReserved)
	})
}

func TestEventService_FilterEvents(t *testing.T) {
	ctx := context.Background()

	jazz := eventFixture(1, "Jazz Night", "Lyon", domain.CategoryConcert, 100, 10*24*time.Hour)
	derby := eventFixture(2, "City Derby", "Paris", domain.CategorySport, 35, 20*24*time.Hour)
	talks := eventFixture(3, "Go Talks", "Lyon", domain.CategoryConference, 0, 40*24*time.Hour)
	talks.OrganizerID = 2

	svc := service.NewEventService(newFakeEventRepo(jazz, derby, talks))

	t.Run("keyword matches title case-insensitively", func(t *testing.T) {
		got, err := svc.FilterEvents(ctx, service.EventFilter{Keyword: "jazz"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, jazz.ID, got[0].ID)
	})

	t.Run("category and city combine with AND", func(t *testing.T) {
		concert := domain.CategoryConcert
		got, err := svc.FilterEvents(ctx, service.EventFilter{Category: &concert, City: "paris"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("price range", func(t *testing.T) {
		min, max := 10.0, 50.0
		got, err := svc.FilterEvents(ctx, service.EventFilter{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, derby.ID, got[0].ID)
	})

	t.Run("date window uses calendar days", func(t *testing.T) {
		from := time.Now().Add(15 * 24 * time.Hour)
		to := time.Now().Add(30 * 24 * time.Hour)
		got, err := svc.FilterEvents(ctx, service.EventFilter{StartDate: &from, EndDate: &to})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, derby.ID, got[0].ID)
	})

	t.Run("organizer scope", func(t *testing.T) {
		organizerID := uint(2)
		got, err := svc.FilterEvents(ctx, service.EventFilter{OrganizerID: &organizerID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, talks.ID, got[0].ID)
	})

	t.Run("empty filter returns everything", func(t *testing.T) {
		got, err := svc.FilterEvents(ctx, service.EventFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestEventService_SearchPublicEvents(t *testing.T) {
	ctx := context.Background()

	upcoming := eventFixture(1, "Jazz Night", "Lyon", domain.CategoryConcert, 100, 10*24*time.Hour)

	draft := eventFixture(2, "Secret Show", "Lyon", domain.CategoryConcert, 100, 10*24*time.Hour)
	draft.Status = domain.EventDraft

	ended := eventFixture(3, "Last Week Gala", "Lyon", domain.CategoryConcert, 100, -7*24*time.Hour)

	svc := service.NewEventService(newFakeEventRepo(upcoming, draft, ended))

	t.Run("only published events that have not ended", func(t *testing.T) {
		got, err := svc.SearchPublicEvents(ctx, "", nil, "", nil)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, upcoming.ID, got[0].ID)
	})

	t.Run("date filter matches the start day", func(t *testing.T) {
		date := upcoming.StartsAt
		got, err := svc.SearchPublicEvents(ctx, "", nil, "", &date)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		wrong := upcoming.StartsAt.Add(48 * time.Hour)
		got, err = svc.SearchPublicEvents(ctx, "", nil, "", &wrong)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("keyword narrows the result", func(t *testing.T) {
		got, err := svc.SearchPublicEvents(ctx, "gala", nil, "", nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	event := eventFixture(1, "Jazz Night", "Lyon", domain.CategoryConcert, 100, 10*24*time.Hour)
	repo := newFakeEventRepo(event)
	svc := service.NewEventService(repo)

	require.NoError(t, svc.DeleteEvent(ctx, 1))

	err := svc.DeleteEvent(ctx, 1)
	assert.ErrorIs(t, err, service.ErrEventNotFound)
}
