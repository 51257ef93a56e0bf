package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-io/eventhub/internal/domain"
	"github.com/eventhub-io/eventhub/internal/repository"
	"github.com/eventhub-io/eventhub/internal/service"
)

type fakeUserRepo struct {
	byEmail map[string]domain.User
	nextID  uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]domain.User),
		nextID:  1,
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return domain.User{}, repository.ErrUserEmailExists
	}

	user.ID = r.nextID
	r.nextID++
	r.byEmail[user.Email] = user

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewAuthService(repo)

	created, err := svc.Signup(ctx, domain.User{
		Email:    "alice@example.com",
		Password: "sup3rsecret",
		Name:     "Alice",
		Role:     domain.RoleClient,
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.NotEqual(t, "sup3rsecret", created.Password, "password must be stored hashed")

	t.Run("login with the right password", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice@example.com", "sup3rsecret")
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "wrongpass1")
		assert.ErrorIs(t, err, service.ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "sup3rsecret")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("duplicate signup", func(t *testing.T) {
		_, err := svc.Signup(ctx, domain.User{
			Email:    "alice@example.com",
			Password: "an0therpass",
			Name:     "Alice Again",
			Role:     domain.RoleClient,
		})
		assert.ErrorIs(t, err, service.ErrUserEmailExists)
	})

	t.Run("deactivated account", func(t *testing.T) {
		user := repo.byEmail["alice@example.com"]
		user.Active = false
		repo.byEmail["alice@example.com"] = user

		_, err := svc.Login(ctx, "alice@example.com", "sup3rsecret")
		assert.ErrorIs(t, err, service.ErrUserInactive)
	})
}
