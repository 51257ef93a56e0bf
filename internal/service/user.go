package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventhub-io/eventhub/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	UpdateActive(ctx context.Context, id uint, active bool) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

// UserFilter narrows ListUsers; empty/nil fields are ignored.
type UserFilter struct {
	Keyword string
	Role    *domain.Role
	Active  *bool
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if filter.Keyword != "" {
			kw := strings.ToLower(filter.Keyword)
			if !strings.Contains(strings.ToLower(u.Name), kw) &&
				!strings.Contains(strings.ToLower(u.Email), kw) {
				continue
			}
		}
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && u.Active != *filter.Active {
			continue
		}

		filtered = append(filtered, u)
	}

	return filtered, nil
}

func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (domain.User, error) {
	user, err := s.repo.UpdateActive(ctx, id, active)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateActive -> %w", err)
	}

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
