package service

import (
	"context"

	"github.com/freelance-market/market-backend/internal/users/domain"
	"github.com/freelance-market/market-backend/internal/users/repository"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Get returns a single user by id
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
