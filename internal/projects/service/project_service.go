package service

import (
	"context"

	"github.com/freelance-market/market-backend/internal/projects/domain"
	"github.com/freelance-market/market-backend/internal/projects/repository"
)

// ProjectService handles project-related business logic
type ProjectService struct {
	repo *repository.ProjectRepository
}

// NewProjectService creates a new project service
func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create creates a new project in DRAFT for the freelancer
func (s *ProjectService) Create(ctx context.Context, freelancerID, title, description string, price float64, tags []string) (*domain.Project, error) {
	return s.repo.Create(ctx, freelancerID, title, description, price, tags)
}

// Get returns a single project
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all projects
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

// ListByFreelancer returns the freelancer's own projects
func (s *ProjectService) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	return s.repo.ListByFreelancer(ctx, freelancerID)
}

// Update applies a partial update to the freelancer's project
func (s *ProjectService) Update(ctx context.Context, freelancerID, id string, in repository.UpdateInput) (*domain.Project, error) {
	return s.repo.Update(ctx, freelancerID, id, in)
}

// Publish moves the project to PUBLISHED so clients can order it
func (s *ProjectService) Publish(ctx context.Context, freelancerID, id string) (*domain.Project, error) {
	return s.repo.SetStatus(ctx, freelancerID, id, domain.StatusPublished)
}

// Delete removes the freelancer's project
func (s *ProjectService) Delete(ctx context.Context, freelancerID, id string) (bool, error) {
	return s.repo.Delete(ctx, freelancerID, id)
}
