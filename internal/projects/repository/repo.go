package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/freelance-market/market-backend/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, title, description, freelancer_id, status, price, tags, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.FreelancerID, &p.Status,
		&p.Price, pq.Array(&p.Tags), &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project in DRAFT for the given freelancer.
func (r *ProjectRepository) Create(ctx context.Context, freelancerID, title, description string, price float64, tags []string) (*domain.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("title required")
	}
	if freelancerID == "" {
		return nil, fmt.Errorf("freelancer id required")
	}
	if tags == nil {
		tags = []string{}
	}

	const q = `
INSERT INTO projects (id, title, description, freelancer_id, status, price, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), title, description, freelancerID,
		domain.StatusDraft, price, pq.Array(tags),
	))
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// GetByID returns the project with the given id.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List returns all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC;`
	return r.queryMany(ctx, q)
}

// ListByFreelancer returns the freelancer's own projects, newest first.
func (r *ProjectRepository) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE freelancer_id = $1 ORDER BY created_at DESC;`
	return r.queryMany(ctx, q, freelancerID)
}

// ListPublishedPage returns a page of PUBLISHED projects plus the total count.
func (r *ProjectRepository) ListPublishedPage(ctx context.Context, skip, take int) ([]domain.Project, int, error) {
	const q = `
SELECT ` + projectColumns + ` FROM projects
WHERE status = 'PUBLISHED'
ORDER BY created_at DESC OFFSET $1 LIMIT $2;
`
	items, err := r.queryMany(ctx, q, skip, take)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE status = 'PUBLISHED';`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateInput carries the optional fields of a project update.
type UpdateInput struct {
	Title       *string
	Description *string
	Price       *float64
	Tags        []string
	Status      *domain.Status
}

// Update applies the non-nil fields and returns the updated project.
// Only the owning freelancer's row is touched.
func (r *ProjectRepository) Update(ctx context.Context, freelancerID, id string, in UpdateInput) (*domain.Project, error) {
	const q = `
UPDATE projects SET
  title       = COALESCE($3, title),
  description = COALESCE($4, description),
  price       = COALESCE($5, price),
  tags        = COALESCE($6, tags),
  status      = COALESCE($7, status),
  updated_at  = now()
WHERE id = $1 AND freelancer_id = $2
RETURNING ` + projectColumns + `;
`
	var tags interface{}
	if in.Tags != nil {
		tags = pq.Array(in.Tags)
	}
	var status *string
	if in.Status != nil {
		s := string(*in.Status)
		status = &s
	}
	p, err := scanProject(r.db.QueryRowContext(ctx, q,
		id, freelancerID, in.Title, in.Description, in.Price, tags, status,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// SetStatus moves the project to the given status.
func (r *ProjectRepository) SetStatus(ctx context.Context, freelancerID, id string, status domain.Status) (*domain.Project, error) {
	const q = `
UPDATE projects SET status = $3, updated_at = now()
WHERE id = $1 AND freelancer_id = $2
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, freelancerID, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set project status: %w", err)
	}
	return p, nil
}

// Delete removes the project row.
func (r *ProjectRepository) Delete(ctx context.Context, freelancerID, id string) (bool, error) {
	const q = `DELETE FROM projects WHERE id = $1 AND freelancer_id = $2;`
	res, err := r.db.ExecContext(ctx, q, id, freelancerID)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProjectRepository) queryMany(ctx context.Context, q string, args ...any) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
