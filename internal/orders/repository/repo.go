package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freelance-market/market-backend/internal/orders/domain"
)

// OrderRepository provides persistence operations for orders
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, project_id, client_id, status, total_amount, requirements, delivery_date, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.ProjectID, &o.ClientID, &o.Status, &o.TotalAmount,
		&o.Requirements, &o.DeliveryDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a PENDING order. totalAmount is the project price snapshot
// taken by the service; this layer stores whatever it is handed.
func (r *OrderRepository) Create(ctx context.Context, projectID, clientID string, totalAmount float64, requirements *string) (*domain.Order, error) {
	const q = `
INSERT INTO orders (id, project_id, client_id, status, total_amount, requirements, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING ` + orderColumns + `;
`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), projectID, clientID, domain.StatusPending, totalAmount, requirements,
	))
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

// GetByID returns the order with the given id.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// ListByClient returns the client's orders, newest first.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE client_id = $1 ORDER BY created_at DESC;`
	return r.queryMany(ctx, q, clientID)
}

// ListByFreelancer returns orders placed against the freelancer's projects,
// newest first.
func (r *OrderRepository) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Order, error) {
	const q = `
SELECT o.id, o.project_id, o.client_id, o.status, o.total_amount, o.requirements, o.delivery_date, o.created_at, o.updated_at
FROM orders o
JOIN projects p ON p.id = o.project_id
WHERE p.freelancer_id = $1
ORDER BY o.created_at DESC;
`
	return r.queryMany(ctx, q, freelancerID)
}

// ListPage returns a page of orders plus the total count, newest first.
func (r *OrderRepository) ListPage(ctx context.Context, skip, take int) ([]domain.Order, int, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2;`
	items, err := r.queryMany(ctx, q, skip, take)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders;`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SetStatus overwrites the order's status unconditionally. There is no guard
// on the prior status: each named operation writes its exact target state.
func (r *OrderRepository) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	const q = `
UPDATE orders SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `;
`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set order status: %w", err)
	}
	return o, nil
}

// Update applies the non-nil fields (status, requirements, delivery date).
func (r *OrderRepository) Update(ctx context.Context, id string, status *domain.Status, requirements *string, deliveryDate *time.Time) (*domain.Order, error) {
	const q = `
UPDATE orders SET
  status        = COALESCE($2, status),
  requirements  = COALESCE($3, requirements),
  delivery_date = COALESCE($4, delivery_date),
  updated_at    = now()
WHERE id = $1
RETURNING ` + orderColumns + `;
`
	var st *string
	if status != nil {
		s := string(*status)
		st = &s
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id, st, requirements, deliveryDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) queryMany(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
