package repository

import (
	"context"
	"database/sql"
)

// StatsRepository issues the independent aggregate queries behind the
// dashboard. Each method is a single query so the service can fan them out
// concurrently.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users;`)
}

func (r *StatsRepository) CountProjects(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM projects;`)
}

func (r *StatsRepository) CountActiveProjects(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM projects WHERE status = 'PUBLISHED';`)
}

func (r *StatsRepository) CountOrders(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders;`)
}

func (r *StatsRepository) CountActiveOrders(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE status IN ('ACCEPTED', 'IN_PROGRESS');`)
}

func (r *StatsRepository) CountCompletedOrders(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE status = 'COMPLETED';`)
}

// SumCompletedRevenue returns the sum of total_amount over COMPLETED orders,
// 0 when there are none.
func (r *StatsRepository) SumCompletedRevenue(ctx context.Context) (float64, error) {
	const q = `SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = 'COMPLETED';`
	var sum float64
	if err := r.db.QueryRowContext(ctx, q).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *StatsRepository) count(ctx context.Context, q string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
