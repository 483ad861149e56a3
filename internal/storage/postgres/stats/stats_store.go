package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freelance-market/market-backend/internal/admin/domain"
)

// snapshotID is the fixed primary key of the single system_stats row.
const snapshotID = "system-stats"

// SnapshotStore persists the dashboard aggregates as a single upserted row.
// The row is a write-only audit trail: nothing in the API reads it back.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Upsert writes the snapshot row, creating it on first use.
func (s *SnapshotStore) Upsert(ctx context.Context, st domain.DashboardStats) error {
	const sql = `
INSERT INTO system_stats
  (id, total_users, total_projects, total_orders, active_orders, completed_orders, total_revenue, last_updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (id) DO UPDATE
  SET total_users      = EXCLUDED.total_users,
      total_projects   = EXCLUDED.total_projects,
      total_orders     = EXCLUDED.total_orders,
      active_orders    = EXCLUDED.active_orders,
      completed_orders = EXCLUDED.completed_orders,
      total_revenue    = EXCLUDED.total_revenue,
      last_updated     = now()
;`
	_, err := s.pool.Exec(ctx, sql,
		snapshotID, st.TotalUsers, st.TotalProjects, st.TotalOrders,
		st.ActiveOrders, st.CompletedOrders, st.TotalRevenue,
	)
	return err
}
