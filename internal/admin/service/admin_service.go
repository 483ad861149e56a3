package service

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/freelance-market/market-backend/internal/admin/domain"
	"github.com/freelance-market/market-backend/internal/admin/repository"
	"github.com/freelance-market/market-backend/internal/events"
	ordersdomain "github.com/freelance-market/market-backend/internal/orders/domain"
	ordersrepo "github.com/freelance-market/market-backend/internal/orders/repository"
	projectsdomain "github.com/freelance-market/market-backend/internal/projects/domain"
	projectsrepo "github.com/freelance-market/market-backend/internal/projects/repository"
	usersdomain "github.com/freelance-market/market-backend/internal/users/domain"
	usersrepo "github.com/freelance-market/market-backend/internal/users/repository"
)

// SnapshotWriter persists the stats snapshot row.
type SnapshotWriter interface {
	Upsert(ctx context.Context, st domain.DashboardStats) error
}

// Publisher is the slice of the event bus the admin flow needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev events.Event) error
}

// AdminService serves the dashboard aggregates and the paginated admin
// readers.
type AdminService struct {
	stats    *repository.StatsRepository
	users    *usersrepo.UserRepository
	projects *projectsrepo.ProjectRepository
	orders   *ordersrepo.OrderRepository
	snapshot SnapshotWriter
	bus      Publisher
}

// NewAdminService creates a new admin service
func NewAdminService(
	stats *repository.StatsRepository,
	users *usersrepo.UserRepository,
	projects *projectsrepo.ProjectRepository,
	orders *ordersrepo.OrderRepository,
	snapshot SnapshotWriter,
	bus Publisher,
) *AdminService {
	return &AdminService{
		stats:    stats,
		users:    users,
		projects: projects,
		orders:   orders,
		snapshot: snapshot,
		bus:      bus,
	}
}

// DashboardStats computes the platform summary. The seven aggregate queries
// are independent, so they run concurrently; the first error cancels the rest.
func (s *AdminService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var st domain.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { st.TotalUsers, err = s.stats.CountUsers(gctx); return })
	g.Go(func() (err error) { st.TotalProjects, err = s.stats.CountProjects(gctx); return })
	g.Go(func() (err error) { st.ActiveProjects, err = s.stats.CountActiveProjects(gctx); return })
	g.Go(func() (err error) { st.TotalOrders, err = s.stats.CountOrders(gctx); return })
	g.Go(func() (err error) { st.ActiveOrders, err = s.stats.CountActiveOrders(gctx); return })
	g.Go(func() (err error) { st.CompletedOrders, err = s.stats.CountCompletedOrders(gctx); return })
	g.Go(func() (err error) { st.TotalRevenue, err = s.stats.SumCompletedRevenue(gctx); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateSystemStats recomputes the aggregates, upserts the snapshot row and
// pushes the fresh stats onto the dashboard stream. The push is best effort.
func (s *AdminService) UpdateSystemStats(ctx context.Context) (*domain.DashboardStats, error) {
	st, err := s.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.snapshot.Upsert(ctx, *st); err != nil {
		return nil, err
	}

	if s.bus != nil {
		if ev, eerr := events.NewEvent("DASHBOARD_STATS", st); eerr == nil {
			if perr := s.bus.Publish(ctx, events.TopicDashboardStats, ev); perr != nil {
				log.Printf("[admin] dashboard stats push failed: %v", perr)
			}
		}
	}

	return st, nil
}

// PaginatedUsers is the adminUsers page shape.
type PaginatedUsers struct {
	Users []usersdomain.User `json:"users"`
	Total int                `json:"total"`
}

// Users returns a page of users plus the total count.
func (s *AdminService) Users(ctx context.Context, skip, take int) (*PaginatedUsers, error) {
	items, total, err := s.users.ListPage(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	return &PaginatedUsers{Users: items, Total: total}, nil
}

// PaginatedProjects is the adminActiveProjects page shape.
type PaginatedProjects struct {
	Projects []projectsdomain.Project `json:"projects"`
	Total    int                      `json:"total"`
	HasMore  bool                     `json:"has_more"`
}

// ActiveProjects returns a page of PUBLISHED projects.
func (s *AdminService) ActiveProjects(ctx context.Context, skip, take int) (*PaginatedProjects, error) {
	items, total, err := s.projects.ListPublishedPage(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	return &PaginatedProjects{Projects: items, Total: total, HasMore: skip+take < total}, nil
}

// PaginatedOrders is the adminRecentOrders page shape.
type PaginatedOrders struct {
	Orders  []ordersdomain.Order `json:"orders"`
	Total   int                  `json:"total"`
	HasMore bool                 `json:"has_more"`
}

// RecentOrders returns a page of orders, newest first.
func (s *AdminService) RecentOrders(ctx context.Context, skip, take int) (*PaginatedOrders, error) {
	items, total, err := s.orders.ListPage(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	return &PaginatedOrders{Orders: items, Total: total, HasMore: skip+take < total}, nil
}
