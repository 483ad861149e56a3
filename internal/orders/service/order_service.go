package service

import (
	"context"
	"log"
	"time"

	"github.com/freelance-market/market-backend/internal/events"
	"github.com/freelance-market/market-backend/internal/orders/domain"
	"github.com/freelance-market/market-backend/internal/orders/repository"
	projectsdomain "github.com/freelance-market/market-backend/internal/projects/domain"
)

// ProjectReader is the slice of the projects repository the order flow needs.
type ProjectReader interface {
	GetByID(ctx context.Context, id string) (*projectsdomain.Project, error)
}

// Publisher is the slice of the event bus the order flow needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev events.Event) error
}

// OrderService owns the order lifecycle: creation with the price snapshot,
// status writes, and the event emission that follows them.
type OrderService struct {
	repo     *repository.OrderRepository
	projects ProjectReader
	bus      Publisher
}

// NewOrderService creates a new order service
func NewOrderService(repo *repository.OrderRepository, projects ProjectReader, bus Publisher) *OrderService {
	return &OrderService{repo: repo, projects: projects, bus: bus}
}

// Create places a PENDING order for the client against the project, copying
// the project's current price into totalAmount. The price snapshot is final:
// later project edits never touch it. Emits ORDER_PLACED after the insert.
func (s *OrderService) Create(ctx context.Context, clientID, projectID string, requirements *string) (*domain.Order, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Create(ctx, project.ID, clientID, project.Price, requirements)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, domain.EventOrderPlaced, domain.EventPayload{
		OrderID:      order.ID,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		ClientID:     clientID,
		FreelancerID: project.FreelancerID,
	})

	return order, nil
}

// Get returns a single order
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByClient returns the client's orders
func (s *OrderService) ListByClient(ctx context.Context, clientID string) ([]domain.Order, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListByFreelancer returns orders on the freelancer's projects
func (s *OrderService) ListByFreelancer(ctx context.Context, freelancerID string) ([]domain.Order, error) {
	return s.repo.ListByFreelancer(ctx, freelancerID)
}

// UpdateStatus writes the exact target status with no guard on the prior
// state, then emits the mapped event for ACCEPTED/COMPLETED/CANCELLED.
// Emission is fire-and-forget: a publish failure is logged and the status
// write stands.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if kind := domain.EventForStatus(status); kind != "" {
		project, perr := s.projects.GetByID(ctx, order.ProjectID)
		if perr != nil {
			log.Printf("[orders] project lookup for event %s on order %s failed: %v", kind, order.ID, perr)
			return order, nil
		}
		s.emit(ctx, kind, domain.EventPayload{
			OrderID:      order.ID,
			ProjectID:    project.ID,
			ProjectTitle: project.Title,
			ClientID:     order.ClientID,
			FreelancerID: project.FreelancerID,
			SenderID:     project.FreelancerID,
			ReceiverID:   order.ClientID,
		})
	}

	return order, nil
}

// Accept moves the order to ACCEPTED
func (s *OrderService) Accept(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.StatusAccepted)
}

// Start moves the order to IN_PROGRESS
func (s *OrderService) Start(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.StatusInProgress)
}

// Complete moves the order to COMPLETED
func (s *OrderService) Complete(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.StatusCompleted)
}

// Cancel moves the order to CANCELLED
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.StatusCancelled)
}

// RequestRevision moves the order to REVISION
func (s *OrderService) RequestRevision(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.StatusRevision)
}

// Update applies a partial update (status overwrite, requirements, delivery
// date). This path emits no events; only the named status operations do.
func (s *OrderService) Update(ctx context.Context, id string, status *domain.Status, requirements *string, deliveryDate *time.Time) (*domain.Order, error) {
	return s.repo.Update(ctx, id, status, requirements, deliveryDate)
}

func (s *OrderService) emit(ctx context.Context, kind string, payload domain.EventPayload) {
	if s.bus == nil {
		return
	}
	ev, err := events.NewEvent(kind, payload)
	if err != nil {
		log.Printf("[orders] build event %s: %v", kind, err)
		return
	}
	if err := s.bus.Publish(ctx, events.TopicOrderEvents, ev); err != nil {
		log.Printf("[orders] publish %s for order %s failed: %v", kind, payload.OrderID, err)
	}
}
