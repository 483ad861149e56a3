package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/freelance-market/market-backend/internal/events"
	"github.com/freelance-market/market-backend/internal/notifications/domain"
	"github.com/freelance-market/market-backend/internal/notifications/repository"
	ordersdomain "github.com/freelance-market/market-backend/internal/orders/domain"
)

// Bus is the slice of the event bus the dispatcher needs.
type Bus interface {
	Publish(ctx context.Context, topic string, ev events.Event) error
	Subscribe(ctx context.Context, topic string, handler events.Handler)
}

// NotificationService translates order events into persisted notification
// rows and a best-effort realtime push.
type NotificationService struct {
	repo *repository.NotificationRepository
	bus  Bus
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo *repository.NotificationRepository, bus Bus) *NotificationService {
	return &NotificationService{repo: repo, bus: bus}
}

// Start subscribes to the order-events topic. Called once at process startup;
// messages are dispatched serially as they arrive.
func (s *NotificationService) Start(ctx context.Context) {
	s.bus.Subscribe(ctx, events.TopicOrderEvents, s.HandleOrderEvent)
}

// HandleOrderEvent maps one order event to exactly one notification row.
// The event-to-type mapping is a fixed table; REVISION and DISPUTED changes
// never reach this topic. Persistence errors propagate to the subscriber
// loop, which logs them; the realtime push afterwards is best effort.
func (s *NotificationService) HandleOrderEvent(ctx context.Context, ev events.Event) error {
	var p ordersdomain.EventPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return fmt.Errorf("decode order event payload: %w", err)
	}

	var (
		typ      domain.Type
		receiver string
		sender   string
		content  string
	)

	switch ev.Type {
	case ordersdomain.EventOrderPlaced:
		typ = domain.TypeOrderPlaced
		receiver = p.FreelancerID
		sender = p.ClientID
		content = fmt.Sprintf("New order placed for project: %s", p.ProjectTitle)
	case ordersdomain.EventOrderAccepted:
		typ = domain.TypeOrderAccepted
		receiver = p.ClientID
		sender = p.FreelancerID
		content = fmt.Sprintf("Your order for project: %s has been accepted", p.ProjectTitle)
	case ordersdomain.EventOrderCompleted:
		typ = domain.TypeOrderCompleted
		receiver = p.ClientID
		sender = p.FreelancerID
		content = fmt.Sprintf("Your order for project: %s has been completed", p.ProjectTitle)
	case ordersdomain.EventOrderCancelled:
		typ = domain.TypeOrderCancelled
		receiver = p.ReceiverID
		sender = p.SenderID
		content = fmt.Sprintf("Order for project: %s has been cancelled", p.ProjectTitle)
	default:
		// No mapping for this event kind; drop it.
		return nil
	}

	if _, err := s.Create(ctx, typ, receiver, &sender, content); err != nil {
		return err
	}

	// Best-effort push to the order updates stream; no ack, no retry.
	push, err := events.NewEvent(ev.Type, p)
	if err == nil {
		if perr := s.bus.Publish(ctx, events.TopicOrderUpdates, push); perr != nil {
			log.Printf("[notifications] order update push failed: %v", perr)
		}
	}

	return nil
}

// Create persists a single notification row.
func (s *NotificationService) Create(ctx context.Context, typ domain.Type, receiverID string, senderID *string, content string) (*domain.Notification, error) {
	return s.repo.Create(ctx, typ, receiverID, senderID, content)
}

// ListForUser returns the user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.repo.ListByReceiver(ctx, userID)
}

// MarkAsRead flips is_read; calling it repeatedly on the same id is safe.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, id)
}
