package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the requested order does not exist.
var ErrNotFound = errors.New("order not found")

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusDisputed   Status = "DISPUTED"
	StatusRevision   Status = "REVISION"
)

// IsValidStatus reports whether s names a known order status.
func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusDisputed, StatusRevision:
		return true
	}
	return false
}

// Order is a client's commitment to pay for a project. TotalAmount is copied
// from the project's price when the order is created and never recomputed,
// even if the project's price changes later.
type Order struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	ClientID     string     `json:"client_id"`
	Status       Status     `json:"status"`
	TotalAmount  float64    `json:"total_amount"`
	Requirements *string    `json:"requirements,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Event kinds emitted on the order-events topic.
const (
	EventOrderPlaced    = "ORDER_PLACED"
	EventOrderAccepted  = "ORDER_ACCEPTED"
	EventOrderCompleted = "ORDER_COMPLETED"
	EventOrderCancelled = "ORDER_CANCELLED"
)

// EventPayload is the order-events message body. Sender/receiver carry the
// notification direction for status events; they are empty on ORDER_PLACED,
// where the subscriber derives the direction itself.
type EventPayload struct {
	OrderID      string `json:"order_id"`
	ProjectID    string `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	ClientID     string `json:"client_id"`
	FreelancerID string `json:"freelancer_id"`
	SenderID     string `json:"sender_id,omitempty"`
	ReceiverID   string `json:"receiver_id,omitempty"`
}

// EventForStatus maps a target status to the event kind emitted after the
// write, or "" when the transition is silent (IN_PROGRESS, REVISION, DISPUTED).
func EventForStatus(status Status) string {
	switch status {
	case StatusAccepted:
		return EventOrderAccepted
	case StatusCompleted:
		return EventOrderCompleted
	case StatusCancelled:
		return EventOrderCancelled
	default:
		return ""
	}
}
