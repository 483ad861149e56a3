package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the requested notification does not exist.
var ErrNotFound = errors.New("notification not found")

type Type string

const (
	TypeOrderPlaced     Type = "ORDER_PLACED"
	TypeOrderAccepted   Type = "ORDER_ACCEPTED"
	TypeOrderCompleted  Type = "ORDER_COMPLETED"
	TypeOrderCancelled  Type = "ORDER_CANCELLED"
	TypePaymentReceived Type = "PAYMENT_RECEIVED"
	TypeMessageReceived Type = "MESSAGE_RECEIVED"
	TypeReviewReceived  Type = "REVIEW_RECEIVED"
)

// Notification is a persisted, user-facing record of a domain event.
// Rows are created only by the order-events subscriber; the only mutation
// afterwards is flipping IsRead.
type Notification struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	SenderID   *string   `json:"sender_id,omitempty"`
	ReceiverID string    `json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`
}
