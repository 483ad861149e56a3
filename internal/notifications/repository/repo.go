package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/freelance-market/market-backend/internal/notifications/domain"
)

// NotificationRepository provides persistence operations for notifications
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, type, content, is_read, sender_id, receiver_id, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.Type, &n.Content, &n.IsRead, &n.SenderID, &n.ReceiverID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts one notification row.
func (r *NotificationRepository) Create(ctx context.Context, typ domain.Type, receiverID string, senderID *string, content string) (*domain.Notification, error) {
	const q = `
INSERT INTO notifications (id, type, content, is_read, sender_id, receiver_id, created_at)
VALUES ($1, $2, $3, false, $4, $5, now())
RETURNING ` + notificationColumns + `;
`
	n, err := scanNotification(r.db.QueryRowContext(ctx, q,
		uuid.New().String(), typ, content, senderID, receiverID,
	))
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// ListByReceiver returns the user's notifications, newest first.
func (r *NotificationRepository) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Notification, error) {
	const q = `
SELECT ` + notificationColumns + ` FROM notifications
WHERE receiver_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0, 16)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flips is_read to true and returns the row. Setting an already-read
// notification is a no-op, so the call is idempotent.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	const q = `
UPDATE notifications SET is_read = true
WHERE id = $1
RETURNING ` + notificationColumns + `;
`
	n, err := scanNotification(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}
