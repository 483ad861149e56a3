package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelance-market/market-backend/internal/events"
	"github.com/freelance-market/market-backend/internal/notifications/domain"
	"github.com/freelance-market/market-backend/internal/notifications/repository"
	ordersdomain "github.com/freelance-market/market-backend/internal/orders/domain"
)

type fakeBus struct {
	published []events.Event
	topics    []string
	pubErr    error
}

func (f *fakeBus) Publish(ctx context.Context, topic string, ev events.Event) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.topics = append(f.topics, topic)
	f.published = append(f.published, ev)
	return nil
}

func (f *fakeBus) Subscribe(ctx context.Context, topic string, handler events.Handler) {}

var notificationCols = []string{
	"id", "type", "content", "is_read", "sender_id", "receiver_id", "created_at",
}

func notificationRow(id string, typ domain.Type, content string, isRead bool, sender *string, receiver string) *sqlmock.Rows {
	return sqlmock.NewRows(notificationCols).
		AddRow(id, string(typ), content, isRead, sender, receiver, time.Now())
}

func setupNotificationService(t *testing.T, bus *fakeBus) (*NotificationService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewNotificationService(repository.NewNotificationRepository(db), bus), mock
}

func orderEvent(t *testing.T, kind string, p ordersdomain.EventPayload) events.Event {
	t.Helper()
	ev, err := events.NewEvent(kind, p)
	require.NoError(t, err)
	return ev
}

func TestHandleOrderEvent_Mapping(t *testing.T) {
	payload := ordersdomain.EventPayload{
		OrderID:      "o-1",
		ProjectID:    "p-1",
		ProjectTitle: "Logo design",
		ClientID:     "c-1",
		FreelancerID: "f-1",
		SenderID:     "f-1",
		ReceiverID:   "c-1",
	}

	cases := []struct {
		kind         string
		wantType     domain.Type
		wantContent  string
		wantReceiver string
		wantSender   string
	}{
		{
			kind:         ordersdomain.EventOrderPlaced,
			wantType:     domain.TypeOrderPlaced,
			wantContent:  "New order placed for project: Logo design",
			wantReceiver: "f-1",
			wantSender:   "c-1",
		},
		{
			kind:         ordersdomain.EventOrderAccepted,
			wantType:     domain.TypeOrderAccepted,
			wantContent:  "Your order for project: Logo design has been accepted",
			wantReceiver: "c-1",
			wantSender:   "f-1",
		},
		{
			kind:         ordersdomain.EventOrderCompleted,
			wantType:     domain.TypeOrderCompleted,
			wantContent:  "Your order for project: Logo design has been completed",
			wantReceiver: "c-1",
			wantSender:   "f-1",
		},
		{
			kind:         ordersdomain.EventOrderCancelled,
			wantType:     domain.TypeOrderCancelled,
			wantContent:  "Order for project: Logo design has been cancelled",
			wantReceiver: "c-1",
			wantSender:   "f-1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			bus := &fakeBus{}
			svc, mock := setupNotificationService(t, bus)

			mock.ExpectQuery(`INSERT INTO notifications`).
				WithArgs(sqlmock.AnyArg(), string(tc.wantType), tc.wantContent, tc.wantSender, tc.wantReceiver).
				WillReturnRows(notificationRow("n-1", tc.wantType, tc.wantContent, false, &tc.wantSender, tc.wantReceiver))

			err := svc.HandleOrderEvent(context.Background(), orderEvent(t, tc.kind, payload))
			require.NoError(t, err)

			// One row persisted, one realtime push.
			require.NoError(t, mock.ExpectationsWereMet())
			require.Len(t, bus.published, 1)
			assert.Equal(t, events.TopicOrderUpdates, bus.topics[0])
			assert.Equal(t, tc.kind, bus.published[0].Type)
		})
	}
}

func TestHandleOrderEvent_DropsUnknownKinds(t *testing.T) {
	bus := &fakeBus{}
	svc, mock := setupNotificationService(t, bus)

	err := svc.HandleOrderEvent(context.Background(), orderEvent(t, "ORDER_SHIPPED", ordersdomain.EventPayload{
		OrderID: "o-1",
	}))
	require.NoError(t, err)

	// Unknown kinds write nothing and push nothing.
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, bus.published)
}

func TestHandleOrderEvent_BadPayload(t *testing.T) {
	bus := &fakeBus{}
	svc, _ := setupNotificationService(t, bus)

	err := svc.HandleOrderEvent(context.Background(), events.Event{
		Type:    ordersdomain.EventOrderPlaced,
		Payload: json.RawMessage(`{"order_id": 42}`),
	})
	assert.Error(t, err)
	assert.Empty(t, bus.published)
}

func TestHandleOrderEvent_PersistErrorPropagates(t *testing.T) {
	bus := &fakeBus{}
	svc, mock := setupNotificationService(t, bus)

	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnError(errors.New("insert failed"))

	err := svc.HandleOrderEvent(context.Background(), orderEvent(t, ordersdomain.EventOrderAccepted, ordersdomain.EventPayload{
		OrderID:      "o-1",
		ProjectTitle: "Logo design",
		ClientID:     "c-1",
		FreelancerID: "f-1",
	}))
	assert.Error(t, err)

	// A failed insert never reaches the realtime push.
	assert.Empty(t, bus.published)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleOrderEvent_PushFailureIsSwallowed(t *testing.T) {
	bus := &fakeBus{pubErr: errors.New("redis down")}
	svc, mock := setupNotificationService(t, bus)

	sender := "c-1"
	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(notificationRow("n-1", domain.TypeOrderPlaced, "New order placed for project: Logo design", false, &sender, "f-1"))

	err := svc.HandleOrderEvent(context.Background(), orderEvent(t, ordersdomain.EventOrderPlaced, ordersdomain.EventPayload{
		OrderID:      "o-1",
		ProjectTitle: "Logo design",
		ClientID:     "c-1",
		FreelancerID: "f-1",
	}))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsRead_Idempotent(t *testing.T) {
	bus := &fakeBus{}
	svc, mock := setupNotificationService(t, bus)

	sender := "c-1"

	// First call flips the flag, the second finds it already set. Both return
	// the row with is_read true.
	mock.ExpectQuery(`UPDATE notifications SET is_read = true`).
		WithArgs("n-1").
		WillReturnRows(notificationRow("n-1", domain.TypeOrderPlaced, "x", true, &sender, "f-1"))
	mock.ExpectQuery(`UPDATE notifications SET is_read = true`).
		WithArgs("n-1").
		WillReturnRows(notificationRow("n-1", domain.TypeOrderPlaced, "x", true, &sender, "f-1"))

	first, err := svc.MarkAsRead(context.Background(), "n-1")
	require.NoError(t, err)
	assert.True(t, first.IsRead)

	second, err := svc.MarkAsRead(context.Background(), "n-1")
	require.NoError(t, err)
	assert.True(t, second.IsRead)
	assert.Equal(t, first.ID, second.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsRead_NotFound(t *testing.T) {
	bus := &fakeBus{}
	svc, mock := setupNotificationService(t, bus)

	mock.ExpectQuery(`UPDATE notifications SET is_read = true`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.MarkAsRead(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser(t *testing.T) {
	bus := &fakeBus{}
	svc, mock := setupNotificationService(t, bus)

	sender := "c-1"
	rows := sqlmock.NewRows(notificationCols).
		AddRow("n-2", string(domain.TypeOrderAccepted), "newer", false, &sender, "f-1", time.Now()).
		AddRow("n-1", string(domain.TypeOrderPlaced), "older", true, &sender, "f-1", time.Now().Add(-time.Hour))

	mock.ExpectQuery(`SELECT (.+) FROM notifications`).
		WithArgs("f-1").
		WillReturnRows(rows)

	items, err := svc.ListForUser(context.Background(), "f-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n-2", items[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
