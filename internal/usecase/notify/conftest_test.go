package notify

import (
	"context"

	"github.com/refind-app/refind/internal/domain"
)

type mockGenerator struct {
	enabled bool
	out     string
	err     error
	prompt  string
	calls   int
}

func (m *mockGenerator) Enabled() bool {
	return m.enabled
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.out, m.err
}

type mockNotifStore struct {
	listFn     func(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	getFn      func(ctx context.Context, id int64, userID string) (domain.Notification, error)
	markReadFn func(ctx context.Context, id int64, userID string) error
	unreadFn   func(ctx context.Context, userID string) (int, error)
}

func (m *mockNotifStore) NotificationsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockNotifStore) NotificationByID(ctx context.Context, id int64, userID string) (domain.Notification, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id, userID)
	}
	return domain.Notification{}, domain.ErrNotificationNotFound
}

func (m *mockNotifStore) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, id, userID)
	}
	return nil
}

func (m *mockNotifStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	if m.unreadFn != nil {
		return m.unreadFn(ctx, userID)
	}
	return 0, nil
}
