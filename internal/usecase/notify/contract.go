package notify

import (
	"context"

	"github.com/refind-app/refind/internal/domain"
)

// Generator produces free text from a single prompt. Enabled reports
// whether a credential is configured; when it is not, the composer uses
// its deterministic template without calling Generate.
type Generator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store reads and mutates persisted notifications for the inbox.
type Store interface {
	NotificationsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error)
	NotificationByID(ctx context.Context, id int64, userID string) (domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}
