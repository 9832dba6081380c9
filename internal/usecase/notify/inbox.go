package notify

import (
	"context"
	"fmt"

	"github.com/refind-app/refind/internal/domain"
)

// Inbox pagination bounds.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Inbox serves a user's notifications: listing, read receipts, and the
// unread badge count. All operations are scoped to the recipient.
type Inbox struct {
	store Store
}

// NewInbox creates a notification inbox.
func NewInbox(store Store) *Inbox {
	return &Inbox{store: store}
}

// List returns one page of a user's notifications, newest first.
// page is 1-based; limit falls back to the default page size.
func (i *Inbox) List(ctx context.Context, userID string, page, limit int) ([]domain.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	notifications, err := i.store.NotificationsForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Get returns a single notification belonging to the user.
func (i *Inbox) Get(ctx context.Context, id int64, userID string) (domain.Notification, error) {
	if userID == "" {
		return domain.Notification{}, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	n, err := i.store.NotificationByID(ctx, id, userID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("get notification %d: %w", id, err)
	}
	return n, nil
}

// MarkRead flips the read flag on a notification belonging to the user.
func (i *Inbox) MarkRead(ctx context.Context, id int64, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	if err := i.store.MarkNotificationRead(ctx, id, userID); err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications for the user.
func (i *Inbox) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	count, err := i.store.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return count, nil
}
