package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/refind-app/refind/internal/domain"
)

// InsertNotification appends a notification row and returns its id.
func (d *DB) InsertNotification(ctx context.Context, userID string, matchID int64, subject, message string) (int64, error) {
	query := `
		INSERT INTO notifications (user_id, match_id, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := d.db.QueryRowContext(ctx, query, userID, matchID, subject, message).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	return id, nil
}

// NotificationsForUser returns a user's notifications, newest first.
func (d *DB) NotificationsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, match_id, subject, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := d.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.MatchID, &n.Subject, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return notifications, nil
}

// NotificationByID returns one notification, scoped to its recipient.
func (d *DB) NotificationByID(ctx context.Context, id int64, userID string) (domain.Notification, error) {
	query := `
		SELECT id, user_id, match_id, subject, message, read, created_at
		FROM notifications
		WHERE id = $1 AND user_id = $2
	`

	var n domain.Notification
	err := d.db.QueryRowContext(ctx, query, id, userID).
		Scan(&n.ID, &n.UserID, &n.MatchID, &n.Subject, &n.Message, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Notification{}, domain.ErrNotificationNotFound
	}
	if err != nil {
		return domain.Notification{}, fmt.Errorf("query notification %d: %w", id, err)
	}
	return n, nil
}

// MarkNotificationRead flips the read flag, scoped to the recipient.
func (d *DB) MarkNotificationRead(ctx context.Context, id int64, userID string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`

	res, err := d.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// UnreadCount returns the number of unread notifications for a user.
func (d *DB) UnreadCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`

	var count int
	if err := d.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
