package domain

import "time"

// Notification is a message delivered to the owner of a lost item when a
// candidate match is recorded.
type Notification struct {
	ID        int64
	UserID    string
	MatchID   int64
	Subject   string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// NotificationContent is the composed subject/message pair before persistence.
type NotificationContent struct {
	Subject string
	Message string
}
