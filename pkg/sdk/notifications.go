package refind

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// NotificationService reads a user's match notifications.
type NotificationService struct {
	client *Client
}

// List returns one page of the user's notifications, newest first.
// page is 1-based; zero values use the server defaults.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (NotificationPage, error) {
	q := url.Values{"user_id": []string{userID}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out NotificationPage
	if err := s.client.do(ctx, http.MethodGet, "/notifications", q, nil, &out); err != nil {
		return NotificationPage{}, err
	}
	return out, nil
}

// Get returns a single notification belonging to the user.
func (s *NotificationService) Get(ctx context.Context, id int64, userID string) (Notification, error) {
	q := url.Values{"user_id": []string{userID}}
	path := "/notifications/" + strconv.FormatInt(id, 10)

	var n Notification
	if err := s.client.do(ctx, http.MethodGet, path, q, nil, &n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// MarkRead flips the read flag on a notification belonging to the user.
func (s *NotificationService) MarkRead(ctx context.Context, id int64, userID string) error {
	path := "/notifications/" + strconv.FormatInt(id, 10) + "/read"
	body := map[string]string{"user_id": userID}
	return s.client.do(ctx, http.MethodPost, path, nil, body, nil)
}

// UnreadCount returns the user's unread notification count.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	q := url.Values{"user_id": []string{userID}}

	var out struct {
		Count int `json:"count"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/notifications/unread-count", q, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
