package refind

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ItemService manages lost and found reports.
type ItemService struct {
	client *Client
}

// Create submits a new report. The server vectorizes it and kicks off a
// matching pass in the background; matches appear via Matches and the
// owner's notification inbox.
func (s *ItemService) Create(ctx context.Context, in NewItem) (Item, error) {
	var item Item
	if err := s.client.do(ctx, http.MethodPost, "/items", nil, in, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Get returns one report by id.
func (s *ItemService) Get(ctx context.Context, id string) (Item, error) {
	var item Item
	if err := s.client.do(ctx, http.MethodGet, "/items/"+url.PathEscape(id), nil, nil, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns reports, optionally filtered by kind. limit <= 0 uses the
// server default.
func (s *ItemService) List(ctx context.Context, kind ItemKind, limit int) ([]Item, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("kind", string(kind))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var items []Item
	if err := s.client.do(ctx, http.MethodGet, "/items", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByOwner returns one owner's reports.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID string) ([]Item, error) {
	var items []Item
	path := "/owners/" + url.PathEscape(ownerID) + "/items"
	if err := s.client.do(ctx, http.MethodGet, path, nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a patch to an owned report.
func (s *ItemService) Update(ctx context.Context, id string, patch ItemPatch) (Item, error) {
	var item Item
	if err := s.client.do(ctx, http.MethodPut, "/items/"+url.PathEscape(id), nil, patch, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Delete removes an owned report.
func (s *ItemService) Delete(ctx context.Context, id, ownerID string) error {
	q := url.Values{"owner_id": []string{ownerID}}
	return s.client.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), q, nil, nil)
}

// Matches lists the recorded matches a report participates in, best first.
func (s *ItemService) Matches(ctx context.Context, id string) ([]Match, error) {
	var matches []Match
	path := "/items/" + url.PathEscape(id) + "/matches"
	if err := s.client.do(ctx, http.MethodGet, path, nil, nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}
