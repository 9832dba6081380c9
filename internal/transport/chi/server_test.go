package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/refind-app/refind/internal/domain"
)

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateItem(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.srv.URL+"/items", map[string]string{
		"owner_id":    "owner-1",
		"kind":        "lost",
		"title":       "red leather wallet",
		"description": "lost near the fountain",
		"location":    "Central Park",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created itemResponse
	decodeInto(t, resp, &created)
	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Status != "open" {
		t.Errorf("expected open status, got %q", created.Status)
	}
	if !created.HasVector {
		t.Error("expected has_embedding=true")
	}
	if _, ok := ts.itemRepo.items[created.ID]; !ok {
		t.Error("item not persisted")
	}
}

func TestCreateItem_Validation(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.srv.URL+"/items", map[string]string{
		"owner_id": "owner-1",
		"kind":     "stolen",
		"title":    "wallet",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var errResp errorResponse
	decodeInto(t, resp, &errResp)
	if errResp.Code != "validation_failed" {
		t.Errorf("expected validation_failed, got %q", errResp.Code)
	}
}

func TestGetItem(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["item-1"] = domain.Item{
		ID:        "item-1",
		OwnerID:   "owner-1",
		Kind:      domain.KindLost,
		Title:     "wallet",
		Status:    domain.StatusOpen,
		Embedding: []float32{0.1},
	}

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/items/item-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var item itemResponse
	decodeInto(t, resp, &item)
	if item.Title != "wallet" || !item.HasVector {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/items/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var errResp errorResponse
	decodeInto(t, resp, &errResp)
	if errResp.Code != "item_not_found" {
		t.Errorf("expected item_not_found, got %q", errResp.Code)
	}
}

func TestUpdateItem_NotOwner(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["item-1"] = domain.Item{
		ID:      "item-1",
		OwnerID: "owner-1",
		Kind:    domain.KindLost,
		Title:   "wallet",
		Status:  domain.StatusOpen,
	}

	resp := doJSON(t, http.MethodPut, ts.srv.URL+"/items/item-1", map[string]string{
		"owner_id": "intruder",
		"title":    "hijacked",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestUpdateItem_CloseReport(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["item-1"] = domain.Item{
		ID:      "item-1",
		OwnerID: "owner-1",
		Kind:    domain.KindLost,
		Title:   "wallet",
		Status:  domain.StatusOpen,
	}

	resp := doJSON(t, http.MethodPut, ts.srv.URL+"/items/item-1", map[string]string{
		"owner_id": "owner-1",
		"status":   "closed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var item itemResponse
	decodeInto(t, resp, &item)
	if item.Status != "closed" {
		t.Fatalf("expected closed, got %q", item.Status)
	}
}

func TestDeleteItem(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["item-1"] = domain.Item{
		ID:      "item-1",
		OwnerID: "owner-1",
		Kind:    domain.KindLost,
	}

	resp := doJSON(t, http.MethodDelete, ts.srv.URL+"/items/item-1?owner_id=owner-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if _, ok := ts.itemRepo.items["item-1"]; ok {
		t.Error("item not deleted")
	}
}

func TestListItems_KindFilter(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["a"] = domain.Item{ID: "a", Kind: domain.KindLost}
	ts.itemRepo.items["b"] = domain.Item{ID: "b", Kind: domain.KindFound}

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/items?kind=lost", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []itemResponse
	decodeInto(t, resp, &items)
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestOwnerItems(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["a"] = domain.Item{ID: "a", OwnerID: "owner-1"}
	ts.itemRepo.items["b"] = domain.Item{ID: "b", OwnerID: "owner-2"}

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/owners/owner-1/items", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var items []itemResponse
	decodeInto(t, resp, &items)
	if len(items) != 1 || items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestItemMatches_PicksSideByKind(t *testing.T) {
	ts := newTestServer(t)
	ts.itemRepo.items["lost-1"] = domain.Item{ID: "lost-1", OwnerID: "o", Kind: domain.KindLost}
	ts.itemRepo.items["found-1"] = domain.Item{ID: "found-1", OwnerID: "o", Kind: domain.KindFound}

	now := time.Now().UTC()
	ts.matches.lost = []domain.Match{{ID: 1, LostItemID: "lost-1", FoundItemID: "found-1", CombinedScore: 0.9, CreatedAt: now}}
	ts.matches.found = []domain.Match{{ID: 2, LostItemID: "lost-2", FoundItemID: "found-1", CombinedScore: 0.8, CreatedAt: now}}

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/items/lost-1/matches", nil)
	var matches []matchResponse
	decodeInto(t, resp, &matches)
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("expected the lost-side matches, got %+v", matches)
	}

	resp = doJSON(t, http.MethodGet, ts.srv.URL+"/items/found-1/matches", nil)
	matches = nil
	decodeInto(t, resp, &matches)
	if len(matches) != 1 || matches[0].ID != 2 {
		t.Fatalf("expected the found-side matches, got %+v", matches)
	}
}

func TestRecentMatches(t *testing.T) {
	ts := newTestServer(t)
	now := time.Now().UTC()
	ts.matches.recent = []domain.Match{
		{ID: 3, LostItemID: "lost-1", FoundItemID: "found-3", CombinedScore: 0.91, CreatedAt: now},
		{ID: 2, LostItemID: "lost-1", FoundItemID: "found-2", CombinedScore: 0.85, CreatedAt: now},
		{ID: 1, LostItemID: "lost-2", FoundItemID: "found-1", CombinedScore: 0.80, CreatedAt: now},
	}

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/matches?limit=2&offset=1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var matches []matchResponse
	decodeInto(t, resp, &matches)
	if len(matches) != 2 || matches[0].ID != 2 || matches[1].ID != 1 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestListNotifications(t *testing.T) {
	ts := newTestServer(t)
	ts.notifStore.notifications = []domain.Notification{
		{ID: 1, UserID: "user-1", Subject: "s1", Message: "m1"},
		{ID: 2, UserID: "user-2", Subject: "s2", Message: "m2"},
	}

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/notifications?user_id=user-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var page struct {
		Notifications []notificationResponse `json:"notifications"`
		Page          int                    `json:"page"`
		Limit         int                    `json:"limit"`
	}
	decodeInto(t, resp, &page)
	if len(page.Notifications) != 1 || page.Notifications[0].ID != 1 {
		t.Fatalf("unexpected notifications: %+v", page.Notifications)
	}
	if page.Page != 1 || page.Limit != 10 {
		t.Fatalf("unexpected pagination echo: page=%d limit=%d", page.Page, page.Limit)
	}
}

func TestListNotifications_MissingUser(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/notifications", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUnreadCount(t *testing.T) {
	ts := newTestServer(t)
	ts.notifStore.unread = 4

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/notifications/unread-count?user_id=user-1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]int
	decodeInto(t, resp, &body)
	if body["count"] != 4 {
		t.Fatalf("expected count=4, got %d", body["count"])
	}
}

func TestMarkNotificationRead(t *testing.T) {
	ts := newTestServer(t)
	ts.notifStore.notifications = []domain.Notification{
		{ID: 5, UserID: "user-1", Subject: "s", Message: "m"},
	}

	resp := doJSON(t, http.MethodPost, ts.srv.URL+"/notifications/5/read", map[string]string{
		"user_id": "user-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(ts.notifStore.markedRead) != 1 || ts.notifStore.markedRead[0] != 5 {
		t.Fatalf("unexpected read receipts: %v", ts.notifStore.markedRead)
	}
}

func TestMarkNotificationRead_WrongUser(t *testing.T) {
	ts := newTestServer(t)
	ts.notifStore.notifications = []domain.Notification{
		{ID: 5, UserID: "user-1"},
	}

	resp := doJSON(t, http.MethodPost, ts.srv.URL+"/notifications/5/read", map[string]string{
		"user_id": "user-2",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetNotification_BadID(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/notifications/abc?user_id=user-1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.srv.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	decodeInto(t, resp, &body)
	if body.Status != "ok" {
		t.Fatalf("expected ok, got %q", body.Status)
	}
	for _, check := range []string{"items", "matches"} {
		if body.Checks[check] != "ok" {
			t.Errorf("expected %s check ok, got %q", check, body.Checks[check])
		}
	}
}

func TestHealth_Degraded(t *testing.T) {
	url := newDegradedTestServer(t)

	resp := doJSON(t, http.MethodGet, url+"/health", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	decodeInto(t, resp, &body)
	if body.Status != "degraded" {
		t.Fatalf("expected degraded, got %q", body.Status)
	}
}
