package chi

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/domain"
	healthuc "github.com/refind-app/refind/internal/usecase/health"
	itemuc "github.com/refind-app/refind/internal/usecase/item"
	"github.com/refind-app/refind/internal/usecase/notify"
)

// mockItemRepo implements the item usecase repository.
type mockItemRepo struct {
	items map[string]domain.Item
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: make(map[string]domain.Item)}
}

func (m *mockItemRepo) Save(_ context.Context, item domain.Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *mockItemRepo) Get(_ context.Context, id string) (domain.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound
	}
	return item, nil
}

func (m *mockItemRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockItemRepo) List(_ context.Context, kind domain.ItemKind, _ int) ([]domain.Item, error) {
	var out []domain.Item
	for _, it := range m.items {
		if kind == "" || it.Kind == kind {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockItemRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Item, error) {
	var out []domain.Item
	for _, it := range m.items {
		if it.OwnerID == ownerID {
			out = append(out, it)
		}
	}
	return out, nil
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockMatchReader struct {
	lost   []domain.Match
	found  []domain.Match
	recent []domain.Match
	err    error
}

func (m *mockMatchReader) MatchesForLostItem(_ context.Context, _ string) ([]domain.Match, error) {
	return m.lost, m.err
}

func (m *mockMatchReader) MatchesForFoundItem(_ context.Context, _ string) ([]domain.Match, error) {
	return m.found, m.err
}

func (m *mockMatchReader) RecentMatches(_ context.Context, limit, offset int) ([]domain.Match, error) {
	if m.err != nil {
		return nil, m.err
	}
	if offset >= len(m.recent) {
		return nil, nil
	}
	out := m.recent[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type mockNotifStore struct {
	notifications []domain.Notification
	unread        int
	markedRead    []int64
}

func (m *mockNotifStore) NotificationsForUser(_ context.Context, userID string, _, _ int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotifStore) NotificationByID(_ context.Context, id int64, userID string) (domain.Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return domain.Notification{}, domain.ErrNotificationNotFound
}

func (m *mockNotifStore) MarkNotificationRead(_ context.Context, id int64, userID string) error {
	for _, n := range m.notifications {
		if n.ID == id && n.UserID == userID {
			m.markedRead = append(m.markedRead, id)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (m *mockNotifStore) UnreadCount(_ context.Context, _ string) (int, error) {
	return m.unread, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// newDegradedTestServer wires a server whose item store ping fails and
// returns its base URL.
func newDegradedTestServer(t *testing.T) string {
	t.Helper()

	itemSvc := itemuc.New(newMockItemRepo(), &mockEmbedder{}, nil, zap.NewNop())
	inbox := notify.NewInbox(&mockNotifStore{})
	healthSvc := healthuc.New(&mockPinger{err: errors.New("conn refused")}, &mockPinger{}, nil)

	server := NewServer(itemSvc, &mockMatchReader{}, inbox, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	server.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

// testServer wires real services over mocks and mounts the routes.
type testServer struct {
	srv        *httptest.Server
	itemRepo   *mockItemRepo
	matches    *mockMatchReader
	notifStore *mockNotifStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	itemRepo := newMockItemRepo()
	matches := &mockMatchReader{}
	notifStore := &mockNotifStore{}

	itemSvc := itemuc.New(itemRepo, &mockEmbedder{vec: []float32{0.1, 0.2}}, nil, zap.NewNop())
	inbox := notify.NewInbox(notifStore)
	healthSvc := healthuc.New(&mockPinger{}, &mockPinger{}, nil)

	server := NewServer(itemSvc, matches, inbox, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	server.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		srv:        srv,
		itemRepo:   itemRepo,
		matches:    matches,
		notifStore: notifStore,
	}
}
