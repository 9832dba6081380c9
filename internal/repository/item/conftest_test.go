package item

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/refind-app/refind/internal/db"
	"github.com/refind-app/refind/internal/domain"
)

// mockStore is a map-backed key-value store with error injection hooks.
type mockStore struct {
	data map[string][]byte

	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte) error
	delFn    func(ctx context.Context, key string) error
	existsFn func(ctx context.Context, key string) (bool, error)
	scanFn   func(ctx context.Context, pattern string) ([]string, error)
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	data, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	delete(m.data, key)
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, "test:"), ms
}

func testItem(id string, kind domain.ItemKind, createdAt time.Time) domain.Item {
	return domain.Item{
		ID:        id,
		OwnerID:   "owner-1",
		Kind:      kind,
		Title:     "item " + id,
		Status:    domain.StatusOpen,
		Embedding: []float32{0.1, 0.2},
		CreatedAt: createdAt,
	}
}
