package item

import (
	"context"
	"sync"
	"time"

	"github.com/refind-app/refind/internal/domain"
)

type mockRepo struct {
	mu    sync.Mutex
	saved []domain.Item

	getItem domain.Item
	getErr  error
	saveErr error
	delErr  error
	deleted []string
}

func (m *mockRepo) Save(_ context.Context, item domain.Item) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	m.saved = append(m.saved, item)
	m.mu.Unlock()
	return nil
}

func (m *mockRepo) Get(_ context.Context, _ string) (domain.Item, error) {
	return m.getItem, m.getErr
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ domain.ItemKind, _ int) ([]domain.Item, error) {
	return m.saved, nil
}

func (m *mockRepo) ListByOwner(_ context.Context, _ string) ([]domain.Item, error) {
	return m.saved, nil
}

func (m *mockRepo) lastSaved() domain.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[len(m.saved)-1]
}

type mockEmbedder struct {
	vec      []float32
	err      error
	lastText string
	calls    int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 5}, nil
}

// mockMatcher records trigger invocations and signals them on a channel so
// tests can wait for the detached goroutine.
type mockMatcher struct {
	mu        sync.Mutex
	items     []domain.Item
	triggered chan struct{}
}

func newMockMatcher() *mockMatcher {
	return &mockMatcher{triggered: make(chan struct{}, 8)}
}

func (m *mockMatcher) FindMatchesForItem(_ context.Context, item domain.Item) ([]domain.Match, error) {
	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	m.triggered <- struct{}{}
	return nil, nil
}

func (m *mockMatcher) waitForTrigger(timeout time.Duration) bool {
	select {
	case <-m.triggered:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (m *mockMatcher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
