// Package item stores lost/found reports as JSON records in a key-value
// store. Candidate retrieval scans the item key space; the data set is a
// pool of currently open reports, not an unbounded archive.
package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/refind-app/refind/internal/db"
	"github.com/refind-app/refind/internal/domain"
)

// store is the consumer interface for item persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the item repository over a key-value store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an item repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix + "item:"}
}

// Save creates or overwrites an item record.
func (r *Repo) Save(ctx context.Context, item domain.Item) error {
	data, err := json.Marshal(toDTO(item))
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if err := r.store.Set(ctx, r.key(item.ID), data); err != nil {
		return fmt.Errorf("set item %s: %w", item.ID, err)
	}
	return nil
}

// Get returns an item by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Item, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}

	var dto itemDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.Item{}, fmt.Errorf("unmarshal item %s: %w", id, err)
	}
	return fromDTO(dto), nil
}

// Delete removes an item record. DEL is a no-op on absent keys, so the
// record is checked first to keep not-found visible to callers.
func (r *Repo) Delete(ctx context.Context, id string) error {
	ok, err := r.store.Exists(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("exists item %s: %w", id, err)
	}
	if !ok {
		return domain.ErrItemNotFound
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del item %s: %w", id, err)
	}
	return nil
}

// FindCandidates returns open items of the given kind that carry an
// embedding. No other filtering happens here; dimension checks are the
// engine's job.
func (r *Repo) FindCandidates(ctx context.Context, kind domain.ItemKind) ([]domain.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	candidates := items[:0]
	for _, it := range items {
		if it.Kind == kind && it.Status == domain.StatusOpen && it.HasEmbedding() {
			candidates = append(candidates, it)
		}
	}
	return candidates, nil
}

// List returns items, optionally filtered by kind, newest first.
func (r *Repo) List(ctx context.Context, kind domain.ItemKind, limit int) ([]domain.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := items[:0]
	for _, it := range items {
		if kind == "" || it.Kind == kind {
			filtered = append(filtered, it)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// ListByOwner returns one owner's items, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Item, error) {
	items, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	owned := items[:0]
	for _, it := range items {
		if it.OwnerID == ownerID {
			owned = append(owned, it)
		}
	}

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

func (r *Repo) scanAll(ctx context.Context) ([]domain.Item, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan items: %w", err)
	}

	items := make([]domain.Item, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				// Deleted between SCAN and GET.
				continue
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var dto itemDTO
		if err := json.Unmarshal(data, &dto); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		items = append(items, fromDTO(dto))
	}
	return items, nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + id
}
