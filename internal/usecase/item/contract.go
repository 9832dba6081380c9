package item

import (
	"context"

	"github.com/refind-app/refind/internal/domain"
)

// Repository persists lost/found reports.
type Repository interface {
	Save(ctx context.Context, item domain.Item) error
	Get(ctx context.Context, id string) (domain.Item, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, kind domain.ItemKind, limit int) ([]domain.Item, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Item, error)
}

// Matcher runs a matching pass for a freshly embedded item.
type Matcher interface {
	FindMatchesForItem(ctx context.Context, item domain.Item) ([]domain.Match, error)
}
