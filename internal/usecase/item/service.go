// Package item handles report CRUD with automatic vectorization and the
// fire-and-forget matching trigger.
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/domain"
)

// Service handles lost/found report lifecycle. Embedding failures degrade:
// the report is saved without a vector rather than failing the request.
type Service struct {
	repo     Repository
	embedder domain.Embedder
	matcher  Matcher
	logger   *zap.Logger
}

// New creates an item service. matcher may be nil (matching disabled).
func New(repo Repository, embedder domain.Embedder, matcher Matcher, logger *zap.Logger) *Service {
	return &Service{repo: repo, embedder: embedder, matcher: matcher, logger: logger}
}

// NewItem is the caller input for Create.
type NewItem struct {
	OwnerID     string
	Kind        domain.ItemKind
	Title       string
	Description string
	Location    string
}

// ItemPatch is the caller input for Update. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string
	Description *string
	Location    *string
	Status      *domain.ItemStatus
}

// Create stores a new report, vectorizes it, and triggers matching against
// the opposite kind. The caller never waits on matching and never sees its
// errors.
func (s *Service) Create(ctx context.Context, in NewItem) (domain.Item, error) {
	if in.OwnerID == "" {
		return domain.Item{}, fmt.Errorf("owner id is required: %w", domain.ErrInvalidInput)
	}
	if !in.Kind.Valid() {
		return domain.Item{}, fmt.Errorf("kind must be %q or %q: %w", domain.KindLost, domain.KindFound, domain.ErrInvalidInput)
	}
	if in.Title == "" {
		return domain.Item{}, fmt.Errorf("title is required: %w", domain.ErrInvalidInput)
	}

	item := domain.Item{
		ID:          uuid.NewString(),
		OwnerID:     in.OwnerID,
		Kind:        in.Kind,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Status:      domain.StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}

	s.embed(ctx, &item)

	if err := s.repo.Save(ctx, item); err != nil {
		return domain.Item{}, fmt.Errorf("save item: %w", err)
	}

	if item.HasEmbedding() {
		s.triggerMatching(ctx, item)
	}

	return item, nil
}

// Get returns a report by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns reports, optionally filtered by kind.
func (s *Service) List(ctx context.Context, kind domain.ItemKind, limit int) ([]domain.Item, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("unknown kind %q: %w", kind, domain.ErrInvalidInput)
	}
	items, err := s.repo.List(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// ListByOwner returns one owner's reports.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Item, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner id is required: %w", domain.ErrInvalidInput)
	}
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	return items, nil
}

// Update applies a patch to an owned report, re-vectorizing when the title
// or description changed, and re-triggers matching when an embedding is
// present afterwards.
func (s *Service) Update(ctx context.Context, id, ownerID string, patch ItemPatch) (domain.Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	if item.OwnerID != ownerID {
		return domain.Item{}, domain.ErrNotOwner
	}

	textChanged := false
	if patch.Title != nil && *patch.Title != item.Title {
		if *patch.Title == "" {
			return domain.Item{}, fmt.Errorf("title cannot be empty: %w", domain.ErrInvalidInput)
		}
		item.Title = *patch.Title
		textChanged = true
	}
	if patch.Description != nil && *patch.Description != item.Description {
		item.Description = *patch.Description
		textChanged = true
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return domain.Item{}, fmt.Errorf("unknown status %q: %w", *patch.Status, domain.ErrInvalidInput)
		}
		item.Status = *patch.Status
	}

	if textChanged {
		s.embed(ctx, &item)
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return domain.Item{}, fmt.Errorf("save item: %w", err)
	}

	if textChanged && item.HasEmbedding() && item.Status == domain.StatusOpen {
		s.triggerMatching(ctx, item)
	}

	return item, nil
}

// Delete removes an owned report.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.OwnerID != ownerID {
		return domain.ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// embed computes the item's vector, continuing without one on failure.
func (s *Service) embed(ctx context.Context, item *domain.Item) {
	result, err := s.embedder.Embed(ctx, item.EmbeddingText())
	if err != nil {
		s.logger.Warn("Failed to vectorize item, continuing without embedding",
			zap.String("item_id", item.ID),
			zap.Error(err),
		)
		item.Embedding = nil
		return
	}
	item.Embedding = result.Embedding
}

// triggerMatching runs a matching pass in a detached goroutine. The
// request flow does not wait on it and its errors stay contained here.
func (s *Service) triggerMatching(ctx context.Context, item domain.Item) {
	if s.matcher == nil {
		return
	}

	// Detach from the request lifetime but keep context values (request
	// logger, trace id).
	bgCtx := context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Matching run panicked",
					zap.String("item_id", item.ID),
					zap.Any("panic", r),
				)
			}
		}()

		matches, err := s.matcher.FindMatchesForItem(bgCtx, item)
		if err != nil {
			s.logger.Error("Matching run failed",
				zap.String("item_id", item.ID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("Matching run finished",
			zap.String("item_id", item.ID),
			zap.String("kind", string(item.Kind)),
			zap.Int("matches", len(matches)),
		)
	}()
}
