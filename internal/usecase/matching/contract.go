package matching

import (
	"context"

	"github.com/refind-app/refind/internal/domain"
)

// CandidateRepository reads the pool of open items eligible for matching.
type CandidateRepository interface {
	FindCandidates(ctx context.Context, kind domain.ItemKind) ([]domain.Item, error)
}

// MatchStore persists match and notification rows. Append-only from the
// engine's perspective; the two inserts are separate writes with no
// cross-write transaction.
type MatchStore interface {
	InsertMatch(ctx context.Context, m domain.Match) (int64, error)
	InsertNotification(ctx context.Context, userID string, matchID int64, subject, message string) (int64, error)
}

// Composer turns a match into user-facing notification content. It never
// fails: every error path inside resolves to a deterministic template.
type Composer interface {
	Compose(ctx context.Context, lost, found domain.Item, score float64) domain.NotificationContent
}
