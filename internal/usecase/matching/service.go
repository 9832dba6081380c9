// Package matching scans open items of the opposite kind for a newly
// reported item, scores each candidate, and records matches plus their
// notifications.
package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/domain"
	"github.com/refind-app/refind/internal/domain/similarity"
	"github.com/refind-app/refind/internal/metrics"
)

// Service is the matching engine. Stateless between invocations; all state
// lives in the persisted item, match, and notification records, so
// concurrent runs against the same candidate pool need no locking.
type Service struct {
	items     CandidateRepository
	store     MatchStore
	composer  Composer
	threshold float64
	logger    *zap.Logger
}

// New creates a matching engine.
func New(items CandidateRepository, store MatchStore, composer Composer, threshold float64, logger *zap.Logger) *Service {
	if threshold <= 0 {
		threshold = similarity.DefaultThreshold
	}
	return &Service{
		items:     items,
		store:     store,
		composer:  composer,
		threshold: threshold,
		logger:    logger,
	}
}

// scored pairs a retained match with its candidate for ranking.
type scored struct {
	match     domain.Match
	lost      domain.Item
	found     domain.Item
	candidate domain.Item
}

// FindMatchesForItem scores the item against all open candidates of the
// opposite kind and returns the ranked matches at or above the threshold.
// Matches and notifications are persisted per match; a failed write is
// logged and skipped without aborting the remaining matches, and the
// returned list is complete regardless of persistence outcome.
func (s *Service) FindMatchesForItem(ctx context.Context, item domain.Item) ([]domain.Match, error) {
	candidates, err := s.items.FindCandidates(ctx, item.Kind.Opposite())
	if err != nil {
		metrics.MatchingRunsTotal.WithLabelValues(string(item.Kind), "error").Inc()
		return nil, fmt.Errorf("find candidates for %s: %w: %w", item.ID, err, domain.ErrCandidateRetrieval)
	}

	retained := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		textScore, err := similarity.Cosine(item.Embedding, cand.Embedding)
		if err != nil {
			// Candidate embedded under a different model version; skip it.
			s.logger.Warn("Skipping candidate with incompatible embedding",
				zap.String("item_id", item.ID),
				zap.String("candidate_id", cand.ID),
				zap.Error(err),
			)
			continue
		}

		locationScore := similarity.Location(item.Location, cand.Location)
		combined := similarity.Combined(textScore, locationScore)
		if combined < s.threshold {
			continue
		}

		lost, found := orient(item, cand)
		retained = append(retained, scored{
			match: domain.Match{
				LostItemID:    lost.ID,
				FoundItemID:   found.ID,
				TextScore:     textScore,
				LocationScore: locationScore,
				CombinedScore: combined,
			},
			lost:      lost,
			found:     found,
			candidate: cand,
		})
	}

	// Rank: combined desc, earliest-reported candidate first on ties.
	sort.SliceStable(retained, func(i, j int) bool {
		if retained[i].match.CombinedScore != retained[j].match.CombinedScore {
			return retained[i].match.CombinedScore > retained[j].match.CombinedScore
		}
		return retained[i].candidate.CreatedAt.Before(retained[j].candidate.CreatedAt)
	})

	matches := make([]domain.Match, 0, len(retained))
	for _, sc := range retained {
		s.persist(ctx, sc)
		matches = append(matches, sc.match)
	}

	metrics.MatchingRunsTotal.WithLabelValues(string(item.Kind), "ok").Inc()
	metrics.MatchesRecordedTotal.Add(float64(len(matches)))

	return matches, nil
}

// persist writes one match row and its notification. Failures are
// independent per match: a lost write here never aborts the batch, and a
// match without a notification is an accepted, recoverable state.
func (s *Service) persist(ctx context.Context, sc scored) {
	matchID, err := s.store.InsertMatch(ctx, sc.match)
	if err != nil {
		metrics.MatchPersistFailuresTotal.WithLabelValues("match").Inc()
		s.logger.Error("Failed to persist match",
			zap.String("lost_item_id", sc.match.LostItemID),
			zap.String("found_item_id", sc.match.FoundItemID),
			zap.Error(err),
		)
		return
	}

	content := s.composer.Compose(ctx, sc.lost, sc.found, sc.match.CombinedScore)

	if _, err := s.store.InsertNotification(ctx, sc.lost.OwnerID, matchID, content.Subject, content.Message); err != nil {
		metrics.MatchPersistFailuresTotal.WithLabelValues("notification").Inc()
		s.logger.Error("Failed to persist notification",
			zap.Int64("match_id", matchID),
			zap.String("user_id", sc.lost.OwnerID),
			zap.Error(err),
		)
	}
}

// orient returns the (lost, found) pair regardless of which side triggered
// the run.
func orient(item, candidate domain.Item) (lost, found domain.Item) {
	if item.Kind == domain.KindLost {
		return item, candidate
	}
	return candidate, item
}
