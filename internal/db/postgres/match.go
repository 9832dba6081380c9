package postgres

import (
	"context"
	"fmt"

	"github.com/refind-app/refind/internal/domain"
)

// InsertMatch appends a match row and returns its id.
func (d *DB) InsertMatch(ctx context.Context, m domain.Match) (int64, error) {
	query := `
		INSERT INTO matches (lost_item_id, found_item_id, text_score, location_score, combined_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := d.db.QueryRowContext(ctx, query,
		m.LostItemID,
		m.FoundItemID,
		m.TextScore,
		m.LocationScore,
		m.CombinedScore,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return id, nil
}

// MatchesForLostItem returns matches referencing a lost item, best first.
func (d *DB) MatchesForLostItem(ctx context.Context, lostItemID string) ([]domain.Match, error) {
	query := `
		SELECT id, lost_item_id, found_item_id, text_score, location_score, combined_score, created_at
		FROM matches
		WHERE lost_item_id = $1
		ORDER BY combined_score DESC
	`
	return d.queryMatches(ctx, query, lostItemID)
}

// MatchesForFoundItem returns matches referencing a found item, best first.
func (d *DB) MatchesForFoundItem(ctx context.Context, foundItemID string) ([]domain.Match, error) {
	query := `
		SELECT id, lost_item_id, found_item_id, text_score, location_score, combined_score, created_at
		FROM matches
		WHERE found_item_id = $1
		ORDER BY combined_score DESC
	`
	return d.queryMatches(ctx, query, foundItemID)
}

// RecentMatches returns the newest matches with offset pagination.
func (d *DB) RecentMatches(ctx context.Context, limit, offset int) ([]domain.Match, error) {
	query := `
		SELECT id, lost_item_id, found_item_id, text_score, location_score, combined_score, created_at
		FROM matches
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return d.queryMatches(ctx, query, limit, offset)
}

func (d *DB) queryMatches(ctx context.Context, query string, args ...any) ([]domain.Match, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(
			&m.ID,
			&m.LostItemID,
			&m.FoundItemID,
			&m.TextScore,
			&m.LocationScore,
			&m.CombinedScore,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}
