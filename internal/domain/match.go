package domain

import "time"

// Match is a scored correspondence between one lost item and one found item.
// Matches are append-only: the engine creates them and nothing in this
// service mutates or deletes them afterwards.
type Match struct {
	ID            int64 // zero until persisted
	LostItemID    string
	FoundItemID   string
	TextScore     float64
	LocationScore float64
	CombinedScore float64
	CreatedAt     time.Time
}
