package domain

import "time"

// ItemKind distinguishes lost reports from found reports.
type ItemKind string

const (
	// KindLost marks an item reported as lost by its owner.
	KindLost ItemKind = "lost"
	// KindFound marks an item reported as found by a third party.
	KindFound ItemKind = "found"
)

// Valid reports whether the kind is one of the known values.
func (k ItemKind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Opposite returns the kind matched against during a matching run.
func (k ItemKind) Opposite() ItemKind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// ItemStatus is the lifecycle state of a report.
type ItemStatus string

const (
	// StatusOpen marks a report still eligible for matching.
	StatusOpen ItemStatus = "open"
	// StatusClosed marks a resolved report. Closed items are never matching candidates.
	StatusClosed ItemStatus = "closed"
)

// Valid reports whether the status is one of the known values.
func (s ItemStatus) Valid() bool {
	return s == StatusOpen || s == StatusClosed
}

// Item is a lost or found report.
type Item struct {
	ID          string
	OwnerID     string
	Kind        ItemKind
	Title       string
	Description string
	Location    string
	Status      ItemStatus
	Embedding   []float32 // empty until computed
	CreatedAt   time.Time
}

// HasEmbedding reports whether an embedding has been computed for the item.
func (i Item) HasEmbedding() bool {
	return len(i.Embedding) > 0
}

// EmbeddingText is the canonical text an item is vectorized from.
func (i Item) EmbeddingText() string {
	return i.Title + ". " + i.Description
}
