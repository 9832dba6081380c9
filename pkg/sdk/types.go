package refind

import "time"

// ItemKind is the side of a report.
type ItemKind string

const (
	KindLost  ItemKind = "lost"
	KindFound ItemKind = "found"
)

// ItemStatus is the lifecycle state of a report.
type ItemStatus string

const (
	StatusOpen   ItemStatus = "open"
	StatusClosed ItemStatus = "closed"
)

// Item is a lost or found report as the API returns it. The raw embedding
// is never exposed; HasEmbedding reports whether one is stored.
type Item struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Kind         ItemKind   `json:"kind"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Location     string     `json:"location,omitempty"`
	Status       ItemStatus `json:"status"`
	HasEmbedding bool       `json:"has_embedding"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewItem is the payload for creating a report.
type NewItem struct {
	OwnerID     string   `json:"owner_id"`
	Kind        ItemKind `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// ItemPatch is the payload for updating a report. Nil fields are left
// unchanged. OwnerID authorizes the change.
type ItemPatch struct {
	OwnerID     string      `json:"owner_id"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Location    *string     `json:"location,omitempty"`
	Status      *ItemStatus `json:"status,omitempty"`
}

// Match is a recorded pairing of a lost and a found report.
type Match struct {
	ID            int64     `json:"id"`
	LostItemID    string    `json:"lost_item_id"`
	FoundItemID   string    `json:"found_item_id"`
	TextScore     float64   `json:"text_score"`
	LocationScore float64   `json:"location_score"`
	CombinedScore float64   `json:"combined_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// Notification is one inbox entry for a lost item owner.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	MatchID   int64     `json:"match_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationPage is one page of a user's inbox.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Page          int            `json:"page"`
	Limit         int            `json:"limit"`
}

// HealthReport is the aggregated server health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
