package chi

import (
	"time"

	"github.com/refind-app/refind/internal/domain"
)

type itemResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	HasVector   bool      `json:"has_embedding"`
	CreatedAt   time.Time `json:"created_at"`
}

func itemToResponse(i domain.Item) itemResponse {
	return itemResponse{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Kind:        string(i.Kind),
		Title:       i.Title,
		Description: i.Description,
		Location:    i.Location,
		Status:      string(i.Status),
		HasVector:   i.HasEmbedding(),
		CreatedAt:   i.CreatedAt,
	}
}

func itemsToResponse(items []domain.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	return out
}

type createItemRequest struct {
	OwnerID     string `json:"owner_id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type updateItemRequest struct {
	OwnerID     string  `json:"owner_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

type matchResponse struct {
	ID            int64     `json:"id"`
	LostItemID    string    `json:"lost_item_id"`
	FoundItemID   string    `json:"found_item_id"`
	TextScore     float64   `json:"text_score"`
	LocationScore float64   `json:"location_score"`
	CombinedScore float64   `json:"combined_score"`
	CreatedAt     time.Time `json:"created_at"`
}

func matchesToResponse(matches []domain.Match) []matchResponse {
	out := make([]matchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchResponse{
			ID:            m.ID,
			LostItemID:    m.LostItemID,
			FoundItemID:   m.FoundItemID,
			TextScore:     m.TextScore,
			LocationScore: m.LocationScore,
			CombinedScore: m.CombinedScore,
			CreatedAt:     m.CreatedAt,
		}
	}
	return out
}

type notificationResponse struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	MatchID   int64     `json:"match_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func notificationsToResponse(notifications []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = notificationToResponse(n)
	}
	return out
}

func notificationToResponse(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		MatchID:   n.MatchID,
		Subject:   n.Subject,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
