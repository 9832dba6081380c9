package item

import (
	"time"

	"github.com/refind-app/refind/internal/domain"
)

// itemDTO is the JSON record stored in the key-value store.
type itemDTO struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	Embedding   []float32 `json:"embedding,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDTO(i domain.Item) itemDTO {
	return itemDTO{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Kind:        string(i.Kind),
		Title:       i.Title,
		Description: i.Description,
		Location:    i.Location,
		Status:      string(i.Status),
		Embedding:   i.Embedding,
		CreatedAt:   i.CreatedAt,
	}
}

func fromDTO(d itemDTO) domain.Item {
	return domain.Item{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Kind:        domain.ItemKind(d.Kind),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		Status:      domain.ItemStatus(d.Status),
		Embedding:   d.Embedding,
		CreatedAt:   d.CreatedAt,
	}
}
