// internal/domain/models/view.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The types below are read-side views assembled by the order view
// composer. They are never written to the database.

// CartItem is a cart line hydrated against the current catalog.
type CartItem struct {
	Item               Item              `json:"item"`
	Quantity           int               `json:"quantity"`
	SelectedAttributes map[string]string `json:"selected_attributes,omitempty"`
}

// Participant is a hydrated participant with a resolved user.
// ID is the participant's user id.
type Participant struct {
	ID        primitive.ObjectID `json:"id"`
	User      User               `json:"user"`
	Items     []CartItem         `json:"items"`
	TotalCost int64              `json:"total_cost"`
	Paid      bool               `json:"paid"`
	JoinedAt  time.Time          `json:"joined_at"`
}

// Order is the aggregate a client renders: the root document plus its
// resolved initiator, catalog, participants and timeline.
type Order struct {
	OrderDoc

	Initiator      User           `json:"initiator"`
	Participants   []Participant  `json:"participants"`
	AvailableItems []Item         `json:"available_items"`
	StatusUpdates  []StatusUpdate `json:"status_updates"`
}

// Selection converts a hydrated line back to its stored form, snapshotting
// the item's current name and base price.
func (ci CartItem) Selection() CartSelection {
	return CartSelection{
		ItemID:             ci.Item.ID,
		ItemName:           ci.Item.Name,
		ItemPrice:          ci.Item.Price,
		Quantity:           ci.Quantity,
		SelectedAttributes: ci.SelectedAttributes,
	}
}
