// internal/domain/models/participant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartSelection is a participant's stored choice of one catalog item.
//
// ItemName, ItemPrice and UnitPrice are the snapshot taken when the
// selection was made, so a line stays displayable and priced after the
// item is edited away. UnitPrice is ItemPrice plus option surcharges; it
// is 0 on records written before it was stored.
// SelectedAttributes maps attribute id to the chosen option's value.
type CartSelection struct {
	ItemID             primitive.ObjectID `bson:"item_id" json:"item_id"`
	ItemName           string             `bson:"item_name" json:"item_name"`
	ItemPrice          int64              `bson:"item_price" json:"item_price"`
	UnitPrice          int64              `bson:"unit_price,omitempty" json:"unit_price,omitempty"`
	Quantity           int                `bson:"quantity" json:"quantity"`
	SelectedAttributes map[string]string  `bson:"selected_attributes,omitempty" json:"selected_attributes,omitempty"`
}

// ParticipantRecord is the persisted standing of one user in one order.
// There is at most one record per (order_id, user_id).
type ParticipantRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"-"`
	OrderID   primitive.ObjectID `bson:"order_id" json:"order_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items     []CartSelection    `bson:"items" json:"items"`
	TotalCost int64              `bson:"total_cost" json:"total_cost"`
	Paid      bool               `bson:"paid" json:"paid"`

	JoinedAt  time.Time `bson:"joined_at" json:"joined_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
