// internal/domain/models/order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusOpen     OrderStatus = "open"
	StatusClosed   OrderStatus = "closed"
	StatusArchived OrderStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether an initiator may move an order from s to next.
// Orders toggle between open and closed freely; archived is terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s == next {
		return false
	}
	switch s {
	case StatusOpen:
		return next == StatusClosed || next == StatusArchived
	case StatusClosed:
		return next == StatusOpen || next == StatusArchived
	}
	return false
}

// ParseOrderStatus converts user input into an OrderStatus.
func ParseOrderStatus(v string) (OrderStatus, bool) {
	s := OrderStatus(v)
	return s, s.Valid()
}

// Visibility controls whether an order shows up in the public listing.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibilities.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// OrderDoc is the persisted order root. Items, participants and status
// updates live in their own collections keyed by order_id.
//
// ParticipantIDs mirrors the ids in order_participants and exists only so
// "orders I joined" can be answered with an index lookup. The participant
// collection is the source of truth.
type OrderDoc struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	Status      OrderStatus        `bson:"status" json:"status"`
	Visibility  Visibility         `bson:"visibility" json:"visibility"`

	InitiatorID   primitive.ObjectID `bson:"initiator_id" json:"initiator_id"`
	InitiatorName string             `bson:"initiator_name" json:"initiator_name"`

	Deadline        *time.Time `bson:"deadline,omitempty" json:"deadline,omitempty"`
	TargetAmount    *int64     `bson:"target_amount,omitempty" json:"target_amount,omitempty"`
	MaxParticipants *int       `bson:"max_participants,omitempty" json:"max_participants,omitempty"`

	ParticipantIDs []primitive.ObjectID `bson:"participant_ids" json:"participant_ids"`

	ImageURL             string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	EnableStatusTracking bool   `bson:"enable_status_tracking" json:"enable_status_tracking"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsInitiator reports whether userID started this order.
func (o OrderDoc) IsInitiator(userID primitive.ObjectID) bool {
	return !userID.IsZero() && o.InitiatorID == userID
}

// StatusUpdate is one entry of an order's append-only timeline.
type StatusUpdate struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	OrderID   primitive.ObjectID `bson:"order_id" json:"-"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
