// Package orderqueries provides read-only list queries for orders.
package orderqueries

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Scope selects which orders a listing covers.
type Scope string

const (
	ScopeInitiated    Scope = "initiated"
	ScopeParticipated Scope = "participated"
	ScopeMine         Scope = "mine"
	ScopePublic       Scope = "public"
)

// ErrUserRequired is returned for a user scope without a user id.
var ErrUserRequired = errors.New("scope requires a user")

// DefaultLimit bounds a listing when the caller does not.
const DefaultLimit = 100

// ParseScope converts a query value into a user Scope. Empty means ScopeMine.
func ParseScope(v string) (Scope, bool) {
	switch Scope(v) {
	case "":
		return ScopeMine, true
	case ScopeInitiated, ScopeParticipated, ScopeMine:
		return Scope(v), true
	}
	return "", false
}

// OrderSummary is one row of an order listing with computed totals.
type OrderSummary struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Status           models.OrderStatus `bson:"status" json:"status"`
	Visibility       models.Visibility  `bson:"visibility" json:"visibility"`
	InitiatorID      primitive.ObjectID `bson:"initiator_id" json:"initiator_id"`
	InitiatorName    string             `bson:"initiator_name" json:"initiator_name"`
	ImageURL         string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Deadline         *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	TargetAmount     *int64             `bson:"target_amount,omitempty" json:"target_amount,omitempty"`
	MaxParticipants  *int               `bson:"max_participants,omitempty" json:"max_participants,omitempty"`
	ParticipantCount int                `bson:"participant_count" json:"participant_count"`
	TotalAmount      int64              `bson:"total_amount" json:"total_amount"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}

// ListFilter defines the filter options for listing orders.
type ListFilter struct {
	Scope       Scope
	UserID      primitive.ObjectID // required for every scope but ScopePublic
	SearchQuery string             // prefix search on name_ci
	Limit       int64              // <= 0 means DefaultLimit
}

// ListOrders returns order summaries newest first, with participant
// counts and totals computed from order_participants.
func ListOrders(ctx context.Context, db *mongo.Database, f ListFilter) ([]OrderSummary, error) {
	match, err := buildMatch(f)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "order_participants",
			"localField":   "_id",
			"foreignField": "order_id",
			"as":           "participants",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"participant_count": bson.M{"$size": "$participants"},
			"total_amount":      bson.M{"$sum": "$participants.total_cost"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"participants": 0, "participant_ids": 0}}},
	}

	cur, err := db.Collection("orders").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []OrderSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func buildMatch(f ListFilter) (bson.M, error) {
	var clauses []bson.M
	switch f.Scope {
	case ScopePublic:
		clauses = append(clauses,
			bson.M{"visibility": models.VisibilityPublic},
			bson.M{"status": bson.M{"$ne": models.StatusArchived}})
	case ScopeInitiated, ScopeParticipated, ScopeMine, "":
		if f.UserID.IsZero() {
			return nil, ErrUserRequired
		}
		switch f.Scope {
		case ScopeInitiated:
			clauses = append(clauses, bson.M{"initiator_id": f.UserID})
		case ScopeParticipated:
			clauses = append(clauses, bson.M{"participant_ids": f.UserID})
		default:
			clauses = append(clauses, bson.M{"$or": bson.A{
				bson.M{"initiator_id": f.UserID},
				bson.M{"participant_ids": f.UserID},
			}})
		}
	default:
		return nil, errors.New("unknown scope " + string(f.Scope))
	}

	if f.SearchQuery != "" {
		q := text.Fold(f.SearchQuery)
		clauses = append(clauses, bson.M{"name_ci": bson.M{"$gte": q, "$lt": q + "\uffff"}})
	}

	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return bson.M{"$and": clauses}, nil
}
