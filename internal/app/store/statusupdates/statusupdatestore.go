// internal/app/store/statusupdates/statusupdatestore.go
package statusupdatestore

import (
	"context"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("order_status_updates")}
}

// ListByOrder returns an order's timeline in insertion order.
func (s *Store) ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.StatusUpdate, error) {
	cur, err := s.c.Find(ctx, bson.M{"order_id": orderID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.StatusUpdate{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Append adds a message to the order's timeline.
func (s *Store) Append(ctx context.Context, orderID primitive.ObjectID, message string) (models.StatusUpdate, error) {
	u := models.StatusUpdate{
		ID:        primitive.NewObjectID(),
		OrderID:   orderID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.StatusUpdate{}, err
	}
	return u, nil
}
