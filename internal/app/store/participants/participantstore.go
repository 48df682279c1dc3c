// internal/app/store/participants/participantstore.go
package participantstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyJoined is returned when a user already has a record in the order.
var ErrAlreadyJoined = errors.New("user already joined this order")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("order_participants")}
}

// ListByOrder returns an order's participant records in join order.
func (s *Store) ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.ParticipantRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{"order_id": orderID},
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ParticipantRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, orderID, userID primitive.ObjectID) (models.ParticipantRecord, error) {
	var p models.ParticipantRecord
	if err := s.c.FindOne(ctx, bson.M{"order_id": orderID, "user_id": userID}).Decode(&p); err != nil {
		return models.ParticipantRecord{}, err
	}
	return p, nil
}

// Insert creates a participant record. The unique (order_id, user_id)
// index turns a second join into ErrAlreadyJoined.
func (s *Store) Insert(ctx context.Context, p models.ParticipantRecord) (models.ParticipantRecord, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Items == nil {
		p.Items = []models.CartSelection{}
	}
	p.JoinedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ParticipantRecord{}, ErrAlreadyJoined
		}
		return models.ParticipantRecord{}, err
	}
	return p, nil
}

// UpdateItems replaces a participant's cart and stored total.
func (s *Store) UpdateItems(ctx context.Context, orderID, userID primitive.ObjectID, items []models.CartSelection, total int64) error {
	if items == nil {
		items = []models.CartSelection{}
	}
	return s.set(ctx, orderID, userID, bson.M{"items": items, "total_cost": total})
}

// SetPaid records whether the participant has paid.
func (s *Store) SetPaid(ctx context.Context, orderID, userID primitive.ObjectID, paid bool) error {
	return s.set(ctx, orderID, userID, bson.M{"paid": paid})
}

// Delete removes a participant record. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orderID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"order_id": orderID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByOrder returns the number of participants in an order.
func (s *Store) CountByOrder(ctx context.Context, orderID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"order_id": orderID})
}

func (s *Store) set(ctx context.Context, orderID, userID primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"order_id": orderID, "user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
