// internal/app/store/items/itemstore.go
package itemstore

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
	return &Store{c: db.Collection("order_items")}
}

// ListByOrder returns an order's catalog in display order.
func (s *Store) ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Item, error) {
	cur, err := s.c.Find(ctx, bson.M{"order_id": orderID},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Item{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, orderID, itemID primitive.ObjectID) (models.Item, error) {
	var it models.Item
	if err := s.c.FindOne(ctx, bson.M{"_id": itemID, "order_id": orderID}).Decode(&it); err != nil {
		return models.Item{}, err
	}
	return it, nil
}

// CreateMany inserts items for orderID, assigning ids and positions in
// slice order.
func (s *Store) CreateMany(ctx context.Context, orderID primitive.ObjectID, items []models.Item) ([]models.Item, error) {
	if len(items) == 0 {
		return []models.Item{}, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(items))
	out := make([]models.Item, 0, len(items))
	for i, it := range items {
		it.ID = primitive.NewObjectID()
		it.OrderID = orderID
		it.Position = i
		it.CreatedAt = now
		it.UpdatedAt = now
		docs = append(docs, it)
		out = append(out, it)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return out, nil
}

// Create appends one item to the end of orderID's catalog.
func (s *Store) Create(ctx context.Context, orderID primitive.ObjectID, it models.Item) (models.Item, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return models.Item{}, err
	}
	now := time.Now().UTC()
	it.ID = primitive.NewObjectID()
	it.OrderID = orderID
	it.Position = int(n)
	it.CreatedAt = now
	it.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, it); err != nil {
		return models.Item{}, err
	}
	return it, nil
}

// Update replaces the editable fields of an item.
func (s *Store) Update(ctx context.Context, it models.Item) error {
	set := bson.M{
		"name":       it.Name,
		"price":      it.Price,
		"images":     it.Images,
		"attributes": it.Attributes,
		"updated_at": time.Now().UTC(),
	}
	upd := bson.M{"$set": set}
	if it.MaxQuantity != nil {
		set["max_quantity"] = *it.MaxQuantity
	} else {
		upd["$unset"] = bson.M{"max_quantity": ""}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": it.ID, "order_id": it.OrderID}, upd)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an item. Participant selections that reference it keep
// their snapshot. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, orderID, itemID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": itemID, "order_id": orderID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
