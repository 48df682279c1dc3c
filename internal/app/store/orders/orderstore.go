// internal/app/store/orders/orderstore.go
package orderstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStatusConflict is returned by SetStatus when the order is no longer
// in the expected status.
var ErrStatusConflict = errors.New("order status changed concurrently")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("orders")}
}

// Settings are the fields an initiator may edit after creation.
// A nil pointer clears the field.
type Settings struct {
	Name                 string
	Description          string
	Visibility           models.Visibility
	Deadline             *time.Time
	TargetAmount         *int64
	MaxParticipants      *int
	ImageURL             string
	EnableStatusTracking bool
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.OrderDoc, error) {
	var o models.OrderDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return models.OrderDoc{}, err
	}
	return o, nil
}

// Create inserts a new order root. ID is kept when already set so the
// caller can write child documents in the same transaction.
func (s *Store) Create(ctx context.Context, o models.OrderDoc) (models.OrderDoc, error) {
	now := time.Now().UTC()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.NameCI = text.Fold(o.Name)
	if o.Status == "" {
		o.Status = models.StatusOpen
	}
	if o.Visibility == "" {
		o.Visibility = models.VisibilityPublic
	}
	if o.ParticipantIDs == nil {
		o.ParticipantIDs = []primitive.ObjectID{}
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.OrderDoc{}, err
	}
	return o, nil
}

// UpdateSettings replaces the editable fields of an order.
func (s *Store) UpdateSettings(ctx context.Context, id primitive.ObjectID, st Settings) error {
	set := bson.M{
		"name":                   st.Name,
		"name_ci":                text.Fold(st.Name),
		"description":            st.Description,
		"visibility":             st.Visibility,
		"image_url":              st.ImageURL,
		"enable_status_tracking": st.EnableStatusTracking,
		"updated_at":             time.Now().UTC(),
	}
	unset := bson.M{}
	if st.Deadline != nil {
		set["deadline"] = st.Deadline.UTC()
	} else {
		unset["deadline"] = ""
	}
	if st.TargetAmount != nil {
		set["target_amount"] = *st.TargetAmount
	} else {
		unset["target_amount"] = ""
	}
	if st.MaxParticipants != nil {
		set["max_participants"] = *st.MaxParticipants
	} else {
		unset["max_participants"] = ""
	}

	upd := bson.M{"$set": set}
	if len(unset) > 0 {
		upd["$unset"] = unset
	}
	res, err := s.c.UpdateByID(ctx, id, upd)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetStatus moves an order from one status to another. It fails with
// ErrStatusConflict if the stored status is no longer from.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStatusConflict
	}
	return nil
}

// AddParticipantID adds userID to the participant mirror if absent.
func (s *Store) AddParticipantID(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"participant_ids": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// PullParticipantID removes userID from the participant mirror.
func (s *Store) PullParticipantID(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"participant_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// SetParticipantIDs overwrites the participant mirror.
func (s *Store) SetParticipantIDs(ctx context.Context, id primitive.ObjectID, ids []primitive.ObjectID) error {
	if ids == nil {
		ids = []primitive.ObjectID{}
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"participant_ids": ids}})
	return err
}

// Touch bumps updated_at. Inside a transaction this makes two concurrent
// joins on the same order conflict on the root document.
func (s *Store) Touch(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListUpdatedSince returns orders modified at or after since, oldest
// first, for background checks.
func (s *Store) ListUpdatedSince(ctx context.Context, since time.Time, limit int64) ([]models.OrderDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1, "participant_ids": 1, "updated_at": 1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"updated_at": bson.M{"$gte": since.UTC()}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.OrderDoc
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
