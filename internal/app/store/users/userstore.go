package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/litego/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMissingGoogleID is returned by UpsertGoogle for an empty subject.
var ErrMissingGoogleID = errors.New("google id is required")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GoogleProfile is the identity returned by Google sign-in.
type GoogleProfile struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads users by id. Missing ids are absent from the result.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}

// UpsertGoogle creates or refreshes the user for a Google identity and
// returns the stored document. Profile fields are overwritten on every
// sign-in; an empty name falls back to defaultName on first insert only.
func (s *Store) UpsertGoogle(ctx context.Context, p GoogleProfile, defaultName string) (models.User, error) {
	gid := strings.TrimSpace(p.GoogleID)
	if gid == "" {
		return models.User{}, ErrMissingGoogleID
	}
	now := time.Now().UTC()

	set := bson.M{
		"email":      strings.ToLower(strings.TrimSpace(p.Email)),
		"avatar_url": p.AvatarURL,
		"updated_at": now,
	}
	setOnInsert := bson.M{"created_at": now}
	if name := strings.TrimSpace(p.Name); name != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	} else {
		setOnInsert["name"] = defaultName
		setOnInsert["name_ci"] = text.Fold(defaultName)
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	upd := bson.M{"$set": set, "$setOnInsert": setOnInsert}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"google_id": gid}, upd, opts).Decode(&u)
	if err != nil && wafflemongo.IsDup(err) {
		// Lost an insert race with a concurrent first sign-in; the
		// document exists now, so a second attempt updates it.
		err = s.c.FindOneAndUpdate(ctx, bson.M{"google_id": gid}, upd, opts).Decode(&u)
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
