package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderview"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher loads display identities from the users collection. It serves
// both the session middleware (auth.UserFetcher) and the order view
// composer (orderview.UserLookup).
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a Fetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

var displayProjection = bson.M{
	"_id":        1,
	"name":       1,
	"avatar_url": 1,
	"created_at": 1,
	"updated_at": 1,
}

// LookupUser returns the user's display fields, or orderview.ErrUserNotFound.
func (f *Fetcher) LookupUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	err := f.users.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(displayProjection)).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, orderview.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FetchUser returns the session user for userID, or nil if the user is
// not found or any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	u, err := f.LookupUser(ctx, oid)
	if err != nil {
		return nil
	}
	return &auth.SessionUser{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}
