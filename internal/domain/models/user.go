// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a signed-in person who can initiate or join orders.
//
// Users are created on first Google sign-in; GoogleID links the account
// to the provider identity and Email is informational only.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	AvatarURL string             `bson:"avatar_url,omitempty" json:"avatar_url"`
	GoogleID  string             `bson:"google_id,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
