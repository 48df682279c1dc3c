// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/litego/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the signed-in user's name, ObjectID and a found flag.
// A missing user or a malformed id yields "", NilObjectID, false, so
// ok=true always means a valid authenticated user.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed id in session; fail closed.
		return "", primitive.NilObjectID, false
	}
	return user.Name, userID, true
}

// UserID returns just the signed-in user's ObjectID.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	_, id, ok := UserCtx(r)
	return id, ok
}
