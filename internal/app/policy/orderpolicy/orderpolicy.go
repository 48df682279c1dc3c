// internal/app/policy/orderpolicy/orderpolicy.go
package orderpolicy

import (
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// There is no view check: private orders are hidden from listings but
// readable by anyone holding the link.

// CanManage reports whether userID may change the order's settings,
// catalog, status or timeline. Archived orders are frozen.
func CanManage(o models.OrderDoc, userID primitive.ObjectID) bool {
	return o.IsInitiator(userID) && o.Status != models.StatusArchived
}

// CanSetStatus reports whether userID may change the order's status.
// Only the initiator may, and archived is terminal.
func CanSetStatus(o models.OrderDoc, userID primitive.ObjectID) bool {
	return CanManage(o, userID)
}

// CanEditParticipant reports whether actor may edit or remove target's
// cart. Participants manage their own cart while the order is open; the
// initiator may edit anyone's until the order is archived.
func CanEditParticipant(o models.OrderDoc, actor, target primitive.ObjectID) bool {
	if actor.IsZero() {
		return false
	}
	if CanManage(o, actor) {
		return true
	}
	return actor == target && o.Status == models.StatusOpen
}

// CanSetPaid reports whether actor may mark participants paid or unpaid.
func CanSetPaid(o models.OrderDoc, actor primitive.ObjectID) bool {
	return CanManage(o, actor)
}

// CanSummarize reports whether a summary may be generated: the order must
// be closed and the actor must be its initiator.
func CanSummarize(o models.OrderDoc, actor primitive.ObjectID) bool {
	return o.IsInitiator(actor) && o.Status == models.StatusClosed
}
