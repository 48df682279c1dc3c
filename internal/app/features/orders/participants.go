// internal/app/features/orders/participants.go
package orders

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/policy/orderpolicy"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/app/system/txn"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type editResponse struct {
	Left        bool                      `json:"left"`
	Participant *models.ParticipantRecord `json:"participant,omitempty"`
}

type paidRequest struct {
	Paid bool `json:"paid"`
}

// denyEdit writes 409 when the order's state blocks the change and 403
// when the actor simply has no rights over the target.
func (h *Handler) denyEdit(w http.ResponseWriter, r *http.Request, root models.OrderDoc, actor, target primitive.ObjectID) {
	frozen := root.Status == models.StatusArchived ||
		(actor == target && root.Status != models.StatusOpen)
	if frozen {
		apierrors.Conflict(w, "not_editable", locale.T(i18n.Tag(r), locale.KeyNotEditable))
		return
	}
	h.ErrLog.LogForbidden(w, r, "edit participant denied")
}

// HandleEditParticipant handles PUT /api/orders/{id}/participants/{userID}.
// Zero-quantity lines are dropped; an empty cart removes the participant.
func (h *Handler) HandleEditParticipant(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	target, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}

	var req cartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "edit participant")
	defer cancel()

	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return
	}
	if !orderpolicy.CanEditParticipant(root, actor, target) {
		h.denyEdit(w, r, root, actor, target)
		return
	}

	catalog, err := h.Items.ListByOrder(ctx, orderID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "edit participant: list items", err)
		return
	}
	lines, err := inputval.ValidateCart(i18n.Tag(r), catalog, req.Items, true)
	if err != nil {
		h.writeActionError(w, r, "edit participant", err)
		return
	}

	if len(lines) == 0 {
		if err := h.removeParticipant(ctx, orderID, target); err != nil {
			h.writeActionError(w, r, "edit participant", err)
			return
		}
		h.Log.Info("participant left by emptying cart",
			zap.String("order_id", orderID.Hex()),
			zap.String("user_id", target.Hex()))
		apierrors.WriteJSON(w, http.StatusOK, editResponse{Left: true})
		return
	}

	sels, total := toSelections(lines)
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Participants.UpdateItems(ctx, orderID, target, sels, total); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotParticipant
			}
			return err
		}
		return h.Orders.Touch(ctx, orderID)
	})
	if err != nil {
		h.writeActionError(w, r, "edit participant", err)
		return
	}

	rec, err := h.Participants.Get(ctx, orderID, target)
	if err != nil {
		h.writeActionError(w, r, "edit participant: reload", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, editResponse{Participant: &rec})
}

// HandleRemoveParticipant handles DELETE /api/orders/{id}/participants/{userID}.
func (h *Handler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	target, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "remove participant")
	defer cancel()

	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return
	}
	if !orderpolicy.CanEditParticipant(root, actor, target) {
		h.denyEdit(w, r, root, actor, target)
		return
	}

	if err := h.removeParticipant(ctx, orderID, target); err != nil {
		h.writeActionError(w, r, "remove participant", err)
		return
	}

	h.Log.Info("participant removed",
		zap.String("order_id", orderID.Hex()),
		zap.String("user_id", target.Hex()),
		zap.String("by", actor.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

// removeParticipant deletes the record and pulls the mirror id together.
func (h *Handler) removeParticipant(ctx context.Context, orderID, userID primitive.ObjectID) error {
	return txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		n, err := h.Participants.Delete(ctx, orderID, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotParticipant
		}
		return h.Orders.PullParticipantID(ctx, orderID, userID)
	})
}

// HandleSetPaid handles PUT /api/orders/{id}/participants/{userID}/paid.
func (h *Handler) HandleSetPaid(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	target, ok := objectIDParam(w, r, "userID")
	if !ok {
		return
	}

	var req paidRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "set paid")
	defer cancel()

	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return
	}
	if !orderpolicy.CanSetPaid(root, actor) {
		h.writeActionError(w, r, "set paid denied", ErrForbidden)
		return
	}

	if err := h.Participants.SetPaid(ctx, orderID, target, req.Paid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = ErrNotParticipant
		}
		h.writeActionError(w, r, "set paid", err)
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, map[string]bool{"paid": req.Paid})
}
