// internal/app/features/orders/status.go
package orders

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/policy/orderpolicy"
	"github.com/dalemusser/litego/internal/app/system/htmlsanitize"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/app/system/txn"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.uber.org/zap"
)

// maxStatusMessageLen bounds a manual timeline message, in runes.
const maxStatusMessageLen = 500

var statusMessageKeys = map[models.OrderStatus]string{
	models.StatusOpen:     locale.KeyStatusOpened,
	models.StatusClosed:   locale.KeyStatusClosed,
	models.StatusArchived: locale.KeyStatusArchived,
}

type statusRequest struct {
	Status string `json:"status"`
}

type statusUpdateRequest struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status models.OrderStatus  `json:"status"`
	Update models.StatusUpdate `json:"status_update"`
}

// HandleSetStatus handles PUT /api/orders/{id}/status. The status change
// and its timeline entry are written together.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	next, valid := models.ParseOrderStatus(req.Status)
	if !valid {
		apierrors.BadRequest(w, inputval.CodeInvalidInput, locale.T(tag, locale.KeyInvalidInput))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "set status")
	defer cancel()

	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return
	}
	if !root.IsInitiator(actor) {
		h.writeActionError(w, r, "set status denied", ErrForbidden)
		return
	}
	if !orderpolicy.CanSetStatus(root, actor) || !root.Status.CanTransitionTo(next) {
		h.writeActionError(w, r, "set status", ErrInvalidTransition)
		return
	}

	var upd models.StatusUpdate
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Orders.SetStatus(ctx, orderID, root.Status, next); err != nil {
			return err
		}
		var err error
		upd, err = h.Updates.Append(ctx, orderID, locale.T(tag, statusMessageKeys[next]))
		return err
	})
	if err != nil {
		h.writeActionError(w, r, "set status", err)
		return
	}

	h.Log.Info("order status changed",
		zap.String("order_id", orderID.Hex()),
		zap.String("from", string(root.Status)),
		zap.String("to", string(next)))

	apierrors.WriteJSON(w, http.StatusOK, statusResponse{Status: next, Update: upd})
}

// HandleAddStatusUpdate handles POST /api/orders/{id}/status-updates.
func (h *Handler) HandleAddStatusUpdate(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	var req statusUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg := strings.TrimSpace(htmlsanitize.PlainText(req.Message))
	if msg == "" {
		apierrors.BadRequest(w, "message_required", locale.T(tag, locale.KeyMessageRequired))
		return
	}
	if runes := []rune(msg); len(runes) > maxStatusMessageLen {
		msg = string(runes[:maxStatusMessageLen])
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "add status update")
	defer cancel()

	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return
	}
	if !orderpolicy.CanManage(root, actor) {
		h.writeActionError(w, r, "add status update denied", ErrForbidden)
		return
	}
	if !root.EnableStatusTracking {
		h.writeActionError(w, r, "add status update", ErrTrackingDisabled)
		return
	}

	upd, err := h.Updates.Append(ctx, orderID, msg)
	if err != nil {
		h.writeActionError(w, r, "add status update", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, upd)
}
