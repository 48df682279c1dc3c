// internal/app/features/orders/items.go
package orders

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/policy/orderpolicy"
	"github.com/dalemusser/litego/internal/app/system/htmlsanitize"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Catalog edits never touch participant records: selections keep their
// snapshot and the composer falls back to it for removed items.

// managedRoot loads the order and checks the actor may edit its catalog.
func (h *Handler) managedRoot(ctx context.Context, w http.ResponseWriter, r *http.Request, orderID, actor primitive.ObjectID) (models.OrderDoc, bool) {
	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return models.OrderDoc{}, false
	}
	if !orderpolicy.CanManage(root, actor) {
		h.writeActionError(w, r, "catalog edit denied", ErrForbidden)
		return models.OrderDoc{}, false
	}
	return root, true
}

// normalizeItemInput validates a submitted item. A blank name is an
// error here, unlike during creation where blank rows are skipped.
func normalizeItemInput(r *http.Request, in inputval.ItemInput) (models.Item, error) {
	tag := i18n.Tag(r)
	in.Name = htmlsanitize.PlainText(in.Name)
	if in.Name == "" {
		return models.Item{}, &inputval.ValidationError{
			Code:    inputval.CodeNoValidItems,
			Message: locale.T(tag, locale.KeyNoValidItems),
		}
	}
	return inputval.NormalizeItem(tag, in)
}

// HandleCreateItem handles POST /api/orders/{id}/items.
func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var in inputval.ItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	it, err := normalizeItemInput(r, in)
	if err != nil {
		h.writeActionError(w, r, "create item", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create item")
	defer cancel()

	if _, ok := h.managedRoot(ctx, w, r, orderID, actor); !ok {
		return
	}

	created, err := h.Items.Create(ctx, orderID, it)
	if err != nil {
		h.writeActionError(w, r, "create item", err)
		return
	}
	h.Log.Info("item created",
		zap.String("order_id", orderID.Hex()),
		zap.String("item_id", created.ID.Hex()))
	apierrors.WriteJSON(w, http.StatusCreated, created)
}

// HandleUpdateItem handles PUT /api/orders/{id}/items/{itemID}.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := objectIDParam(w, r, "itemID")
	if !ok {
		return
	}

	var in inputval.ItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	it, err := normalizeItemInput(r, in)
	if err != nil {
		h.writeActionError(w, r, "update item", err)
		return
	}
	it.ID = itemID
	it.OrderID = orderID

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update item")
	defer cancel()

	if _, ok := h.managedRoot(ctx, w, r, orderID, actor); !ok {
		return
	}

	if err := h.Items.Update(ctx, it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.NotFound(w, r)
			return
		}
		h.writeActionError(w, r, "update item", err)
		return
	}

	updated, err := h.Items.GetByID(ctx, orderID, itemID)
	if err != nil {
		h.writeActionError(w, r, "update item: reload", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, updated)
}

// HandleDeleteItem handles DELETE /api/orders/{id}/items/{itemID}.
func (h *Handler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := objectIDParam(w, r, "itemID")
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete item")
	defer cancel()

	if _, ok := h.managedRoot(ctx, w, r, orderID, actor); !ok {
		return
	}

	n, err := h.Items.Delete(ctx, orderID, itemID)
	if err != nil {
		h.writeActionError(w, r, "delete item", err)
		return
	}
	if n == 0 {
		apierrors.NotFound(w, r)
		return
	}
	h.Log.Info("item deleted",
		zap.String("order_id", orderID.Hex()),
		zap.String("item_id", itemID.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
