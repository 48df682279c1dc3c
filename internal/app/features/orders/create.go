// internal/app/features/orders/create.go
package orders

import (
	"context"
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/system/htmlsanitize"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/app/system/txn"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createResponse struct {
	Order models.OrderDoc `json:"order"`
	Items []models.Item   `json:"items"`
}

// HandleCreate handles POST /api/orders. The root, its items and the
// first timeline entry are written together.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	name, userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	var in inputval.CreateOrderInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Name = htmlsanitize.PlainText(in.Name)
	draft, err := inputval.NormalizeCreateOrder(tag, in)
	if err != nil {
		h.writeActionError(w, r, "create order", err)
		return
	}

	doc := models.OrderDoc{
		ID:                   primitive.NewObjectID(),
		Name:                 draft.Name,
		Description:          htmlsanitize.Sanitize(draft.Description),
		Status:               models.StatusOpen,
		Visibility:           draft.Visibility,
		InitiatorID:          userID,
		InitiatorName:        name,
		Deadline:             draft.Deadline,
		TargetAmount:         draft.TargetAmount,
		MaxParticipants:      draft.MaxParticipants,
		ImageURL:             draft.ImageURL,
		EnableStatusTracking: draft.EnableStatusTracking,
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create order")
	defer cancel()

	var resp createResponse
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		created, err := h.Orders.Create(ctx, doc)
		if err != nil {
			return err
		}
		items, err := h.Items.CreateMany(ctx, created.ID, draft.Items)
		if err != nil {
			return err
		}
		if created.EnableStatusTracking {
			if _, err := h.Updates.Append(ctx, created.ID, locale.T(tag, locale.KeyStatusCreated)); err != nil {
				return err
			}
		}
		resp = createResponse{Order: created, Items: items}
		return nil
	})
	if err != nil {
		h.writeActionError(w, r, "create order", err)
		return
	}

	h.Log.Info("order created",
		zap.String("order_id", resp.Order.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Int("items", len(resp.Items)))

	apierrors.WriteJSON(w, http.StatusCreated, resp)
}
