// internal/app/features/orders/join.go
package orders

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	participantstore "github.com/dalemusser/litego/internal/app/store/participants"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/app/system/txn"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// cartRequest is the body of join and edit requests.
type cartRequest struct {
	Items []inputval.CartLine `json:"items"`
}

// toSelections snapshots hydrated lines for storage and prices them.
func toSelections(items []models.CartItem) ([]models.CartSelection, int64) {
	sels := make([]models.CartSelection, 0, len(items))
	for _, ci := range items {
		sel := ci.Selection()
		sel.UnitPrice = orderlogic.UnitPrice(ci)
		sels = append(sels, sel)
	}
	return sels, orderlogic.ParticipantTotal(items)
}

// HandleJoin handles POST /api/orders/{id}/participants.
//
// The cart is validated against the catalog before anything is written.
// Eligibility is then re-checked inside the transaction against a fresh
// root and participant count, so capacity, deadline and status hold at
// commit time.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	var req cartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "join order")
	defer cancel()
	ctx, span := tracer.Start(ctx, "orders.Join", trace.WithAttributes(
		attribute.String("order.id", orderID.Hex()),
		attribute.String("user.id", userID.Hex()),
	))
	defer span.End()

	if _, ok := h.loadRoot(ctx, w, r, orderID); !ok {
		return
	}
	catalog, err := h.Items.ListByOrder(ctx, orderID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "join: list items", err)
		return
	}
	lines, err := inputval.ValidateCart(tag, catalog, req.Items, false)
	if err != nil {
		h.writeActionError(w, r, "join order", err)
		return
	}
	sels, total := toSelections(lines)

	var rec models.ParticipantRecord
	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		rec, err = h.join(ctx, orderID, userID, sels, total)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "join failed")
		h.writeActionError(w, r, "join order", err)
		return
	}

	h.Log.Info("participant joined",
		zap.String("order_id", orderID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Int64("total_cost", total))

	apierrors.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) join(ctx context.Context, orderID, userID primitive.ObjectID, sels []models.CartSelection, total int64) (models.ParticipantRecord, error) {
	root, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		return models.ParticipantRecord{}, err
	}

	if _, err := h.Participants.Get(ctx, orderID, userID); err == nil {
		return models.ParticipantRecord{}, participantstore.ErrAlreadyJoined
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.ParticipantRecord{}, fmt.Errorf("check existing participant: %w", err)
	}

	n, err := h.Participants.CountByOrder(ctx, orderID)
	if err != nil {
		return models.ParticipantRecord{}, fmt.Errorf("count participants: %w", err)
	}
	if err := orderlogic.Evaluate(root, int(n), h.now()).Err(); err != nil {
		return models.ParticipantRecord{}, err
	}

	rec, err := h.Participants.Insert(ctx, models.ParticipantRecord{
		OrderID:   orderID,
		UserID:    userID,
		Items:     sels,
		TotalCost: total,
	})
	if err != nil {
		return models.ParticipantRecord{}, err
	}
	if err := h.Orders.AddParticipantID(ctx, orderID, userID); err != nil {
		return models.ParticipantRecord{}, fmt.Errorf("mirror participant id: %w", err)
	}
	if err := h.Orders.Touch(ctx, orderID); err != nil {
		return models.ParticipantRecord{}, err
	}
	return rec, nil
}
