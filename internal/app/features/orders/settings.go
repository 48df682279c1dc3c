// internal/app/features/orders/settings.go
package orders

import (
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/policy/orderpolicy"
	orderstore "github.com/dalemusser/litego/internal/app/store/orders"
	"github.com/dalemusser/litego/internal/app/system/htmlsanitize"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUpdateSettings handles PUT /api/orders/{id}/settings. Omitted
// deadline, target and cap clear those fields.
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var in inputval.SettingsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Name = htmlsanitize.PlainText(in.Name)
	d, err := inputval.NormalizeSettings(i18n.Tag(r), in)
	if err != nil {
		h.writeActionError(w, r, "update settings", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update settings")
	defer cancel()

	root, ok := h.loadRoot(ctx, w, r, orderID)
	if !ok {
		return
	}
	if !orderpolicy.CanManage(root, actor) {
		h.writeActionError(w, r, "update settings denied", ErrForbidden)
		return
	}

	err = h.Orders.UpdateSettings(ctx, orderID, orderstore.Settings{
		Name:                 d.Name,
		Description:          htmlsanitize.Sanitize(d.Description),
		Visibility:           d.Visibility,
		Deadline:             d.Deadline,
		TargetAmount:         d.TargetAmount,
		MaxParticipants:      d.MaxParticipants,
		ImageURL:             d.ImageURL,
		EnableStatusTracking: d.EnableStatusTracking,
	})
	if err != nil {
		h.writeActionError(w, r, "update settings", err)
		return
	}

	updated, err := h.Orders.GetByID(ctx, orderID)
	if err != nil {
		h.writeActionError(w, r, "update settings: reload", err)
		return
	}
	h.Log.Info("order settings updated", zap.String("order_id", orderID.Hex()))
	apierrors.WriteJSON(w, http.StatusOK, updated)
}
