// internal/app/features/orders/summary.go
package orders

import (
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/policy/orderpolicy"
	"github.com/dalemusser/litego/internal/app/system/extract"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/locale"
	"go.uber.org/zap"
)

type summaryResponse struct {
	Summary string `json:"summary"`
}

// HandleSummary handles POST /api/orders/{id}/summary. It asks the AI
// client for a markdown table of a closed order.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	if h.AI == nil {
		apierrors.Write(w, http.StatusServiceUnavailable, apierrors.CodeUnavailable, locale.T(tag, locale.KeyExtractUnavailable))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "summary: load order")
	defer cancel()

	o, err := h.Loader.LoadLang(ctx, orderID, tag)
	if err != nil {
		h.writeActionError(w, r, "summary: load order", err)
		return
	}
	if !o.IsInitiator(actor) {
		h.writeActionError(w, r, "summary denied", ErrForbidden)
		return
	}
	if !orderpolicy.CanSummarize(o.OrderDoc, actor) {
		apierrors.Conflict(w, "not_closed", locale.T(tag, locale.KeySummaryNotClosed))
		return
	}

	aiCtx, aiCancel := timeouts.WithTimeout(r.Context(), timeouts.Extract(), h.Log, "summary: generate")
	defer aiCancel()

	md, err := h.AI.Summary(aiCtx, extract.NewSummaryInput(o))
	if err != nil {
		h.ErrLog.LogUpstreamError(w, r, "summary generation failed", err, locale.T(tag, locale.KeySummaryFailed))
		return
	}

	h.Log.Info("summary generated",
		zap.String("order_id", orderID.Hex()),
		zap.Int("participants", len(o.Participants)))
	apierrors.WriteJSON(w, http.StatusOK, summaryResponse{Summary: md})
}
