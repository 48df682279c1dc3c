// internal/app/features/orders/view.go
package orders

import (
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/policy/orderpolicy"
	"github.com/dalemusser/litego/internal/app/system/authz"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"github.com/dalemusser/litego/internal/domain/orderview"
)

// viewer describes what the requesting user may do with the order.
type viewer struct {
	SignedIn      bool `json:"signed_in"`
	IsInitiator   bool `json:"is_initiator"`
	IsParticipant bool `json:"is_participant"`
	CanManage     bool `json:"can_manage"`
	CanEditOwn    bool `json:"can_edit_own"`
}

type orderResponse struct {
	Order       models.Order           `json:"order"`
	Stats       orderview.Stats        `json:"stats"`
	Eligibility orderlogic.Eligibility `json:"eligibility"`
	// ReasonMessage is Eligibility.Reason rendered for the request language.
	ReasonMessage string                `json:"reason_message,omitempty"`
	Timeline      []models.StatusUpdate `json:"timeline"`
	Viewer        viewer                `json:"viewer"`
}

// ServeOrder handles GET /api/orders/{id}. Private orders are readable by
// anyone holding the link.
func (h *Handler) ServeOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "load order")
	defer cancel()

	o, err := h.Loader.LoadLang(ctx, orderID, tag)
	if errors.Is(err, orderview.ErrOrderNotFound) {
		apierrors.Write(w, http.StatusNotFound, apierrors.CodeNotFound, locale.T(tag, locale.KeyNotFound))
		return
	}
	if err != nil {
		h.writeActionError(w, r, "load order", err)
		return
	}

	elig := orderlogic.IsOrderOpen(o, h.now())
	resp := orderResponse{
		Order:         o,
		Stats:         orderview.Summarize(o),
		Eligibility:   elig,
		ReasonMessage: elig.Reason.Message(tag),
		Timeline:      orderview.Timeline(o),
	}

	if userID, ok := authz.UserID(r); ok {
		resp.Viewer = viewer{
			SignedIn:    true,
			IsInitiator: o.IsInitiator(userID),
			CanManage:   orderpolicy.CanManage(o.OrderDoc, userID),
			CanEditOwn:  orderpolicy.CanEditParticipant(o.OrderDoc, userID, userID),
		}
		for _, p := range o.Participants {
			if p.ID == userID {
				resp.Viewer.IsParticipant = true
				break
			}
		}
	}

	apierrors.WriteJSON(w, http.StatusOK, resp)
}
