// internal/app/features/orders/list.go
package orders

import (
	"net/http"
	"strconv"

	apierrors "github.com/dalemusser/litego/internal/app/features/errors"
	"github.com/dalemusser/litego/internal/app/store/queries/orderqueries"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/inputval"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/waffle/pantry/query"
)

const maxListLimit = 200

type listResponse struct {
	Scope  orderqueries.Scope          `json:"scope"`
	Orders []orderqueries.OrderSummary `json:"orders"`
}

// ServeList handles GET /api/orders?scope=initiated|participated|mine&q=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	scope, valid := orderqueries.ParseScope(query.Get(r, "scope"))
	if !valid {
		apierrors.BadRequest(w, inputval.CodeInvalidInput, locale.T(i18n.Tag(r), locale.KeyInvalidInput))
		return
	}
	h.serveList(w, r, orderqueries.ListFilter{
		Scope:       scope,
		UserID:      userID,
		SearchQuery: query.Search(r, "q"),
		Limit:       listLimit(r),
	})
}

// ServePublicList handles GET /api/public/orders.
func (h *Handler) ServePublicList(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, orderqueries.ListFilter{
		Scope:       orderqueries.ScopePublic,
		SearchQuery: query.Search(r, "q"),
		Limit:       listLimit(r),
	})
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, f orderqueries.ListFilter) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list orders")
	defer cancel()

	rows, err := orderqueries.ListOrders(ctx, h.DB, f)
	if err != nil {
		h.writeActionError(w, r, "list orders", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Scope: f.Scope, Orders: rows})
}

func listLimit(r *http.Request) int64 {
	n, err := strconv.ParseInt(query.Get(r, "limit"), 10, 64)
	if err != nil || n <= 0 {
		return orderqueries.DefaultLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}
