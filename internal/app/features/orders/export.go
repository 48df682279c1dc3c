// internal/app/features/orders/export.go
package orders

import (
	"io"
	"mime"
	"net/http"

	"github.com/dalemusser/litego/internal/app/system/csvutil"
	"github.com/dalemusser/litego/internal/app/system/i18n"
	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/models"
	"go.uber.org/zap"
)

// ServeExportCSV handles GET /api/orders/{id}/export.csv?lang=. Only the
// initiator may download. The body starts with a UTF-8 BOM.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	tag := i18n.Tag(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "export csv")
	defer cancel()

	o, err := h.Loader.LoadLang(ctx, orderID, tag)
	if err != nil {
		h.writeActionError(w, r, "export csv", err)
		return
	}
	if !o.IsInitiator(actor) {
		h.writeActionError(w, r, "export csv denied", ErrForbidden)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", contentDisposition(o))
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, csvutil.BOM); err != nil {
		return
	}
	if err := csvutil.WriteOrderCSV(w, o, tag); err != nil {
		// Headers are already sent; all we can do is log.
		h.Log.Warn("export csv: write failed",
			zap.String("order_id", orderID.Hex()),
			zap.Error(err))
	}
}

// contentDisposition names the download after the order, falling back to
// its id when the name cannot be encoded.
func contentDisposition(o models.Order) string {
	fallback := "order-" + o.ID.Hex() + ".csv"
	if o.Name != "" {
		if v := mime.FormatMediaType("attachment", map[string]string{"filename": o.Name + ".csv"}); v != "" {
			return v
		}
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": fallback})
}
