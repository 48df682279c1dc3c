// internal/app/features/extract/routes.go
package extract

import (
	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/dalemusser/litego/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the import endpoints. Both require a signed-in user since
// they spend model quota and fetch remote pages.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	if h.Limiter != nil {
		r.Use(ratelimit.Middleware(h.Limiter, h.tooManyRequests))
	}
	r.Post("/menu", h.HandleMenu)
	r.Post("/link", h.HandleLink)
	return r
}
