// internal/app/features/orders/routes.go
package orders

import (
	"github.com/dalemusser/litego/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api. Reading a single order and the public
// listing need no session; everything else does.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/public/orders", h.ServePublicList)
	r.Get("/attribute-templates", h.ServeAttributeTemplates)
	r.Get("/orders/{id}", h.ServeOrder)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// LIST + CREATE
		pr.Get("/orders", h.ServeList)
		pr.Post("/orders", h.HandleCreate)

		// PARTICIPANTS
		pr.Post("/orders/{id}/participants", h.HandleJoin)
		pr.Put("/orders/{id}/participants/{userID}", h.HandleEditParticipant)
		pr.Delete("/orders/{id}/participants/{userID}", h.HandleRemoveParticipant)
		pr.Put("/orders/{id}/participants/{userID}/paid", h.HandleSetPaid)

		// STATUS + TIMELINE
		pr.Put("/orders/{id}/status", h.HandleSetStatus)
		pr.Post("/orders/{id}/status-updates", h.HandleAddStatusUpdate)

		// SETTINGS + CATALOG
		pr.Put("/orders/{id}/settings", h.HandleUpdateSettings)
		pr.Post("/orders/{id}/items", h.HandleCreateItem)
		pr.Put("/orders/{id}/items/{itemID}", h.HandleUpdateItem)
		pr.Delete("/orders/{id}/items/{itemID}", h.HandleDeleteItem)

		// INITIATOR TOOLS
		pr.Get("/orders/{id}/export.csv", h.ServeExportCSV)
		pr.Post("/orders/{id}/summary", h.HandleSummary)
	})

	return r
}
