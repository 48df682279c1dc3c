// internal/app/features/logout/handler.go
package logout

import (
	"net/http"
	"strings"

	"github.com/dalemusser/litego/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler ends the caller's session.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, SessionMgr: sessionMgr}
}

// ServeLogout handles POST /logout. API callers get 204; browsers are
// sent home. Signing out twice is harmless.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.String("user_id", userID), zap.Error(err))
	} else if userID != "" {
		h.Log.Info("signed out", zap.String("user_id", userID))
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
