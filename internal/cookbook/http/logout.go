package http

import (
	"net/http"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// LogoutHandler destroys the session entirely, not just the authenticated
// flag, then sends the user home.
type LogoutHandler struct {
	Sessions *session.Manager
	Renderer *Renderer
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	if err := h.Sessions.Destroy(ctx, w, sess); err != nil {
		slogx.FromContext(ctx).Error("failed to destroy session", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	httpx.SeeOther(w, r, "/")
}
