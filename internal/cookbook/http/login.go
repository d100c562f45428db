package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// LoginHandler serves the login form and authenticates sessions.
type LoginHandler struct {
	Accounts *service.AccountService
	Sessions *session.Manager
	Renderer *Renderer
}

func (h *LoginHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	msg, err := h.Sessions.PopError(ctx, sess)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to pop flash message", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, "login.html", accountFormPage{ErrorMessage: msg})
}

func (h *LoginHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := session.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.Renderer.ServerError(w, r)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	user, err := h.Accounts.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if serr := h.Sessions.SetError(ctx, sess, "Invalid email or password"); serr != nil {
				log.Error("failed to set flash message", "error", serr)
				h.Renderer.ServerError(w, r)
				return
			}
			httpx.SeeOther(w, r, "/login")
			return
		}
		log.Error("failed to log in", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	if _, err := h.Sessions.Authenticate(ctx, w, sess, user.ID); err != nil {
		log.Error("failed to authenticate session", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	httpx.SeeOther(w, r, "/")
}
