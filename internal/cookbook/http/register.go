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

// RegisterHandler serves the registration form and creates accounts.
type RegisterHandler struct {
	Accounts *service.AccountService
	Sessions *session.Manager
	Renderer *Renderer
}

type accountFormPage struct {
	ErrorMessage string
}

func (h *RegisterHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	// Flash messages display at most once.
	msg, err := h.Sessions.PopError(ctx, sess)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to pop flash message", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, "register.html", accountFormPage{ErrorMessage: msg})
}

func (h *RegisterHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := session.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		h.Renderer.ServerError(w, r)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	firstName := strings.TrimSpace(r.PostFormValue("firstName"))
	lastName := strings.TrimSpace(r.PostFormValue("lastName"))

	user, err := h.Accounts.Register(ctx, email, password, firstName, lastName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			if serr := h.Sessions.SetError(ctx, sess, "Email already registered."); serr != nil {
				log.Error("failed to set flash message", "error", serr)
				h.Renderer.ServerError(w, r)
				return
			}
			httpx.SeeOther(w, r, "/register")
			return
		}
		log.Error("failed to register user", "error", err)
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
