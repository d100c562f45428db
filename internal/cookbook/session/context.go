package session

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

type ctxKey struct{}

// FromContext returns the session attached by Middleware. The zero session
// (unauthenticated, no id) is returned when none is attached.
func FromContext(ctx context.Context) domain.Session {
	s, ok := ctx.Value(ctxKey{}).(domain.Session)
	if !ok {
		return domain.Session{}
	}
	return s
}

func withSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Middleware resolves (or lazily creates) the request's session and attaches
// it to the request context. A session-store failure is a storage fault and
// terminates the request with a 500.
func (m *Manager) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := m.Load(w, r)
			if err != nil {
				slogx.FromContext(r.Context()).Error("failed to load session", "error", err)
				http.Error(w, "Something went wrong.", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}
