package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	renderer *Renderer

	Sessions  *session.Manager
	Accounts  *service.AccountService
	Recipes   *service.RecipeService
	UploadDir string
}

func NewRouter(
	buildVersion string,
	st store.Store,
	renderer *Renderer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		renderer:     renderer,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// AuthGuard redirects unauthenticated sessions to the login page. It reads
// only session.Authenticated and has no other side effects; an absent login
// is an expected outcome, not an error.
func AuthGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated {
			httpx.SeeOther(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (r *Router) ApplyRoutes() {
	// Pages resolve the session first; probes and static assets never touch
	// the session store.
	withSession := r.Sessions.Middleware()

	r.registerHome(withSession)
	r.registerAccounts(withSession)
	r.registerRecipes(withSession)
	r.registerStatic()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerHome(withSession httpx.Middleware) {
	home := &HomeHandler{
		Recipes:  r.Recipes,
		Renderer: r.renderer,
	}

	r.Mux.Handle("GET /{$}",
		httpx.Chain(home,
			withSession,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAccounts(withSession httpx.Middleware) {
	register := &RegisterHandler{
		Accounts: r.Accounts,
		Sessions: r.Sessions,
		Renderer: r.renderer,
	}
	login := &LoginHandler{
		Accounts: r.Accounts,
		Sessions: r.Sessions,
		Renderer: r.renderer,
	}
	logout := &LogoutHandler{
		Sessions: r.Sessions,
		Renderer: r.renderer,
	}

	r.Mux.Handle("GET /register",
		httpx.Chain(http.HandlerFunc(register.HandleGet),
			withSession,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Credential submissions get the strict limit, keyed by IP + email to
	// slow per-account brute force without locking out a whole NAT.
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(register.HandlePost),
			withSession,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(login.HandleGet),
			withSession,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(login.HandlePost),
			withSession,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.Handle("GET /logout",
		httpx.Chain(logout,
			withSession,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerRecipes(withSession httpx.Middleware) {
	add := &AddRecipeHandler{
		Recipes:   r.Recipes,
		Renderer:  r.renderer,
		UploadDir: r.UploadDir,
	}
	mine := &MyRecipesHandler{
		Recipes:  r.Recipes,
		Renderer: r.renderer,
	}
	edit := &EditRecipeHandler{
		Recipes:  r.Recipes,
		Renderer: r.renderer,
	}

	r.Mux.Handle("GET /addRecipe",
		httpx.Chain(http.HandlerFunc(add.HandleGet),
			withSession,
			AuthGuard,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /addRecipe",
		httpx.Chain(http.HandlerFunc(add.HandlePost),
			withSession,
			AuthGuard,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /myRecipes",
		httpx.Chain(mine,
			withSession,
			AuthGuard,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /editRecipe/{recipeId}",
		httpx.Chain(http.HandlerFunc(edit.HandleGet),
			withSession,
			AuthGuard,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /updateRecipe/{recipeId}",
		httpx.Chain(http.HandlerFunc(edit.HandleUpdate),
			withSession,
			AuthGuard,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerStatic() {
	// Uploaded photos are referenced by bare filename and served from here.
	r.Mux.Handle("GET /static/images/",
		http.StripPrefix("/static/images/", http.FileServer(http.Dir(r.UploadDir))),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
