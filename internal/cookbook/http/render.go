package http

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer holds the parsed page templates. Templates are embedded so the
// binary is self-contained.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render writes the named page with the given status. A template failure
// after headers are written can only be logged.
func (re *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := re.templates.ExecuteTemplate(w, name, data); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render template", "template", name, "error", err)
	}
}

type errorPage struct {
	Title   string
	Message string
}

// ServerError renders the generic 500 page. The diagnostic goes to the log,
// never to the client.
func (re *Renderer) ServerError(w http.ResponseWriter, r *http.Request) {
	re.Render(w, r, http.StatusInternalServerError, "error.html", errorPage{
		Title:   "Something went wrong",
		Message: "Something went wrong. Please try again.",
	})
}

// BadRequest renders the 400 page with a short reason.
func (re *Renderer) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	re.Render(w, r, http.StatusBadRequest, "error.html", errorPage{
		Title:   "Bad request",
		Message: msg,
	})
}

// NotFound renders the 404 page.
func (re *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	re.Render(w, r, http.StatusNotFound, "error.html", errorPage{
		Title:   "Not found",
		Message: "Recipe not found.",
	})
}
