package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// AddRecipeHandler serves the add-recipe form and creates recipes from its
// multipart submission.
type AddRecipeHandler struct {
	Recipes   *service.RecipeService
	Renderer  *Renderer
	UploadDir string
}

type recipeFormPage struct {
	Categories []string
}

func (h *AddRecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, r, http.StatusOK, "add_recipe.html", recipeFormPage{
		Categories: domain.Categories,
	})
}

func (h *AddRecipeHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := session.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Warn("failed to parse multipart form", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	in := recipeInputFromForm(r)

	// The form select only offers the fixed labels; anything else is a
	// forged request. Validate before the photo hits disk.
	if !domain.IsCategory(in.Type) {
		h.Renderer.BadRequest(w, r, "Choose one of the listed categories.")
		return
	}

	imageURL, err := savePhotoUpload(r, h.UploadDir)
	if err != nil {
		log.Error("failed to store uploaded photo", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}
	in.ImageURL = imageURL

	// Ownership comes from the session, never from the form.
	if _, err := h.Recipes.Create(ctx, sess.UserID, in); err != nil {
		h.Renderer.ServerError(w, r)
		return
	}

	httpx.SeeOther(w, r, "/")
}

// recipeInputFromForm reads the shared recipe form fields. Ingredients and
// instructions arrive "|"-delimited and are parsed into ordered lists here,
// at the boundary; they are never stored in joined form.
func recipeInputFromForm(r *http.Request) service.RecipeInput {
	return service.RecipeInput{
		Title:         strings.TrimSpace(r.PostFormValue("title")),
		Ingredients:   domain.ParseList(r.PostFormValue("ingredients")),
		Instructions:  domain.ParseList(r.PostFormValue("instructions")),
		FamilySecrets: strings.TrimSpace(r.PostFormValue("familySecrets")),
		Type:          strings.TrimSpace(r.PostFormValue("type")),
	}
}
