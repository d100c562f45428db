package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/pkg/httpx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// EditRecipeHandler serves the pre-filled edit form and applies updates.
// Ownership is enforced inside the store query itself: a recipe that exists
// but belongs to someone else renders the same 404 as one that doesn't.
type EditRecipeHandler struct {
	Recipes  *service.RecipeService
	Renderer *Renderer
}

type editRecipePage struct {
	Recipe domain.Recipe

	// "|"-joined for the form inputs. An item that itself contains the
	// separator cannot survive the round trip; it re-splits on save.
	Ingredients  string
	Instructions string

	Categories []string
}

func (h *EditRecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	recipeID := r.PathValue("recipeId")

	rec, err := h.Recipes.GetForOwner(ctx, recipeID, sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			h.Renderer.NotFound(w, r)
			return
		}
		slogx.FromContext(ctx).Error("failed to fetch recipe", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	h.Renderer.Render(w, r, http.StatusOK, "edit_recipe.html", editRecipePage{
		Recipe:       rec,
		Ingredients:  domain.JoinList(rec.Ingredients),
		Instructions: domain.JoinList(rec.Instructions),
		Categories:   domain.Categories,
	})
}

func (h *EditRecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)
	recipeID := r.PathValue("recipeId")

	if err := r.ParseForm(); err != nil {
		h.Renderer.ServerError(w, r)
		return
	}

	in := recipeInputFromForm(r)
	if !domain.IsCategory(in.Type) {
		h.Renderer.BadRequest(w, r, "Choose one of the listed categories.")
		return
	}

	err := h.Recipes.UpdateForOwner(ctx, recipeID, sess.UserID, in)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			h.Renderer.NotFound(w, r)
			return
		}
		slogx.FromContext(ctx).Error("failed to update recipe", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	httpx.SeeOther(w, r, "/myRecipes")
}
