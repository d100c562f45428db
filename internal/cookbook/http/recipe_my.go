package http

import (
	"net/http"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

const myRecipesPageSize = 24

// MyRecipesHandler lists the recipes owned by the session's user.
type MyRecipesHandler struct {
	Recipes  *service.RecipeService
	Renderer *Renderer
}

type myRecipesPage struct {
	Recipes  []domain.Recipe
	NextPage int
}

func (h *MyRecipesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	page := parsePage(r)
	recipes, err := h.Recipes.ListByOwner(ctx, sess.UserID, store.Page{
		Limit:  myRecipesPageSize,
		Offset: (page - 1) * myRecipesPageSize,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list recipes", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	data := myRecipesPage{Recipes: recipes}
	if len(recipes) == myRecipesPageSize {
		data.NextPage = page + 1
	}

	h.Renderer.Render(w, r, http.StatusOK, "my_recipes.html", data)
}
