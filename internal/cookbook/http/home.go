package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// homePageSize leaves room for all nine category rows on one page.
const homePageSize = 60

// HomeHandler renders the public landing page: every recipe, partitioned
// into the fixed category carousels.
type HomeHandler struct {
	Recipes  *service.RecipeService
	Renderer *Renderer
}

type categorySection struct {
	Name    string
	Recipes []domain.Recipe
}

type homePage struct {
	Sections          []categorySection
	ShowAddRecipeLink bool
	ShowMyRecipesLink bool
	NextPage          int
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	sess := session.FromContext(ctx)

	page := parsePage(r)
	recipes, err := h.Recipes.ListAll(ctx, store.Page{
		Limit:  homePageSize,
		Offset: (page - 1) * homePageSize,
	})
	if err != nil {
		log.Error("failed to list recipes", "error", err)
		h.Renderer.ServerError(w, r)
		return
	}

	// Partition into the fixed category order. Recipes with an unknown type
	// match no bucket and are dropped from the page.
	sections := make([]categorySection, 0, len(domain.Categories))
	for _, category := range domain.Categories {
		section := categorySection{Name: category}
		for _, rec := range recipes {
			if rec.Type == category {
				section.Recipes = append(section.Recipes, rec)
			}
		}
		sections = append(sections, section)
	}

	data := homePage{
		Sections:          sections,
		ShowAddRecipeLink: sess.Authenticated,
		ShowMyRecipesLink: sess.Authenticated,
	}
	if len(recipes) == homePageSize {
		data.NextPage = page + 1
	}

	h.Renderer.Render(w, r, http.StatusOK, "home.html", data)
}

// parsePage reads the optional 1-based "page" query parameter.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
