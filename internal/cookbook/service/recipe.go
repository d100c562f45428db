package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/pkg/idx"
	"github.com/aussiebroadwan/cookbook/pkg/slogx"
)

// ErrRecipeNotFound covers both "no such recipe" and "not owned by the
// caller"; the two are indistinguishable by design since ownership is a
// filter in the fetch itself.
var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeService struct {
	Store store.Store
}

// RecipeInput carries the user-editable recipe fields. The owner is never
// part of it; it always comes from the authenticated session.
type RecipeInput struct {
	Title         string
	Ingredients   []string
	Instructions  []string
	FamilySecrets string
	Type          string
	ImageURL      string
}

// Create inserts a new recipe owned by ownerID.
func (s *RecipeService) Create(
	ctx context.Context,
	ownerID string,
	in RecipeInput,
) (domain.Recipe, error) {
	log := slogx.FromContext(ctx)

	rec := domain.Recipe{
		ID:            idx.New().String(),
		Title:         in.Title,
		Ingredients:   in.Ingredients,
		Instructions:  in.Instructions,
		FamilySecrets: in.FamilySecrets,
		Type:          in.Type,
		ImageURL:      in.ImageURL,
		UserID:        ownerID,
	}

	if err := s.Store.Recipes().CreateRecipe(ctx, rec); err != nil {
		log.Error("failed to create recipe", slog.Any("error", err))
		return domain.Recipe{}, err
	}

	log.Info("recipe created",
		slog.String("recipe_id", rec.ID),
		slog.String("user_id", ownerID),
	)
	return rec, nil
}

// ListAll returns recipes across all users, newest first.
func (s *RecipeService) ListAll(ctx context.Context, page store.Page) ([]domain.Recipe, error) {
	return s.Store.Recipes().ListRecipes(ctx, page)
}

// ListByOwner returns the recipes owned by userID, newest first.
func (s *RecipeService) ListByOwner(
	ctx context.Context,
	userID string,
	page store.Page,
) ([]domain.Recipe, error) {
	return s.Store.Recipes().ListRecipesByOwner(ctx, userID, page)
}

// GetForOwner fetches a recipe by id scoped to its owner.
func (s *RecipeService) GetForOwner(ctx context.Context, id, ownerID string) (domain.Recipe, error) {
	rec, err := s.Store.Recipes().GetRecipeForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Recipe{}, ErrRecipeNotFound
		}
		return domain.Recipe{}, err
	}
	return rec, nil
}

// UpdateForOwner applies the input to the recipe matching both id and owner.
// The stored image is left untouched; only the text fields change.
func (s *RecipeService) UpdateForOwner(ctx context.Context, id, ownerID string, in RecipeInput) error {
	log := slogx.FromContext(ctx)

	rec := domain.Recipe{
		ID:            id,
		Title:         in.Title,
		Ingredients:   in.Ingredients,
		Instructions:  in.Instructions,
		FamilySecrets: in.FamilySecrets,
		Type:          in.Type,
		UserID:        ownerID,
	}

	err := s.Store.Recipes().UpdateRecipeForOwner(ctx, rec)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRecipeNotFound
		}
		log.Error("failed to update recipe", slog.String("recipe_id", id), slog.Any("error", err))
		return err
	}

	log.Info("recipe updated", slog.String("recipe_id", id), slog.String("user_id", ownerID))
	return nil
}
