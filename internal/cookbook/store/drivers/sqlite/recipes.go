package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
)

type recipesRepo struct {
	db dbtx
}

const recipeColumns = `id, title, ingredients, instructions, family_secrets, type, image_url, user_id, created_at, updated_at`

// defaultListLimit bounds list queries when the caller passes a
// non-positive limit; listings must never be unbounded.
const defaultListLimit = 60

func normalizePage(page store.Page) store.Page {
	if page.Limit <= 0 {
		page.Limit = defaultListLimit
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	return page
}

func (r *recipesRepo) CreateRecipe(ctx context.Context, rec domain.Recipe) error {
	ingredients, err := encodeList(rec.Ingredients)
	if err != nil {
		return err
	}
	instructions, err := encodeList(rec.Instructions)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, title, ingredients, instructions, family_secrets, type, image_url, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, ingredients, instructions, rec.FamilySecrets, rec.Type,
		mapStringNull(rec.ImageURL), rec.UserID, now, now)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *recipesRepo) ListRecipes(ctx context.Context, page store.Page) ([]domain.Recipe, error) {
	page = normalizePage(page)

	// ULID primary keys sort by creation time, so id DESC is newest first.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes ORDER BY id DESC LIMIT ? OFFSET ?`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecipes(rows)
}

func (r *recipesRepo) ListRecipesByOwner(
	ctx context.Context,
	userID string,
	page store.Page,
) ([]domain.Recipe, error) {
	page = normalizePage(page)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRecipes(rows)
}

func (r *recipesRepo) GetRecipeForOwner(ctx context.Context, id, userID string) (domain.Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ? AND user_id = ?`,
		id, userID)
	return scanRecipe(row)
}

func (r *recipesRepo) UpdateRecipeForOwner(ctx context.Context, rec domain.Recipe) error {
	ingredients, err := encodeList(rec.Ingredients)
	if err != nil {
		return err
	}
	instructions, err := encodeList(rec.Instructions)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE recipes
		 SET title = ?, ingredients = ?, instructions = ?, family_secrets = ?, type = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		rec.Title, ingredients, instructions, rec.FamilySecrets, rec.Type,
		time.Now().UTC(), rec.ID, rec.UserID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Absent and not-owned are indistinguishable on purpose: the owner
		// filter lives in the statement itself.
		return store.ErrNotFound
	}
	return nil
}

func collectRecipes(rows *sql.Rows) ([]domain.Recipe, error) {
	var out []domain.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecipe(row rowScanner) (domain.Recipe, error) {
	var (
		rec          domain.Recipe
		ingredients  string
		instructions string
		imageURL     sql.NullString
	)
	err := row.Scan(
		&rec.ID,
		&rec.Title,
		&ingredients,
		&instructions,
		&rec.FamilySecrets,
		&rec.Type,
		&imageURL,
		&rec.UserID,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return domain.Recipe{}, mapNotFound(err)
	}

	if rec.Ingredients, err = decodeList(ingredients); err != nil {
		return domain.Recipe{}, err
	}
	if rec.Instructions, err = decodeList(instructions); err != nil {
		return domain.Recipe{}, err
	}
	rec.ImageURL = mapNullString(imageURL)

	return rec, nil
}
