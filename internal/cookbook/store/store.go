package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Page bounds list queries. A non-positive Limit falls back to the driver
// default; Offset is clamped at zero.
type Page struct {
	Limit  int
	Offset int
}

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Recipes() Recipes
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back,
	// otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is already registered; the
	// UNIQUE constraint on email is the source of truth, no prior
	// existence check is performed.
	CreateUser(ctx context.Context, u domain.User) error
}

type Recipes interface {
	// CreateRecipe inserts a new recipe owned by r.UserID.
	CreateRecipe(ctx context.Context, r domain.Recipe) error

	// ListRecipes returns recipes across all users, newest first.
	ListRecipes(ctx context.Context, page Page) ([]domain.Recipe, error)

	// ListRecipesByOwner returns the recipes owned by userID, newest first.
	ListRecipesByOwner(ctx context.Context, userID string, page Page) ([]domain.Recipe, error)

	// GetRecipeForOwner fetches the recipe matching both id and owner in a
	// single query, so a caller can never probe another user's recipe by id.
	GetRecipeForOwner(ctx context.Context, id, userID string) (domain.Recipe, error)

	// UpdateRecipeForOwner updates the row matching both r.ID and r.UserID.
	// Returns ErrNotFound when no row matched (absent or not owned).
	UpdateRecipeForOwner(ctx context.Context, r domain.Recipe) error
}

type Sessions interface {
	// CreateSession stores a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSession returns a session by id, or ErrNotFound if absent or expired.
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// UpdateSession rewrites the mutable session fields and bumps updated_at.
	UpdateSession(ctx context.Context, s domain.Session) error

	// DeleteSession removes a session row. Deleting an absent session is not
	// an error; logout must be idempotent in effect.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}
