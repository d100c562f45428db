package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store/drivers/sqlite"
	"github.com/aussiebroadwan/cookbook/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cookbook-service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st}

	user, err := svc.Register(ctx, "alice@example.com", "correct horse", "Alice", "Smith")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email)

	// The stored credential is an encoded hash, never the raw password.
	stored, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", stored.PasswordHash)
	require.Contains(t, stored.PasswordHash, "$argon2id$")

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Login(ctx, "alice@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice@example.com", "battery staple")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "correct horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	first, err := svc.Register(ctx, "bob@example.com", "secret-one", "Bob", "Jones")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob@example.com", "secret-two", "Robert", "Jones")
	require.ErrorIs(t, err, ErrEmailTaken)

	// The original account is untouched by the failed attempt.
	got, err := svc.Login(ctx, "bob@example.com", "secret-one")
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "Bob", got.FirstName)
}

func TestGetUserByID(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	user, err := svc.Register(ctx, "carol@example.com", "hunter2hunter2", "Carol", "Lee")
	require.NoError(t, err)

	got, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", got.Email)

	_, err = svc.GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
