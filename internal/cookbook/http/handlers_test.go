package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/cookbook/internal/cookbook/domain"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/service"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/session"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store"
	"github.com/aussiebroadwan/cookbook/internal/cookbook/store/drivers/sqlite"
	"github.com/aussiebroadwan/cookbook/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cookbook-http-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newTestRouter wires a full router against an in-memory store.
func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	renderer, err := NewRenderer()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	rt := NewRouter("test", st, renderer, logger)
	rt.Sessions = session.NewManager(st, time.Hour)
	rt.Accounts = &service.AccountService{Store: st}
	rt.Recipes = &service.RecipeService{Store: st}
	rt.UploadDir = t.TempDir()
	rt.ApplyRoutes()

	return rt
}

func do(rt *Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	rt.ServeHTTP(rec, req)
	return rec
}

// lastCookie returns the most recent Set-Cookie for name; the session
// middleware and a login in the same response both set the session cookie,
// and the later one is the one a browser keeps.
func lastCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	require.NotNil(t, found, "cookie %q not set", name)
	return found
}

func postForm(rt *Router, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return do(rt, req)
}

func get(rt *Router, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return do(rt, req)
}

// registerAccount signs up a fresh account and returns its logged-in
// session cookie.
func registerAccount(t *testing.T, rt *Router, email string) *http.Cookie {
	t.Helper()

	rec := postForm(rt, "/register", url.Values{
		"email":     {email},
		"password":  {"a long enough password"},
		"firstName": {"Test"},
		"lastName":  {"User"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	return lastCookie(t, rec, session.DefaultCookieName)
}

func TestAuthGuardRedirectsAnonymous(t *testing.T) {
	rt := newTestRouter(t)

	for _, path := range []string{"/addRecipe", "/myRecipes", "/editRecipe/some-id"} {
		rec := get(rt, path, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestRegisterGrantsAccess(t *testing.T) {
	rt := newTestRouter(t)
	cookie := registerAccount(t, rt, "alice@example.com")

	rec := get(rt, "/addRecipe", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Add a recipe")
}

func TestRegisterDuplicateEmailFlash(t *testing.T) {
	rt := newTestRouter(t)
	registerAccount(t, rt, "alice@example.com")

	// Second browser tries to register the same address.
	rec := postForm(rt, "/register", url.Values{
		"email":    {"alice@example.com"},
		"password": {"another password"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/register", rec.Header().Get("Location"))

	cookie := lastCookie(t, rec, session.DefaultCookieName)

	rec = get(rt, "/register", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Email already registered.")

	// The flash renders at most once.
	rec = get(rt, "/register", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Email already registered.")
}

func TestLoginWrongPasswordFlash(t *testing.T) {
	rt := newTestRouter(t)
	registerAccount(t, rt, "alice@example.com")

	rec := postForm(rt, "/login", url.Values{
		"email":    {"alice@example.com"},
		"password": {"not the password"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	cookie := lastCookie(t, rec, session.DefaultCookieName)

	rec = get(rt, "/login", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestLogoutEndsSession(t *testing.T) {
	rt := newTestRouter(t)
	cookie := registerAccount(t, rt, "alice@example.com")

	rec := get(rt, "/logout", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	// The old cookie no longer opens gated pages.
	rec = get(rt, "/myRecipes", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAddRecipeWithPhoto(t *testing.T) {
	rt := newTestRouter(t)
	cookie := registerAccount(t, rt, "alice@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Minestrone"))
	require.NoError(t, mw.WriteField("ingredients", "beans | stock|pasta"))
	require.NoError(t, mw.WriteField("instructions", "simmer | serve"))
	require.NoError(t, mw.WriteField("familySecrets", "parmesan rind in the pot"))
	require.NoError(t, mw.WriteField("type", "Soups"))
	part, err := mw.CreateFormFile("photo", "soup photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/addRecipe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)

	rec := do(rt, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	// The photo landed in the upload dir under a sanitized name.
	entries, err := os.ReadDir(rt.UploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasSuffix(entries[0].Name(), "-soup_photo.jpg"))

	// And the recipe shows up in its category on the home page.
	rec = get(rt, "/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	require.Contains(t, page, "Minestrone")
	require.Contains(t, page, "<li>beans</li>")
	require.Contains(t, page, "parmesan rind in the pot")
	require.Contains(t, page, "/static/images/"+entries[0].Name())
}

func TestHomeDropsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	rt := newTestRouter(t)
	cookie := registerAccount(t, rt, "alice@example.com")

	user, err := rt.Accounts.Login(ctx, "alice@example.com", "a long enough password")
	require.NoError(t, err)

	// "Dessert" is not one of the fixed category labels.
	_, err = rt.Recipes.Create(ctx, user.ID, service.RecipeInput{
		Title: "Mystery Pudding",
		Type:  "Dessert",
	})
	require.NoError(t, err)

	rec := get(rt, "/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Mystery Pudding")

	// All nine sections render regardless.
	for _, category := range domain.Categories {
		require.Contains(t, rec.Body.String(), category)
	}
}

func TestHomeLinksFollowSession(t *testing.T) {
	rt := newTestRouter(t)

	rec := get(rt, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "/addRecipe")
	require.Contains(t, rec.Body.String(), "/login")

	cookie := registerAccount(t, rt, "alice@example.com")
	rec = get(rt, "/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/addRecipe")
	require.Contains(t, rec.Body.String(), "/myRecipes")
}

func TestEditRecipeOwnership(t *testing.T) {
	ctx := context.Background()
	rt := newTestRouter(t)

	aliceCookie := registerAccount(t, rt, "alice@example.com")
	bobCookie := registerAccount(t, rt, "bob@example.com")

	alice, err := rt.Accounts.Login(ctx, "alice@example.com", "a long enough password")
	require.NoError(t, err)

	recipe, err := rt.Recipes.Create(ctx, alice.ID, service.RecipeInput{
		Title:        "Pumpkin Soup",
		Ingredients:  []string{"pumpkin", "stock"},
		Instructions: []string{"roast", "blend"},
		Type:         "Soups",
	})
	require.NoError(t, err)

	t.Run("owner gets the pre-filled form", func(t *testing.T) {
		rec := get(rt, "/editRecipe/"+recipe.ID, aliceCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Pumpkin Soup")
		require.Contains(t, rec.Body.String(), "pumpkin|stock")
	})

	t.Run("non-owner sees the same 404 as a missing recipe", func(t *testing.T) {
		rec := get(rt, "/editRecipe/"+recipe.ID, bobCookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Recipe not found.")

		rec = get(rt, "/editRecipe/does-not-exist", bobCookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-owner update is rejected without side effects", func(t *testing.T) {
		rec := postForm(rt, "/updateRecipe/"+recipe.ID, url.Values{
			"title": {"Hijacked"},
			"type":  {"Pies"},
		}, bobCookie)
		require.Equal(t, http.StatusNotFound, rec.Code)

		got, err := rt.Recipes.GetForOwner(ctx, recipe.ID, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "Pumpkin Soup", got.Title)
	})

	t.Run("owner update applies and redirects", func(t *testing.T) {
		rec := postForm(rt, "/updateRecipe/"+recipe.ID, url.Values{
			"title":        {"Spiced Pumpkin Soup"},
			"ingredients":  {"pumpkin | stock | cumin"},
			"instructions": {"roast | blend | season"},
			"type":         {"Soups"},
		}, aliceCookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/myRecipes", rec.Header().Get("Location"))

		got, err := rt.Recipes.GetForOwner(ctx, recipe.ID, alice.ID)
		require.NoError(t, err)
		require.Equal(t, "Spiced Pumpkin Soup", got.Title)
		require.Equal(t, []string{"pumpkin", "stock", "cumin"}, got.Ingredients)
	})
}

func TestMyRecipesListsOnlyOwn(t *testing.T) {
	ctx := context.Background()
	rt := newTestRouter(t)

	aliceCookie := registerAccount(t, rt, "alice@example.com")
	registerAccount(t, rt, "bob@example.com")

	alice, err := rt.Accounts.Login(ctx, "alice@example.com", "a long enough password")
	require.NoError(t, err)
	bob, err := rt.Accounts.Login(ctx, "bob@example.com", "a long enough password")
	require.NoError(t, err)

	_, err = rt.Recipes.Create(ctx, alice.ID, service.RecipeInput{Title: "Damper", Type: "Breads"})
	require.NoError(t, err)
	_, err = rt.Recipes.Create(ctx, bob.ID, service.RecipeInput{Title: "Vegemite Scrolls", Type: "Breads"})
	require.NoError(t, err)

	rec := get(rt, "/myRecipes", aliceCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Damper")
	require.NotContains(t, rec.Body.String(), "Vegemite Scrolls")
}

func TestRecipeFormsRejectUnknownCategory(t *testing.T) {
	ctx := context.Background()
	rt := newTestRouter(t)
	cookie := registerAccount(t, rt, "alice@example.com")

	alice, err := rt.Accounts.Login(ctx, "alice@example.com", "a long enough password")
	require.NoError(t, err)

	// "Dessert" is not one of the select's options, so only a forged
	// request can submit it.
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Mystery Pudding"))
	require.NoError(t, mw.WriteField("type", "Dessert"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/addRecipe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)

	rec := do(rt, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	recipes, err := rt.Recipes.ListByOwner(ctx, alice.ID, store.Page{})
	require.NoError(t, err)
	require.Empty(t, recipes)

	recipe, err := rt.Recipes.Create(ctx, alice.ID, service.RecipeInput{Title: "Scones", Type: "Breads"})
	require.NoError(t, err)

	rec = postForm(rt, "/updateRecipe/"+recipe.ID, url.Values{
		"title": {"Scones"},
		"type":  {"Dessert"},
	}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	got, err := rt.Recipes.GetForOwner(ctx, recipe.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "Breads", got.Type)
}

func TestHealthEndpoints(t *testing.T) {
	rt := newTestRouter(t)

	rec := get(rt, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = get(rt, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
}

func TestReadyzDegradedOnClosedDatabase(t *testing.T) {
	rt := newTestRouter(t)

	require.NoError(t, rt.store.Close())

	rec := get(rt, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"degraded"`)

	// Liveness is about the process, not its dependencies.
	rec = get(rt, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
