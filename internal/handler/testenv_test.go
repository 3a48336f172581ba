package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ladle/ladle/internal/auth"
	"github.com/ladle/ladle/internal/middleware"
	"github.com/ladle/ladle/internal/model"
	"github.com/ladle/ladle/internal/repository"
	"github.com/ladle/ladle/internal/service"
)

// errStore stands in for an unreachable database.
var errStore = errors.New("store unavailable")

// fakeUserStore is an in-memory service.UserStore for handler tests.
type fakeUserStore struct {
	nextID int64
	byID   map[int64]*model.User
	byName map[string]*model.User
	err    error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:   make(map[int64]*model.User),
		byName: make(map[string]*model.User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, exists := f.byName[user.Username]; exists {
		return repository.ErrUsernameTaken
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.byID[user.ID] = &stored
	f.byName[user.Username] = &stored
	return nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	stored := *user
	return &stored, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byName[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	stored := *user
	return &stored, nil
}

// fakeRecipeStore is an in-memory service.RecipeStore for handler tests.
type fakeRecipeStore struct {
	nextID  int64
	recipes []*model.Recipe
	err     error
}

func (f *fakeRecipeStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	recipe.ID = f.nextID
	stored := *recipe
	f.recipes = append(f.recipes, &stored)
	return nil
}

func (f *fakeRecipeStore) ListRecipesByOwner(ctx context.Context, userID int64) ([]*model.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	var owned []*model.Recipe
	for _, recipe := range f.recipes {
		if recipe.UserID == userID {
			stored := *recipe
			owned = append(owned, &stored)
		}
	}
	return owned, nil
}

// testEnv wires the handlers behind a router the way cmd/api does,
// with in-memory stores behind the real services.
type testEnv struct {
	router   *chi.Mux
	users    *fakeUserStore
	recipes  *fakeRecipeStore
	sessions *auth.Sessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := auth.NewSessions([]byte("handler-test-secret"), time.Hour, "session", false)

	users := newFakeUserStore()
	recipes := &fakeRecipeStore{}

	authService, err := service.NewAuthService(users, nil, nil)
	if err != nil {
		t.Fatalf("NewAuthService failed: %v", err)
	}
	recipeService := service.NewRecipeService(recipes, nil)

	h := New()
	authHandler := NewAuthHandler(authService, sessions, logger)
	recipeHandler := NewRecipeHandler(recipeService, logger)

	r := chi.NewRouter()
	r.Use(middleware.Session(middleware.SessionConfig{
		Logger:   logger,
		Sessions: sessions,
	}))

	r.Post("/signup", authHandler.Signup)
	r.Get("/check_session", authHandler.CheckSession)
	r.Post("/login", authHandler.Login)
	r.Delete("/logout", authHandler.Logout)
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", recipeHandler.List)
		r.Post("/", recipeHandler.Create)
	})
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return &testEnv{
		router:   r,
		users:    users,
		recipes:  recipes,
		sessions: sessions,
	}
}

// do performs a request against the router, attaching any cookies.
func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session cookie set by a response, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	return nil
}

// decodeBody decodes a JSON response body into a map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

// signup registers a user and returns its session cookie.
func (e *testEnv) signup(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/signup", map[string]any{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup for %q: expected 201, got %d (%s)", username, rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("signup for %q did not set a session cookie", username)
	}
	return cookie
}
