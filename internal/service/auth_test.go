package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ladle/ladle/internal/auth"
	"github.com/ladle/ladle/internal/metrics"
	"github.com/ladle/ladle/internal/model"
	"github.com/ladle/ladle/internal/repository"
)

// fakeUserStore is an in-memory UserStore for tests.
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
	copy := *user
	return &copy, nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byName[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copy := *user
	return &copy, nil
}

// fakeUserCache is an in-memory UserCache for tests.
type fakeUserCache struct {
	users map[int64]*model.User
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{users: make(map[int64]*model.User)}
}

func (f *fakeUserCache) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (f *fakeUserCache) SetUser(ctx context.Context, user *model.User) error {
	projection := &model.User{
		ID:       user.ID,
		Username: user.Username,
		ImageURL: user.ImageURL,
		Bio:      user.Bio,
	}
	f.users[user.ID] = projection
	return nil
}

func newTestAuthService(t *testing.T, store UserStore, cache UserCache, recorder metrics.Recorder) *AuthService {
	t.Helper()
	svc, err := NewAuthService(store, cache, recorder)
	if err != nil {
		t.Fatalf("NewAuthService failed: %v", err)
	}
	return svc
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	recorder := metrics.NewInMemory()
	svc := newTestAuthService(t, store, nil, recorder)

	bio := "brews tea"
	user, err := svc.Signup(ctx, SignupInput{
		Username: "ada",
		Password: "secret1",
		Bio:      &bio,
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if user.ID == 0 {
		t.Error("expected an assigned user id")
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Error("password must be stored as a hash, never plaintext")
	}

	match, err := auth.VerifyPassword("secret1", user.PasswordHash)
	if err != nil || !match {
		t.Errorf("stored hash should verify the original password: match=%v err=%v", match, err)
	}

	if got := recorder.Snapshot().SignupsCreated; got != 1 {
		t.Errorf("expected 1 created signup recorded, got %d", got)
	}
}

func TestAuthService_Signup_MissingCredentials(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := newTestAuthService(t, store, nil, nil)

	cases := []SignupInput{
		{Username: "", Password: "secret1"},
		{Username: "ada", Password: ""},
		{},
	}

	for _, input := range cases {
		if _, err := svc.Signup(ctx, input); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("Signup(%+v): expected ErrMissingCredentials, got %v", input, err)
		}
	}

	if len(store.byID) != 0 {
		t.Error("no user should be created for invalid input")
	}
}

func TestAuthService_Signup_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	recorder := metrics.NewInMemory()
	svc := newTestAuthService(t, store, nil, recorder)

	original, err := svc.Signup(ctx, SignupInput{Username: "ada", Password: "secret1"})
	if err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}

	_, err = svc.Signup(ctx, SignupInput{Username: "ada", Password: "other-password"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// The original account must be untouched
	kept, err := store.GetUserByUsername(ctx, "ada")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if kept.ID != original.ID || kept.PasswordHash != original.PasswordHash {
		t.Error("duplicate signup must not modify the existing user")
	}

	if got := recorder.Snapshot().SignupsConflict; got != 1 {
		t.Errorf("expected 1 conflict recorded, got %d", got)
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := newTestAuthService(t, store, nil, nil)

	created, err := svc.Signup(ctx, SignupInput{Username: "ada", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	user, err := svc.Login(ctx, "ada", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("expected user id %d, got %d", created.ID, user.ID)
	}
}

func TestAuthService_Login_NonEnumeration(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	recorder := metrics.NewInMemory()
	svc := newTestAuthService(t, store, nil, recorder)

	if _, err := svc.Signup(ctx, SignupInput{Username: "ada", Password: "secret1"}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// Wrong password for a known user and any password for an unknown
	// user must fail identically.
	_, wrongPw := svc.Login(ctx, "ada", "not-the-password")
	_, unknown := svc.Login(ctx, "nobody", "whatever")

	if !errors.Is(wrongPw, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", unknown)
	}

	if got := recorder.Snapshot().LoginsFailure; got != 2 {
		t.Errorf("expected 2 login failures recorded, got %d", got)
	}
}

func TestAuthService_GetUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	cache := newFakeUserCache()
	recorder := metrics.NewInMemory()
	svc := newTestAuthService(t, store, cache, recorder)

	store.nextID = 10
	if err := store.CreateUser(ctx, &model.User{Username: "ada", PasswordHash: "x"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// First lookup misses the cache and populates it
	user, err := svc.GetUser(ctx, 11)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user.Username != "ada" {
		t.Errorf("unexpected username %q", user.Username)
	}

	// Second lookup is served from the cache
	if _, err := svc.GetUser(ctx, 11); err != nil {
		t.Fatalf("GetUser (cached) failed: %v", err)
	}

	snap := recorder.Snapshot()
	if snap.SessionCacheMiss != 1 {
		t.Errorf("expected 1 cache miss, got %d", snap.SessionCacheMiss)
	}
	if snap.SessionCacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", snap.SessionCacheHits)
	}
}

func TestAuthService_GetUser_StaleSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := newTestAuthService(t, store, nil, nil)

	if _, err := svc.GetUser(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound for a missing user, got %v", err)
	}
}

func TestAuthService_GetUser_StoreError(t *testing.T) {
	ctx := context.Background()
	store := newFakeUserStore()
	svc := newTestAuthService(t, store, nil, nil)

	store.err = errors.New("connection refused")

	_, err := svc.GetUser(ctx, 1)
	if err == nil || errors.Is(err, ErrUserNotFound) {
		t.Errorf("store failure should propagate as an opaque error, got %v", err)
	}
}
