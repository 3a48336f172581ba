// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ladle/ladle/internal/auth"
	"github.com/ladle/ladle/internal/metrics"
	"github.com/ladle/ladle/internal/model"
	"github.com/ladle/ladle/internal/repository"
)

// Auth service errors.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore is the persistence contract the auth service depends on.
// *repository.Repository satisfies it; tests supply in-memory fakes.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// UserCache caches the serializable user projection.
// GetUser returns (nil, nil) on a cache miss.
type UserCache interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
}

// AuthService handles signup, login and session user lookup.
type AuthService struct {
	users     UserStore
	cache     UserCache
	metrics   metrics.Recorder
	dummyHash string
}

// NewAuthService creates a new AuthService.
// cache may be nil to disable the user projection cache.
func NewAuthService(users UserStore, cache UserCache, recorder metrics.Recorder) (*AuthService, error) {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	// Precomputed hash verified on the unknown-username login path so
	// response timing does not reveal whether a username exists.
	dummyHash, err := auth.HashPassword("ladle-dummy-credential")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		cache:     cache,
		metrics:   recorder,
		dummyHash: dummyHash,
	}, nil
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Username string
	Password string
	ImageURL *string
	Bio      *string
}

// Signup hashes the password, creates the user and returns it.
// A duplicate username is reported as ErrUsernameTaken.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	if input.Username == "" || input.Password == "" {
		s.metrics.IncSignup(metrics.SignupInvalid)
		return nil, ErrMissingCredentials
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		PasswordHash: hash,
		ImageURL:     input.ImageURL,
		Bio:          input.Bio,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			s.metrics.IncSignup(metrics.SignupConflict)
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.cacheUser(ctx, user)
	s.metrics.IncSignup(metrics.SignupCreated)

	return user, nil
}

// Login verifies the credentials and returns the user.
// Unknown username and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn the same hashing cost as the known-user path.
			_, _ = auth.VerifyPassword(password, s.dummyHash)
			s.metrics.IncLogin(metrics.LoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	s.cacheUser(ctx, user)
	s.metrics.IncLogin(metrics.LoginSuccess)

	return user, nil
}

// GetUser returns the user for an authenticated session id, consulting
// the cache before the store. A missing row (stale session) is reported
// as ErrUserNotFound; any other store failure propagates.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetUser(ctx, id); err == nil && cached != nil {
			s.metrics.IncSessionCacheHit()
			return cached, nil
		}
		s.metrics.IncSessionCacheMiss()
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	s.cacheUser(ctx, user)

	return user, nil
}

// cacheUser stores the user projection best-effort; the cache is an
// optimization, not a source of truth.
func (s *AuthService) cacheUser(ctx context.Context, user *model.User) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetUser(ctx, user)
}
