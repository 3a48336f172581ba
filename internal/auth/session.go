package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// ErrInvalidSession indicates a missing, malformed, expired or
// wrongly-signed session token.
var ErrInvalidSession = errors.New("invalid session")

// sessionClaims are the claims carried by a session token.
// Subject holds the user id, ID is a per-session ULID.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// Sessions issues and verifies signed session tokens carried in an
// HttpOnly cookie. The server keeps no session state; expiry is enforced
// by the token itself and the cookie Max-Age.
type Sessions struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewSessions creates a session manager.
// secure controls the cookie Secure flag (off for local development).
func NewSessions(secret []byte, ttl time.Duration, cookieName string, secure bool) *Sessions {
	return &Sessions{
		secret:     secret,
		ttl:        ttl,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Issue creates a signed session token for the given user id.
func (s *Sessions) Issue(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns the user id it carries.
func (s *Sessions) Parse(tokenString string) (int64, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidSession
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidSession
	}

	return userID, nil
}

// SetCookie writes the session cookie on the response.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the response.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadCookie extracts the session token from the request, if present.
func (s *Sessions) ReadCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
