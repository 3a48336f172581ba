package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ladle/ladle/internal/auth"
)

// SessionConfig holds dependencies for the Session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Sessions *auth.Sessions
}

// Session reads the session cookie and, when it carries a valid token,
// puts the authenticated user id on the request context. Requests with
// no cookie or an invalid token pass through unauthenticated; each
// handler decides whether that is a 401.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := cfg.Sessions.ReadCookie(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := cfg.Sessions.Parse(token)
			if err != nil {
				cfg.Logger.Debug("rejected session token",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
