package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ladle/ladle/internal/auth"
	"github.com/ladle/ladle/internal/handler/dto"
	"github.com/ladle/ladle/internal/service"
)

// AuthHandler handles signup, session and login endpoints.
type AuthHandler struct {
	svc      *service.AuthService
	sessions *auth.Sessions
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions *auth.Sessions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:      svc,
		sessions: sessions,
		logger:   logger,
	}
}

// Signup handles POST /signup.
// Creates the account, establishes a session and returns the user.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusUnprocessableEntity,
			"missing required field(s): "+strings.Join(missing, ", "))
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Password: req.Password,
		ImageURL: req.ImageURL,
		Bio:      req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusUnprocessableEntity, "422")
		case errors.Is(err, service.ErrMissingCredentials):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("signup failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !h.establishSession(w, user.ID) {
		return
	}

	h.logger.Info("user signed up",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// CheckSession handles GET /check_session.
// Returns the user behind the current session cookie.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Stale session: the token outlived the account row.
			h.sessions.ClearCookie(w)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.logger.Error("check session failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Login handles POST /login.
// The failure response never distinguishes an unknown username from a
// wrong password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !h.establishSession(w, user.ID) {
		return
	}

	h.logger.Info("user logged in", slog.Int64("user_id", user.ID))

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Logout handles DELETE /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.sessions.ClearCookie(w)

	h.logger.Info("user logged out", slog.Int64("user_id", userID))

	w.WriteHeader(http.StatusNoContent)
}

// establishSession issues a session token and sets the cookie.
// Writes a 500 response and returns false on failure.
func (h *AuthHandler) establishSession(w http.ResponseWriter, userID int64) bool {
	token, err := h.sessions.Issue(userID)
	if err != nil {
		h.logger.Error("failed to issue session token",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Database error")
		return false
	}
	h.sessions.SetCookie(w, token)
	return true
}
