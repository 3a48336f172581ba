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

// RecipeHandler handles recipe list/create endpoints.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /recipes.
// Returns only the authenticated user's recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recipes, err := h.svc.ListRecipes(r.Context(), userID)
	if err != nil {
		h.logger.Error("list recipes failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeListResponse(recipes))
}

// Create handles POST /recipes.
// The recipe is owned by the session user.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusUnprocessableEntity,
			"missing required field(s): "+strings.Join(missing, ", "))
		return
	}

	recipe, err := h.svc.CreateRecipe(r.Context(), service.CreateRecipeInput{
		Title:             req.Title,
		Instructions:      req.Instructions,
		MinutesToComplete: req.MinutesToComplete,
		OwnerID:           userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRecipeFields),
			errors.Is(err, service.ErrInstructionsTooShort):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("create recipe failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	h.logger.Info("recipe created",
		slog.Int64("recipe_id", recipe.ID),
		slog.Int64("user_id", userID),
	)

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}
