package dto

import "github.com/ladle/ladle/internal/model"

// CreateRecipeRequest represents the request body for creating a recipe.
type CreateRecipeRequest struct {
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
}

// MissingFields returns the names of required fields that are absent.
// minutes_to_complete must be a positive integer to count as present.
func (r *CreateRecipeRequest) MissingFields() []string {
	var missing []string
	if r.Title == "" {
		missing = append(missing, "title")
	}
	if r.Instructions == "" {
		missing = append(missing, "instructions")
	}
	if r.MinutesToComplete <= 0 {
		missing = append(missing, "minutes_to_complete")
	}
	return missing
}

// RecipeResponse represents a recipe in API responses.
type RecipeResponse struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Instructions      string `json:"instructions"`
	MinutesToComplete int    `json:"minutes_to_complete"`
	UserID            int64  `json:"user_id"`
}

// ToRecipeResponse converts a Recipe model to RecipeResponse DTO.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	return &RecipeResponse{
		ID:                recipe.ID,
		Title:             recipe.Title,
		Instructions:      recipe.Instructions,
		MinutesToComplete: recipe.MinutesToComplete,
		UserID:            recipe.UserID,
	}
}

// ToRecipeListResponse converts recipes to a response slice, never nil.
func ToRecipeListResponse(recipes []*model.Recipe) []*RecipeResponse {
	responses := make([]*RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, ToRecipeResponse(recipe))
	}
	return responses
}
