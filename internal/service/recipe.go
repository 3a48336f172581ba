package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ladle/ladle/internal/metrics"
	"github.com/ladle/ladle/internal/model"
)

// Recipe service errors.
var (
	ErrMissingRecipeFields  = errors.New("title, instructions and minutes_to_complete are required")
	ErrInstructionsTooShort = errors.New("instructions must be at least 50 characters")
)

// minInstructionsLength is the minimum instructions content length.
const minInstructionsLength = 50

// RecipeStore is the persistence contract the recipe service depends on.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	ListRecipesByOwner(ctx context.Context, userID int64) ([]*model.Recipe, error)
}

// RecipeService handles recipe creation and listing.
type RecipeService struct {
	recipes RecipeStore
	metrics metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipes RecipeStore, recorder metrics.Recorder) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecipeService{
		recipes: recipes,
		metrics: recorder,
	}
}

// CreateRecipeInput defines input for creating a recipe.
type CreateRecipeInput struct {
	Title             string
	Instructions      string
	MinutesToComplete int
	OwnerID           int64
}

// CreateRecipe validates the input and persists a recipe owned by OwnerID.
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	if input.Title == "" || input.Instructions == "" || input.MinutesToComplete <= 0 {
		return nil, ErrMissingRecipeFields
	}

	if len(input.Instructions) < minInstructionsLength {
		return nil, ErrInstructionsTooShort
	}

	recipe := &model.Recipe{
		Title:             input.Title,
		Instructions:      input.Instructions,
		MinutesToComplete: input.MinutesToComplete,
		UserID:            input.OwnerID,
	}

	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.metrics.IncRecipeCreated()

	return recipe, nil
}

// ListRecipes returns all recipes owned by the given user, never nil.
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID int64) ([]*model.Recipe, error) {
	recipes, err := s.recipes.ListRecipesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	if recipes == nil {
		recipes = []*model.Recipe{}
	}

	return recipes, nil
}
