package repository

import (
	"context"
	"fmt"

	"github.com/ladle/ladle/internal/model"
)

// CreateRecipe inserts a new recipe and fills in its assigned id.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		INSERT INTO recipes (title, instructions, minutes_to_complete, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		recipe.Title,
		recipe.Instructions,
		recipe.MinutesToComplete,
		recipe.UserID,
	).Scan(&recipe.ID, &recipe.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// ListRecipesByOwner retrieves all recipes owned by a user, newest first.
func (r *Repository) ListRecipesByOwner(ctx context.Context, userID int64) ([]*model.Recipe, error) {
	query := `
		SELECT id, title, instructions, minutes_to_complete, user_id, created_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		var recipe model.Recipe
		err := rows.Scan(
			&recipe.ID,
			&recipe.Title,
			&recipe.Instructions,
			&recipe.MinutesToComplete,
			&recipe.UserID,
			&recipe.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, &recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}
