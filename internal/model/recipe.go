package model

import "time"

// Recipe represents a recipe owned by exactly one user.
type Recipe struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Instructions      string    `json:"instructions"`
	MinutesToComplete int       `json:"minutes_to_complete"`
	UserID            int64     `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
}
