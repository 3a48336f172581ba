// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account.
// PasswordHash is never serialized; API responses go through dto projections.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	ImageURL     *string   `json:"image_url"`
	Bio          *string   `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
}
