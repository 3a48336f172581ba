// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/ladle/ladle/internal/model"

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	ImageURL *string `json:"image_url,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// MissingFields returns the names of required fields that are absent.
func (r *SignupRequest) MissingFields() []string {
	var missing []string
	if r.Username == "" {
		missing = append(missing, "username")
	}
	if r.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
// The password hash has no field here and can never leak.
type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		ImageURL: user.ImageURL,
		Bio:      user.Bio,
	}
}
