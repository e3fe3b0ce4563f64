package models

import "time"

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token     string       `json:"access_token"` // JWT token
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// RegisterResponse represents the response after user registration
type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
