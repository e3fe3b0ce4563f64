package entities

import "time"

// User represents a user entity in the database
type User struct {
	ID           string    `json:"id"` // UUID
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Don't expose password hash in JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the fields of a partial user update. Nil fields are left untouched.
// PasswordHash must already be hashed.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}
