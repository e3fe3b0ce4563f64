package models

import "time"

// IngredientRequest is one ingredient line of a dish.
type IngredientRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
	Unit     string  `json:"unit" binding:"required"`
}

// LikeRequest mirrors the like aggregate. Total is accepted for compatibility
// but always recomputed from Users.
type LikeRequest struct {
	Total int      `json:"total"`
	Users []string `json:"users"`
}

// CommentRequest is a comment as supplied in a full dish update.
type CommentRequest struct {
	User        string     `json:"user" binding:"required"`
	Note        float64    `json:"note" binding:"gte=0,lte=5"`
	Description string     `json:"description" binding:"required"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// CreateDishRequest represents the request body for creating a dish.
// Like and Comments are accepted but ignored: new dishes always start empty.
type CreateDishRequest struct {
	Name        string              `json:"name" binding:"required"`
	Ingredients []IngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
	Like        *LikeRequest        `json:"like,omitempty"`
	Comments    []CommentRequest    `json:"comments,omitempty"`
}

// UpdateDishRequest replaces every field it carries; absent fields are kept.
// Nested values are validated by the dish service.
type UpdateDishRequest struct {
	Name        *string              `json:"name,omitempty"`
	Ingredients *[]IngredientRequest `json:"ingredients,omitempty"`
	User        *string              `json:"user,omitempty"`
	Like        *LikeRequest         `json:"like,omitempty"`
	Comments    *[]CommentRequest    `json:"comments,omitempty"`
}

// AddCommentRequest represents the request body for commenting on a dish.
type AddCommentRequest struct {
	Note        float64 `json:"note" binding:"gte=0,lte=5"`
	Description string  `json:"description" binding:"required,max=2000"`
}
