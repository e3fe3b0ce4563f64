package models

import (
	"time"

	"dishes-be/internal/entities"
)

// LikeResponse is the like aggregate with likers resolved to users.
type LikeResponse struct {
	Total int            `json:"total"`
	Users []UserResponse `json:"users"`
}

// CommentResponse is a comment with its author resolved; User is nil when
// the author no longer exists.
type CommentResponse struct {
	User        *UserResponse `json:"user"`
	Note        float64       `json:"note"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"created_at"`
}

// DishResponse is a dish with every user reference resolved.
type DishResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Ingredients []entities.Ingredient `json:"ingredients"`
	User        *UserResponse         `json:"user"`
	Like        LikeResponse          `json:"like"`
	Comments    []CommentResponse     `json:"comments"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewDishResponse resolves the references of d against users, keyed by
// normalised id. References missing from users resolve as absent.
func NewDishResponse(d *entities.Dish, users map[string]UserResponse) *DishResponse {
	resolve := func(id string) *UserResponse {
		u, ok := users[entities.NormalizeID(id)]
		if !ok {
			return nil
		}
		return &u
	}

	resp := &DishResponse{
		ID:          d.ID,
		Name:        d.Name,
		Ingredients: append([]entities.Ingredient{}, d.Ingredients...),
		User:        resolve(d.UserID),
		Like: LikeResponse{
			Total: d.Like.Total,
			Users: make([]UserResponse, 0, len(d.Like.Users)),
		},
		Comments:  make([]CommentResponse, 0, len(d.Comments)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}

	for _, id := range d.Like.Users {
		if u := resolve(id); u != nil {
			resp.Like.Users = append(resp.Like.Users, *u)
		}
	}
	for _, c := range d.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			User:        resolve(c.UserID),
			Note:        c.Note,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		})
	}
	return resp
}
