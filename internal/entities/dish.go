package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Ingredient is an embedded value of a dish; it has no identity of its own.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Comment is an embedded, append-only value of a dish.
type Comment struct {
	UserID      string    `json:"user"` // author reference
	Note        float64   `json:"note"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ingredients is stored as a JSONB column.
type Ingredients []Ingredient

// Comments is stored as a JSONB column.
type Comments []Comment

// Dish represents a dish aggregate in the database
type Dish struct {
	ID          string      `json:"id"` // UUID
	Name        string      `json:"name"`
	Ingredients Ingredients `json:"ingredients"`
	UserID      string      `json:"user"` // owner reference
	Like        Like        `json:"like"`
	Comments    Comments    `json:"comments"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewDish builds a dish owned by ownerID. Like and comments always start empty;
// nothing the client sends for them is ever copied in.
func NewDish(name string, ingredients []Ingredient, ownerID string) *Dish {
	items := make(Ingredients, len(ingredients))
	copy(items, ingredients)
	return &Dish{
		Name:        name,
		Ingredients: items,
		UserID:      NormalizeID(ownerID),
		Like:        Like{Total: 0, Users: []string{}},
		Comments:    Comments{},
	}
}

// UserRefs returns every user id the dish references (owner, likers, comment
// authors), normalised and without duplicates, owner first.
func (d *Dish) UserRefs() []string {
	seen := make(map[string]struct{})
	var refs []string
	add := func(id string) {
		id = NormalizeID(id)
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		refs = append(refs, id)
	}

	add(d.UserID)
	for _, id := range d.Like.Users {
		add(id)
	}
	for _, c := range d.Comments {
		add(c.UserID)
	}
	return refs
}

// Value implements driver.Valuer.
func (i Ingredients) Value() (driver.Value, error) {
	if i == nil {
		i = Ingredients{}
	}
	return marshalJSON(i)
}

// Scan implements sql.Scanner.
func (i *Ingredients) Scan(src any) error {
	return scanJSON(src, i)
}

// Value implements driver.Valuer.
func (c Comments) Value() (driver.Value, error) {
	if c == nil {
		c = Comments{}
	}
	return marshalJSON(c)
}

// Scan implements sql.Scanner.
func (c *Comments) Scan(src any) error {
	return scanJSON(src, c)
}

// marshalJSON returns text so the driver sends it as json, not bytea.
func marshalJSON(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSONB column: %w", err)
	}
	return string(b), nil
}

func scanJSON(src any, dest any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		data = []byte("[]")
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", src)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode JSONB column: %w", err)
	}
	return nil
}
