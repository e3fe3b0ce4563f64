package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/database"
	"dishes-be/internal/entities"
)

const dishColumns = `id, name, ingredients, user_id, like_total, like_users, comments, created_at, updated_at`

// DishRepository defines the interface for dish database operations
type DishRepository interface {
	Create(ctx context.Context, dish *entities.Dish) (*entities.Dish, error)
	FindAll(ctx context.Context) ([]*entities.Dish, error)
	FindByID(ctx context.Context, id string) (*entities.Dish, error)
	FindByUserID(ctx context.Context, userID string) ([]*entities.Dish, error)
	FindLikedByUser(ctx context.Context, userID string) ([]*entities.Dish, error)
	Update(ctx context.Context, dish *entities.Dish) (*entities.Dish, error)
	Delete(ctx context.Context, id string) (*entities.Dish, error)
	// UpdateLike locks the dish row, lets fn mutate its like aggregate and
	// writes the result back, all in one transaction.
	UpdateLike(ctx context.Context, id string, fn func(like *entities.Like)) (*entities.Dish, error)
	AppendComment(ctx context.Context, id string, comment entities.Comment) (*entities.Dish, error)
}

type dishRepository struct {
	db *sql.DB
}

// NewDishRepository creates a new dish repository
func NewDishRepository(db *sql.DB) DishRepository {
	return &dishRepository{db: db}
}

func scanDish(row rowScanner) (*entities.Dish, error) {
	var dish entities.Dish
	err := row.Scan(
		&dish.ID,
		&dish.Name,
		&dish.Ingredients,
		&dish.UserID,
		&dish.Like.Total,
		pq.Array(&dish.Like.Users),
		&dish.Comments,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dish.Like.Users == nil {
		dish.Like.Users = []string{}
	}
	if dish.Ingredients == nil {
		dish.Ingredients = entities.Ingredients{}
	}
	if dish.Comments == nil {
		dish.Comments = entities.Comments{}
	}
	return &dish, nil
}

// writeError classifies errors from statements that write user references.
func writeError(op string, err error) error {
	if pqCode(err) == pqForeignKeyViolation {
		return fmt.Errorf("dish owner does not exist: %w", apperrors.ErrValidation)
	}
	return dbError(op, err)
}

// Create inserts a new dish into the database
func (r *dishRepository) Create(ctx context.Context, dish *entities.Dish) (*entities.Dish, error) {
	query := `
		INSERT INTO dishes (name, ingredients, user_id, like_total, like_users, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + dishColumns

	created, err := scanDish(r.db.QueryRowContext(ctx, query,
		dish.Name,
		dish.Ingredients,
		dish.UserID,
		dish.Like.Total,
		pq.Array(dish.Like.Users),
		dish.Comments,
	))
	if err != nil {
		return nil, writeError("create dish", err)
	}

	return created, nil
}

// FindAll retrieves every dish, newest first
func (r *dishRepository) FindAll(ctx context.Context) ([]*entities.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes ORDER BY created_at DESC`
	return r.queryDishes(ctx, query)
}

// FindByUserID retrieves the dishes owned by a user
func (r *dishRepository) FindByUserID(ctx context.Context, userID string) ([]*entities.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryDishes(ctx, query, userID)
}

// FindLikedByUser retrieves the dishes whose like set contains userID
func (r *dishRepository) FindLikedByUser(ctx context.Context, userID string) ([]*entities.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE $1 = ANY(like_users) ORDER BY created_at DESC`
	return r.queryDishes(ctx, query, entities.NormalizeID(userID))
}

func (r *dishRepository) queryDishes(ctx context.Context, query string, args ...any) ([]*entities.Dish, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("get dishes", err)
	}
	defer rows.Close()

	dishes := []*entities.Dish{}
	for rows.Next() {
		dish, err := scanDish(rows)
		if err != nil {
			return nil, dbError("scan dish", err)
		}
		dishes = append(dishes, dish)
	}

	if err = rows.Err(); err != nil {
		return nil, dbError("iterate dishes", err)
	}

	return dishes, nil
}

// FindByID finds a dish by ID (UUID)
func (r *dishRepository) FindByID(ctx context.Context, id string) (*entities.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	dish, err := scanDish(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dish %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("find dish", err)
	}

	return dish, nil
}

// Update overwrites every mutable field of the stored dish with the given values
func (r *dishRepository) Update(ctx context.Context, dish *entities.Dish) (*entities.Dish, error) {
	query := `
		UPDATE dishes
		SET name = $2,
		    ingredients = $3,
		    user_id = $4,
		    like_total = $5,
		    like_users = $6,
		    comments = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + dishColumns

	updated, err := scanDish(r.db.QueryRowContext(ctx, query,
		dish.ID,
		dish.Name,
		dish.Ingredients,
		dish.UserID,
		dish.Like.Total,
		pq.Array(dish.Like.Users),
		dish.Comments,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dish %s: %w", dish.ID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, writeError("update dish", err)
	}

	return updated, nil
}

// Delete removes a dish and returns it
func (r *dishRepository) Delete(ctx context.Context, id string) (*entities.Dish, error) {
	query := `DELETE FROM dishes WHERE id = $1 RETURNING ` + dishColumns

	dish, err := scanDish(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dish %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("delete dish", err)
	}

	return dish, nil
}

func (r *dishRepository) UpdateLike(ctx context.Context, id string, fn func(like *entities.Like)) (*entities.Dish, error) {
	var updated *entities.Dish

	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		dish, err := scanDish(tx.QueryRowContext(ctx,
			`SELECT `+dishColumns+` FROM dishes WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("dish %s: %w", id, apperrors.ErrNotFound)
		}
		if err != nil {
			return dbError("lock dish", err)
		}

		fn(&dish.Like)

		updated, err = scanDish(tx.QueryRowContext(ctx, `
			UPDATE dishes
			SET like_total = $2,
			    like_users = $3,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+dishColumns,
			id, dish.Like.Total, pq.Array(dish.Like.Users)))
		if err != nil {
			return dbError("update dish likes", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("update dish likes", err)
	}

	return updated, nil
}

// AppendComment appends one comment to the dish's JSONB comment array atomically
func (r *dishRepository) AppendComment(ctx context.Context, id string, comment entities.Comment) (*entities.Dish, error) {
	query := `
		UPDATE dishes
		SET comments = comments || $2::jsonb,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + dishColumns

	dish, err := scanDish(r.db.QueryRowContext(ctx, query, id, entities.Comments{comment}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dish %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("append comment", err)
	}

	return dish, nil
}
