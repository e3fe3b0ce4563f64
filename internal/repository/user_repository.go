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

// userColumns never includes password_hash; only FindByUsername reads it.
const userColumns = `id, username, email, created_at, updated_at`

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(ctx context.Context, username, email, passwordHash string) (*entities.User, error)
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error)
	FindAll(ctx context.Context) ([]*entities.User, error)
	Update(ctx context.Context, id string, patch entities.UserPatch) (*entities.User, error)
	Delete(ctx context.Context, id string) (*entities.User, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, username, email, passwordHash string) (*entities.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username, email, passwordHash))
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return nil, fmt.Errorf("username %q already exists: %w", username, apperrors.ErrConflict)
		}
		return nil, dbError("create user", err)
	}

	return user, nil
}

// FindByUsername finds a user by username, including the password hash
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var user entities.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("find user", err)
	}

	return &user, nil
}

// FindByID finds a user by ID (UUID)
func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("find user", err)
	}

	return user, nil
}

// FindByIDs returns the users among ids that exist. Ids that are not UUIDs are skipped.
func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if entities.IsValidID(id) {
			valid = append(valid, entities.NormalizeID(id))
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`
	return r.queryUsers(ctx, query, pq.Array(valid))
}

// FindAll retrieves every user, oldest first
func (r *userRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	return r.queryUsers(ctx, query)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*entities.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError("get users", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dbError("scan user", err)
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, dbError("iterate users", err)
	}

	return users, nil
}

// Update applies a partial update; nil patch fields keep their stored value
func (r *userRepository) Update(ctx context.Context, id string, patch entities.UserPatch) (*entities.User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    password_hash = COALESCE($4, password_hash),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, patch.Username, patch.Email, patch.PasswordHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return nil, fmt.Errorf("username already exists: %w", apperrors.ErrConflict)
		}
		return nil, dbError("update user", err)
	}

	return user, nil
}

// Delete removes a user. Dishes they own go with them (ON DELETE CASCADE) and
// their id is pulled from every like set in the same transaction.
func (r *userRepository) Delete(ctx context.Context, id string) (*entities.User, error) {
	var deleted *entities.User

	err := database.WithTx(ctx, r.db, func(ctx context.Context, tx database.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE dishes
			SET like_users = array_remove(like_users, $1),
			    like_total = cardinality(array_remove(like_users, $1)),
			    updated_at = NOW()
			WHERE $1 = ANY(like_users)
		`, entities.NormalizeID(id))
		if err != nil {
			return dbError("remove user likes", err)
		}

		deleted, err = scanUser(tx.QueryRowContext(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		if err != nil {
			return dbError("delete user", err)
		}
		return nil
	})
	if err != nil {
		return nil, txError("delete user", err)
	}

	return deleted, nil
}
