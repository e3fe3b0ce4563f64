package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"dishes-be/internal/apperrors"
)

// Postgres error codes the repositories translate.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// dbError wraps a driver fault so callers can tell it apart from domain errors.
func dbError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, apperrors.ErrInfrastructure, err)
}

// txError passes through errors already classified inside a transaction and
// wraps begin/commit failures as infrastructure faults.
func txError(op string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrInfrastructure) {
		return err
	}
	return dbError(op, err)
}
