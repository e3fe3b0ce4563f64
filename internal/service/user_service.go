package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/cache"
	"dishes-be/internal/entities"
	"dishes-be/internal/hash"
	"dishes-be/internal/models"
	"dishes-be/internal/repository"
)

//go:generate mockgen -destination=mocks/user_service_mock.go -package=mocks dishes-be/internal/service UserService

// UserService defines the interface for user business logic. Every user it
// returns is sanitized.
type UserService interface {
	ListUsers(ctx context.Context) ([]models.UserResponse, error)
	GetUser(ctx context.Context, id string) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, actorID, id string, req *models.UpdateUserRequest) (*models.UserResponse, error)
	DeleteUser(ctx context.Context, actorID, id string) (*models.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	dishRepo repository.DishRepository
	hasher   hash.PasswordHasher
	cache    cache.Cache
	log      logrus.FieldLogger
}

// NewUserService creates a new user service. cacheClient may be nil.
func NewUserService(userRepo repository.UserRepository, dishRepo repository.DishRepository, hasher hash.PasswordHasher, cacheClient cache.Cache, log logrus.FieldLogger) UserService {
	return &userService{
		userRepo: userRepo,
		dishRepo: dishRepo,
		hasher:   hasher,
		cache:    cacheClient,
		log:      log,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	resp := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, models.NewUserResponse(u))
	}
	return resp, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.UserResponse, error) {
	if !entities.IsValidID(id) {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "user %s", id)
	}

	user, err := s.userRepo.FindByID(ctx, entities.NormalizeID(id))
	if err != nil {
		return nil, err
	}

	resp := models.NewUserResponse(user)
	return &resp, nil
}

// UpdateUser applies the fields present in req. A new password is hashed
// before it reaches the repository.
func (s *userService) UpdateUser(ctx context.Context, actorID, id string, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	id, err := s.authorizeSelf(actorID, id)
	if err != nil {
		return nil, err
	}

	var patch entities.UserPatch
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, errors.Wrap(apperrors.ErrValidation, "username must not be empty")
		}
		patch.Username = &username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return nil, errors.Wrap(apperrors.ErrValidation, "email must not be empty")
		}
		patch.Email = &email
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, errors.Wrap(apperrors.ErrValidation, "password must not be empty")
		}
		hashed, err := s.hasher.Hash(*req.Password)
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		patch.PasswordHash = &hashed
	}

	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", id).Info("user updated")

	resp := models.NewUserResponse(user)
	return &resp, nil
}

// DeleteUser removes the user. Owned dishes go with it and the user is
// pulled from every like set; comments stay with an unresolvable author.
func (s *userService) DeleteUser(ctx context.Context, actorID, id string) (*models.UserResponse, error) {
	id, err := s.authorizeSelf(actorID, id)
	if err != nil {
		return nil, err
	}

	stale := s.affectedDishKeys(ctx, id)

	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, s.log, stale...)
	s.log.WithFields(logrus.Fields{"user_id": id, "dishes_invalidated": len(stale)}).Info("user deleted")

	resp := models.NewUserResponse(user)
	return &resp, nil
}

// authorizeSelf returns the normalised target id when actorID may modify it.
func (s *userService) authorizeSelf(actorID, id string) (string, error) {
	if !entities.IsValidID(id) {
		return "", errors.Wrapf(apperrors.ErrNotFound, "user %s", id)
	}
	id = entities.NormalizeID(id)
	if entities.NormalizeID(actorID) != id {
		return "", errors.Wrap(apperrors.ErrForbidden, "users can only modify their own account")
	}
	return id, nil
}

// affectedDishKeys lists the cache keys of dishes a user deletion rewrites.
// Lookup failures only cost cache freshness, so they are logged and skipped.
func (s *userService) affectedDishKeys(ctx context.Context, userID string) []string {
	if s.cache == nil {
		return nil
	}

	var keys []string
	owned, err := s.dishRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.log.WithError(err).Warn("failed to list owned dishes for cache invalidation")
	}
	liked, err := s.dishRepo.FindLikedByUser(ctx, userID)
	if err != nil {
		s.log.WithError(err).Warn("failed to list liked dishes for cache invalidation")
	}
	for _, d := range append(owned, liked...) {
		keys = append(keys, dishCacheKey(d.ID))
	}
	return keys
}
