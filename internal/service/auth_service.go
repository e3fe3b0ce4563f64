package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/entities"
	"dishes-be/internal/hash"
	"dishes-be/internal/jwt"
	"dishes-be/internal/models"
	"dishes-be/internal/repository"
)

//go:generate mockgen -destination=mocks/auth_service_mock.go -package=mocks dishes-be/internal/service AuthService

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error)
	// ValidateCredentials returns the matching user, or nil when the username
	// is unknown or the password does not match. Only storage faults are errors.
	ValidateCredentials(ctx context.Context, username, password string) (*entities.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     hash.PasswordHasher
	jwtService *jwt.JWTService
	log        logrus.FieldLogger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, hasher hash.PasswordHasher, jwtService *jwt.JWTService, log logrus.FieldLogger) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		log:        log,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "username, email and password are required")
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return nil, errors.Wrapf(apperrors.ErrConflict, "username %q is already taken", username)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		return nil, errors.Wrap(err, "failed to check username")
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, apperrors.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	// The unique index still wins a race between two registrations.
	user, err := s.userRepo.Create(ctx, username, email, passwordHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, errors.Wrapf(err, "username %q is already taken", username)
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	s.log.WithField("user_id", user.ID).Info("user registered")

	return &models.RegisterResponse{
		Message: "User registered successfully",
		User:    models.NewUserResponse(user),
	}, nil
}

func (s *authService) ValidateCredentials(ctx context.Context, username, password string) (*entities.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up user")
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		// A corrupt stored hash is logged but treated as a mismatch.
		s.log.WithField("user_id", user.ID).WithError(err).Warn("password hash comparison failed")
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	return user, nil
}

// Login authenticates a user and returns a bearer token with the user
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "invalid username or password")
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")

	return &models.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		User:      models.NewUserResponse(user),
	}, nil
}
