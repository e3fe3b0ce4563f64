package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/cache"
	"dishes-be/internal/entities"
	"dishes-be/internal/models"
	"dishes-be/internal/repository"
)

//go:generate mockgen -destination=mocks/dish_service_mock.go -package=mocks dishes-be/internal/service DishService

// DishService defines the interface for dish business logic. Every dish it
// returns has its user references resolved.
type DishService interface {
	CreateDish(ctx context.Context, ownerID string, req *models.CreateDishRequest) (*models.DishResponse, error)
	ListDishes(ctx context.Context) ([]*models.DishResponse, error)
	GetDish(ctx context.Context, id string) (*models.DishResponse, error)
	ListDishesByOwner(ctx context.Context, userID string) ([]*models.DishResponse, error)
	ListDishesLikedBy(ctx context.Context, userID string) ([]*models.DishResponse, error)
	UpdateDish(ctx context.Context, actorID, id string, req *models.UpdateDishRequest) (*models.DishResponse, error)
	DeleteDish(ctx context.Context, actorID, id string) (*models.DishResponse, error)
	ToggleLike(ctx context.Context, dishID, userID string) (*models.DishResponse, error)
	AddComment(ctx context.Context, dishID, userID string, req *models.AddCommentRequest) (*models.DishResponse, error)
}

type dishService struct {
	dishRepo repository.DishRepository
	userRepo repository.UserRepository
	cache    cache.Cache
	cacheTTL time.Duration
	group    singleflight.Group
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewDishService creates a new dish service. cacheClient may be nil, in
// which case every read goes to the database.
func NewDishService(dishRepo repository.DishRepository, userRepo repository.UserRepository, cacheClient cache.Cache, cacheTTL time.Duration, log logrus.FieldLogger) DishService {
	return &dishService{
		dishRepo: dishRepo,
		userRepo: userRepo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		log:      log,
		now:      time.Now,
	}
}

func dishCacheKey(id string) string {
	return fmt.Sprintf("dish:%s", id)
}

// invalidate drops cache keys. A failure leaves a stale entry that expires
// with its TTL, so it is only logged.
func invalidate(ctx context.Context, c cache.Cache, log logrus.FieldLogger, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		log.WithError(err).WithField("keys", keys).Warn("failed to invalidate cache")
	}
}

func dishNotFound(id string) error {
	return errors.Wrapf(apperrors.ErrNotFound, "dish %s", id)
}

// CreateDish stores a new dish owned by ownerID. Like and comment input is
// never read: the dish starts with no likes and no comments.
func (s *dishService) CreateDish(ctx context.Context, ownerID string, req *models.CreateDishRequest) (*models.DishResponse, error) {
	if !entities.IsValidID(ownerID) {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "invalid caller id")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "name is required")
	}
	ingredients, err := toIngredients(req.Ingredients)
	if err != nil {
		return nil, err
	}

	created, err := s.dishRepo.Create(ctx, entities.NewDish(name, ingredients, ownerID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dish")
	}

	s.log.WithFields(logrus.Fields{"dish_id": created.ID, "user_id": created.UserID}).Info("dish created")

	return s.populate(ctx, created)
}

func (s *dishService) ListDishes(ctx context.Context) ([]*models.DishResponse, error) {
	dishes, err := s.dishRepo.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dishes")
	}
	return s.populateAll(ctx, dishes)
}

// GetDish reads the stored dish through the cache; references are always
// resolved fresh.
func (s *dishService) GetDish(ctx context.Context, id string) (*models.DishResponse, error) {
	dish, err := s.loadDish(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, dish)
}

// ListDishesByOwner returns the dishes owned by userID. An unknown or
// malformed id simply owns nothing.
func (s *dishService) ListDishesByOwner(ctx context.Context, userID string) ([]*models.DishResponse, error) {
	if !entities.IsValidID(userID) {
		return []*models.DishResponse{}, nil
	}

	dishes, err := s.dishRepo.FindByUserID(ctx, entities.NormalizeID(userID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list dishes by owner")
	}
	return s.populateAll(ctx, dishes)
}

func (s *dishService) ListDishesLikedBy(ctx context.Context, userID string) ([]*models.DishResponse, error) {
	if !entities.IsValidID(userID) {
		return []*models.DishResponse{}, nil
	}

	dishes, err := s.dishRepo.FindLikedByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list liked dishes")
	}
	return s.populateAll(ctx, dishes)
}

// UpdateDish merges req into the stored dish: every field present replaces
// the stored field wholesale, absent fields keep their value.
func (s *dishService) UpdateDish(ctx context.Context, actorID, id string, req *models.UpdateDishRequest) (*models.DishResponse, error) {
	if !entities.IsValidID(id) {
		return nil, dishNotFound(id)
	}
	id = entities.NormalizeID(id)

	dish, err := s.dishRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(dish, actorID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.Wrap(apperrors.ErrValidation, "name must not be empty")
		}
		dish.Name = name
	}
	if req.Ingredients != nil {
		ingredients, err := toIngredients(*req.Ingredients)
		if err != nil {
			return nil, err
		}
		dish.Ingredients = ingredients
	}
	if req.User != nil {
		owner, err := s.existingUserID(ctx, *req.User)
		if err != nil {
			return nil, err
		}
		dish.UserID = owner
	}
	var refs []string
	if req.Like != nil {
		// total is always recomputed from the set
		dish.Like = entities.NewLike(req.Like.Users)
		refs = append(refs, dish.Like.Users...)
	}
	if req.Comments != nil {
		comments, err := s.toComments(*req.Comments)
		if err != nil {
			return nil, err
		}
		dish.Comments = comments
		for _, c := range comments {
			refs = append(refs, c.UserID)
		}
	}
	if err := s.requireUsers(ctx, refs); err != nil {
		return nil, err
	}

	updated, err := s.dishRepo.Update(ctx, dish)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, dishCacheKey(id))

	s.log.WithFields(logrus.Fields{"dish_id": id, "user_id": entities.NormalizeID(actorID)}).Info("dish updated")

	return s.populate(ctx, updated)
}

func (s *dishService) DeleteDish(ctx context.Context, actorID, id string) (*models.DishResponse, error) {
	if !entities.IsValidID(id) {
		return nil, dishNotFound(id)
	}
	id = entities.NormalizeID(id)

	dish, err := s.dishRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(dish, actorID); err != nil {
		return nil, err
	}

	deleted, err := s.dishRepo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, dishCacheKey(id))

	s.log.WithFields(logrus.Fields{"dish_id": id, "user_id": entities.NormalizeID(actorID)}).Info("dish deleted")

	return s.populate(ctx, deleted)
}

// ToggleLike adds userID to the dish's like set, or removes it when already
// present. The read-modify-write runs under a row lock.
func (s *dishService) ToggleLike(ctx context.Context, dishID, userID string) (*models.DishResponse, error) {
	if !entities.IsValidID(dishID) {
		return nil, dishNotFound(dishID)
	}
	dishID = entities.NormalizeID(dishID)

	if err := s.requireCaller(ctx, userID); err != nil {
		return nil, err
	}

	var liked bool
	updated, err := s.dishRepo.UpdateLike(ctx, dishID, func(like *entities.Like) {
		liked = like.Toggle(userID)
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, dishCacheKey(dishID))

	s.log.WithFields(logrus.Fields{
		"dish_id": dishID,
		"user_id": entities.NormalizeID(userID),
		"liked":   liked,
		"total":   updated.Like.Total,
	}).Debug("like toggled")

	return s.populate(ctx, updated)
}

// AddComment appends a comment authored by userID.
func (s *dishService) AddComment(ctx context.Context, dishID, userID string, req *models.AddCommentRequest) (*models.DishResponse, error) {
	if !entities.IsValidID(dishID) {
		return nil, dishNotFound(dishID)
	}
	dishID = entities.NormalizeID(dishID)

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, errors.Wrap(apperrors.ErrValidation, "description is required")
	}
	if err := validateNote(req.Note); err != nil {
		return nil, err
	}
	if err := s.requireCaller(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.dishRepo.AppendComment(ctx, dishID, entities.Comment{
		UserID:      entities.NormalizeID(userID),
		Note:        req.Note,
		Description: description,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.log, dishCacheKey(dishID))

	return s.populate(ctx, updated)
}

// dishLoadTimeout bounds a shared cache-miss read, which runs detached from
// the request that started it.
const dishLoadTimeout = 5 * time.Second

// loadDish returns the stored dish, consulting the cache first. Concurrent
// misses for the same id share one database read.
func (s *dishService) loadDish(ctx context.Context, id string) (*entities.Dish, error) {
	if !entities.IsValidID(id) {
		return nil, dishNotFound(id)
	}
	id = entities.NormalizeID(id)
	key := dishCacheKey(id)

	if s.cache != nil {
		var cached entities.Dish
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WithError(err).WithField("key", key).Debug("cache read failed, falling back to database")
		}
	}

	// The shared read must not fail for every waiter when the first caller
	// goes away, so it only inherits the caller's values.
	ch := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dishLoadTimeout)
		defer cancel()
		return s.fetchDish(loadCtx, id, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entities.Dish), nil
	}
}

// fetchDish reads the dish from the database and fills the cache. When an
// invalidation lands while the read is in flight the copy may predate the
// write, so it is dropped again.
func (s *dishService) fetchDish(ctx context.Context, id, key string) (*entities.Dish, error) {
	var before uint64
	if s.cache != nil {
		before = s.cache.Invalidations()
	}

	dish, err := s.dishRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		return dish, nil
	}

	if err := s.cache.SetJSON(ctx, key, dish, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Debug("failed to cache dish")
		return dish, nil
	}
	if s.cache.Invalidations() != before {
		invalidate(ctx, s.cache, s.log, key)
	}
	return dish, nil
}

func (s *dishService) populate(ctx context.Context, dish *entities.Dish) (*models.DishResponse, error) {
	resolved, err := s.populateAll(ctx, []*entities.Dish{dish})
	if err != nil {
		return nil, err
	}
	return resolved[0], nil
}

// populateAll resolves the user references of every dish with a single
// batch lookup. The lookup never reads password hashes.
func (s *dishService) populateAll(ctx context.Context, dishes []*entities.Dish) ([]*models.DishResponse, error) {
	seen := make(map[string]struct{})
	var refs []string
	for _, d := range dishes {
		for _, id := range d.UserRefs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			refs = append(refs, id)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, refs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve user references")
	}

	byID := make(map[string]models.UserResponse, len(users))
	for _, u := range users {
		byID[entities.NormalizeID(u.ID)] = models.NewUserResponse(u)
	}

	resp := make([]*models.DishResponse, 0, len(dishes))
	for _, d := range dishes {
		resp = append(resp, models.NewDishResponse(d, byID))
	}
	return resp, nil
}

// requireCaller rejects tokens whose user no longer exists.
func (s *dishService) requireCaller(ctx context.Context, userID string) error {
	if !entities.IsValidID(userID) {
		return errors.Wrap(apperrors.ErrAuthentication, "invalid caller id")
	}
	_, err := s.userRepo.FindByID(ctx, entities.NormalizeID(userID))
	if errors.Is(err, apperrors.ErrNotFound) {
		return errors.Wrap(apperrors.ErrAuthentication, "caller no longer exists")
	}
	return err
}

// existingUserID returns the normalised id when it names a stored user.
func (s *dishService) existingUserID(ctx context.Context, id string) (string, error) {
	if !entities.IsValidID(id) {
		return "", errors.Wrapf(apperrors.ErrValidation, "user %q does not exist", id)
	}
	id = entities.NormalizeID(id)
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", errors.Wrapf(apperrors.ErrValidation, "user %q does not exist", id)
		}
		return "", err
	}
	return id, nil
}

// requireUsers checks that every id names a stored user, using one batch
// lookup. ids must already be normalised.
func (s *dishService) requireUsers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if !entities.IsValidID(id) {
			return errors.Wrapf(apperrors.ErrValidation, "user %q does not exist", id)
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "failed to check user references")
	}
	found := make(map[string]struct{}, len(users))
	for _, u := range users {
		found[entities.NormalizeID(u.ID)] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return errors.Wrapf(apperrors.ErrValidation, "user %q does not exist", id)
		}
	}
	return nil
}

func (s *dishService) toComments(in []models.CommentRequest) (entities.Comments, error) {
	comments := make(entities.Comments, 0, len(in))
	for i, c := range in {
		description := strings.TrimSpace(c.Description)
		if description == "" {
			return nil, errors.Wrapf(apperrors.ErrValidation, "comment %d: description is required", i)
		}
		if err := validateNote(c.Note); err != nil {
			return nil, errors.Wrapf(err, "comment %d", i)
		}
		if strings.TrimSpace(c.User) == "" {
			return nil, errors.Wrapf(apperrors.ErrValidation, "comment %d: user is required", i)
		}

		createdAt := s.now().UTC()
		if c.CreatedAt != nil {
			createdAt = c.CreatedAt.UTC()
		}
		comments = append(comments, entities.Comment{
			UserID:      entities.NormalizeID(c.User),
			Note:        c.Note,
			Description: description,
			CreatedAt:   createdAt,
		})
	}
	return comments, nil
}

func toIngredients(in []models.IngredientRequest) (entities.Ingredients, error) {
	if len(in) == 0 {
		return nil, errors.Wrap(apperrors.ErrValidation, "at least one ingredient is required")
	}

	out := make(entities.Ingredients, 0, len(in))
	for i, ing := range in {
		name := strings.TrimSpace(ing.Name)
		unit := strings.TrimSpace(ing.Unit)
		if name == "" || unit == "" {
			return nil, errors.Wrapf(apperrors.ErrValidation, "ingredient %d: name and unit are required", i)
		}
		if ing.Quantity < 0 {
			return nil, errors.Wrapf(apperrors.ErrValidation, "ingredient %d: quantity must not be negative", i)
		}
		out = append(out, entities.Ingredient{Name: name, Quantity: ing.Quantity, Unit: unit})
	}
	return out, nil
}

func validateNote(note float64) error {
	if note < 0 || note > 5 {
		return errors.Wrap(apperrors.ErrValidation, "note must be between 0 and 5")
	}
	return nil
}

func authorizeOwner(dish *entities.Dish, actorID string) error {
	if entities.NormalizeID(dish.UserID) != entities.NormalizeID(actorID) {
		return errors.Wrap(apperrors.ErrForbidden, "only the owner can modify this dish")
	}
	return nil
}
