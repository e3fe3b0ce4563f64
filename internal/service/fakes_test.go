package service

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/cache"
	"dishes-be/internal/entities"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

// memStore is an in-memory stand-in for Postgres shared by both fake
// repositories, so user deletion can cascade the way the schema does.
type memStore struct {
	mu     sync.Mutex
	users  map[string]*entities.User
	dishes map[string]*entities.Dish
	seq    int

	// err, when set, is returned by every repository call
	err error
	// dishReads counts FindByID calls on the dish repository
	dishReads int
	// afterDishRead, when set, runs after FindByID has copied the row and
	// released the store
	afterDishRead func()
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*entities.User),
		dishes: make(map[string]*entities.Dish),
	}
}

func (m *memStore) tick() time.Time {
	m.seq++
	return time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func sanitized(u *entities.User) *entities.User {
	c := *u
	c.PasswordHash = ""
	return &c
}

func cloneDish(d *entities.Dish) *entities.Dish {
	c := *d
	c.Ingredients = append(entities.Ingredients{}, d.Ingredients...)
	c.Comments = append(entities.Comments{}, d.Comments...)
	c.Like.Users = append([]string{}, d.Like.Users...)
	return &c
}

type fakeUserRepo struct{ *memStore }

func (r fakeUserRepo) Create(_ context.Context, username, email, passwordHash string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, apperrors.ErrConflict
		}
	}
	now := r.tick()
	u := &entities.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return sanitized(u), nil
}

func (r fakeUserRepo) FindByUsername(_ context.Context, username string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r fakeUserRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return sanitized(u), nil
}

func (r fakeUserRepo) FindByIDs(_ context.Context, ids []string) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*entities.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, sanitized(u))
		}
	}
	return out, nil
}

func (r fakeUserRepo) FindAll(_ context.Context) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []*entities.User{}
	for _, u := range r.users {
		out = append(out, sanitized(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r fakeUserRepo) Update(_ context.Context, id string, patch entities.UserPatch) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if patch.Username != nil {
		for _, other := range r.users {
			if other.ID != id && other.Username == *patch.Username {
				return nil, apperrors.ErrConflict
			}
		}
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	u.UpdatedAt = r.tick()
	return sanitized(u), nil
}

func (r fakeUserRepo) Delete(_ context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	for dishID, d := range r.dishes {
		if d.UserID == id {
			delete(r.dishes, dishID)
			continue
		}
		if d.Like.Has(id) {
			d.Like.Toggle(id)
		}
	}
	delete(r.users, id)
	return sanitized(u), nil
}

type fakeDishRepo struct{ *memStore }

func (r fakeDishRepo) Create(_ context.Context, dish *entities.Dish) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.users[dish.UserID]; !ok {
		return nil, apperrors.ErrValidation
	}
	d := cloneDish(dish)
	d.ID = uuid.NewString()
	d.CreatedAt = r.tick()
	d.UpdatedAt = d.CreatedAt
	r.dishes[d.ID] = d
	return cloneDish(d), nil
}

func (r fakeDishRepo) list(match func(*entities.Dish) bool) ([]*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []*entities.Dish{}
	for _, d := range r.dishes {
		if match(d) {
			out = append(out, cloneDish(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakeDishRepo) FindAll(_ context.Context) ([]*entities.Dish, error) {
	return r.list(func(*entities.Dish) bool { return true })
}

func (r fakeDishRepo) FindByUserID(_ context.Context, userID string) ([]*entities.Dish, error) {
	return r.list(func(d *entities.Dish) bool { return d.UserID == userID })
}

func (r fakeDishRepo) FindLikedByUser(_ context.Context, userID string) ([]*entities.Dish, error) {
	return r.list(func(d *entities.Dish) bool { return d.Like.Has(userID) })
}

func (r fakeDishRepo) FindByID(_ context.Context, id string) (*entities.Dish, error) {
	r.mu.Lock()
	r.dishReads++
	hook := r.afterDishRead
	if r.err != nil {
		r.mu.Unlock()
		return nil, r.err
	}
	d, ok := r.dishes[id]
	if !ok {
		r.mu.Unlock()
		return nil, apperrors.ErrNotFound
	}
	c := cloneDish(d)
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return c, nil
}

func (r fakeDishRepo) Update(_ context.Context, dish *entities.Dish) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	stored, ok := r.dishes[dish.ID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if _, ok := r.users[dish.UserID]; !ok {
		return nil, apperrors.ErrValidation
	}
	d := cloneDish(dish)
	d.CreatedAt = stored.CreatedAt
	d.UpdatedAt = r.tick()
	r.dishes[d.ID] = d
	return cloneDish(d), nil
}

func (r fakeDishRepo) Delete(_ context.Context, id string) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.dishes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	delete(r.dishes, id)
	return d, nil
}

func (r fakeDishRepo) UpdateLike(_ context.Context, id string, fn func(like *entities.Like)) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.dishes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	fn(&d.Like)
	d.UpdatedAt = r.tick()
	return cloneDish(d), nil
}

func (r fakeDishRepo) AppendComment(_ context.Context, id string, comment entities.Comment) (*entities.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	d, ok := r.dishes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	d.Comments = append(d.Comments, comment)
	d.UpdatedAt = r.tick()
	return cloneDish(d), nil
}

// memCache is a map-backed cache.Cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	deletes []string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

func (c *memCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(b), ttl)
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest any) error {
	v, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (c *memCache) Invalidations() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(len(c.deletes))
}

func (c *memCache) Close() error { return nil }

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
