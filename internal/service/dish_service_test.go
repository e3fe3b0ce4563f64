package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dishes-be/internal/apperrors"
	"dishes-be/internal/models"
)

func soupRequest(name string) *models.CreateDishRequest {
	return &models.CreateDishRequest{
		Name: name,
		Ingredients: []models.IngredientRequest{
			{Name: "Carrot", Quantity: 2, Unit: "pc"},
			{Name: "Water", Quantity: 1.5, Unit: "l"},
		},
	}
}

func TestCreateDish_ResetsLikeAndComments(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	req := soupRequest("Soup")
	req.Like = &models.LikeRequest{Total: 99, Users: []string{bob.ID}}
	req.Comments = []models.CommentRequest{{User: bob.ID, Note: 5, Description: "forged"}}

	dish, err := f.dishes.CreateDish(context.Background(), alice.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 0, dish.Like.Total)
	assert.Empty(t, dish.Like.Users)
	assert.Empty(t, dish.Comments)
	require.NotNil(t, dish.User)
	assert.Equal(t, alice.ID, dish.User.ID)
	assert.Len(t, dish.Ingredients, 2)

	stored := f.store.dishes[dish.ID]
	assert.Equal(t, 0, stored.Like.Total)
	assert.Empty(t, stored.Like.Users)
	assert.Empty(t, stored.Comments)
}

func TestCreateDish_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	_, err := f.dishes.CreateDish(ctx, alice.ID, &models.CreateDishRequest{Name: " ", Ingredients: soupRequest("x").Ingredients})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.dishes.CreateDish(ctx, alice.ID, &models.CreateDishRequest{Name: "Empty"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.dishes.CreateDish(ctx, alice.ID, &models.CreateDishRequest{
		Name:        "Bad",
		Ingredients: []models.IngredientRequest{{Name: "Salt", Quantity: -1, Unit: "g"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.dishes.CreateDish(ctx, uuid.NewString(), soupRequest("Orphan"))
	assert.ErrorIs(t, err, apperrors.ErrValidation, "owner must exist")
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	created, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("Soup"))
	require.NoError(t, err)

	got, err := f.dishes.GetDish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Ingredients, got.Ingredients)
	assert.Equal(t, created.User, got.User)
	assert.Equal(t, created.Like, got.Like)
}

func TestGetDish_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dish, err := f.dishes.GetDish(ctx, uuid.NewString())
	assert.Nil(t, dish)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.dishes.GetDish(ctx, "definitely-not-an-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetDish_ServedFromCache(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	created, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("Soup"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.dishes.GetDish(ctx, created.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.store.dishReads)
	assert.True(t, f.cache.has(dishCacheKey(created.ID)))
}

func TestGetDish_WithoutCache(t *testing.T) {
	store := newMemStore()
	svc := NewDishService(fakeDishRepo{store}, fakeUserRepo{store}, nil, time.Minute, quietLogger())

	_, err := svc.GetDish(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, store.dishReads)
}

func TestGetDish_InvalidationDuringMissDropsStaleCopy(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("Soup"))
	require.NoError(t, err)

	// the like commits after the miss has read the row but before it caches it
	var once sync.Once
	f.store.afterDishRead = func() {
		once.Do(func() {
			_, err := f.dishes.ToggleLike(ctx, dish.ID, bob.ID)
			assert.NoError(t, err)
		})
	}

	stale, err := f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stale.Like.Total)
	assert.False(t, f.cache.has(dishCacheKey(dish.ID)), "stale copy is not left in the cache")

	fresh, err := f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Like.Total)
	assert.True(t, f.cache.has(dishCacheKey(dish.ID)))
}

func TestGetDish_CancelledCallerDoesNotFailSharedRead(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	dish, err := f.dishes.CreateDish(context.Background(), alice.ID, soupRequest("Soup"))
	require.NoError(t, err)

	reading := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.store.afterDishRead = func() {
		once.Do(func() {
			close(reading)
			<-release
		})
	}

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.dishes.GetDish(first, dish.ID)
		firstErr <- err
	}()
	<-reading

	secondErr := make(chan error, 1)
	go func() {
		_, err := f.dishes.GetDish(context.Background(), dish.ID)
		secondErr <- err
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.NoError(t, <-secondErr)
}

func TestToggleLike_AddsThenRemoves(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	liked, err := f.dishes.ToggleLike(ctx, dish.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Like.Total)
	require.Len(t, liked.Like.Users, 1)
	assert.Equal(t, bob.ID, liked.Like.Users[0].ID)
	assert.Equal(t, "bob", liked.Like.Users[0].Username)

	unliked, err := f.dishes.ToggleLike(ctx, dish.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Like.Total)
	assert.Empty(t, unliked.Like.Users)
}

func TestToggleLike_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)
	_, err = f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)

	_, err = f.dishes.ToggleLike(ctx, dish.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, f.cache.has(dishCacheKey(dish.ID)))

	got, err := f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Like.Total)
}

func TestToggleLike_ConcurrentTogglesKeepTotalInSync(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "owner")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, owner.ID, soupRequest("Popular"))
	require.NoError(t, err)

	var likers []string
	for i := 0; i < 20; i++ {
		likers = append(likers, f.register(t, fmt.Sprintf("user%02d", i)).ID)
	}

	var wg sync.WaitGroup
	for _, id := range likers {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.dishes.ToggleLike(ctx, dish.ID, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	got, err := f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Like.Total)
	assert.Len(t, got.Like.Users, 20)
}

func TestToggleLike_Errors(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	ctx := context.Background()

	_, err := f.dishes.ToggleLike(ctx, uuid.NewString(), alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	_, err = f.dishes.ToggleLike(ctx, dish.ID, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrAuthentication, "deleted callers cannot like")
}

func TestListDishes_NewestFirstAndPopulated(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	first, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("First"))
	require.NoError(t, err)
	second, err := f.dishes.CreateDish(ctx, bob.ID, soupRequest("Second"))
	require.NoError(t, err)

	all, err := f.dishes.ListDishes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, "bob", all[0].User.Username)
	assert.Equal(t, "alice", all[1].User.Username)

	byAlice, err := f.dishes.ListDishesByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, byAlice, 1)
	assert.Equal(t, first.ID, byAlice[0].ID)

	none, err := f.dishes.ListDishesByOwner(ctx, "nonsense")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListDishesLikedBy(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	liked, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("Liked"))
	require.NoError(t, err)
	_, err = f.dishes.CreateDish(ctx, alice.ID, soupRequest("Ignored"))
	require.NoError(t, err)
	_, err = f.dishes.ToggleLike(ctx, liked.ID, bob.ID)
	require.NoError(t, err)

	dishes, err := f.dishes.ListDishesLikedBy(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, liked.ID, dishes[0].ID)
}

func TestUpdateDish_OmittedFieldsArePreserved(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)
	_, err = f.dishes.ToggleLike(ctx, dish.ID, bob.ID)
	require.NoError(t, err)
	_, err = f.dishes.AddComment(ctx, dish.ID, bob.ID, &models.AddCommentRequest{Note: 5, Description: "great"})
	require.NoError(t, err)

	updated, err := f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Len(t, updated.Ingredients, 2)
	assert.Equal(t, alice.ID, updated.User.ID)
	assert.Equal(t, 1, updated.Like.Total, "like is kept when omitted")
	require.Len(t, updated.Like.Users, 1)
	assert.Equal(t, bob.ID, updated.Like.Users[0].ID)
	require.Len(t, updated.Comments, 1, "comments are kept when omitted")
	assert.Equal(t, "great", updated.Comments[0].Description)
}

func TestUpdateDish_SuppliedFieldsReplaceWholesale(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	ingredients := []models.IngredientRequest{{Name: "Rice", Quantity: 300, Unit: "g"}}
	comments := []models.CommentRequest{{User: bob.ID, Note: 3, Description: "ok"}}
	updated, err := f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{
		Ingredients: &ingredients,
		Like:        &models.LikeRequest{Total: 42, Users: []string{bob.ID, strings.ToUpper(bob.ID)}},
		Comments:    &comments,
	})
	require.NoError(t, err)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "Rice", updated.Ingredients[0].Name)
	assert.Equal(t, 1, updated.Like.Total, "total is recomputed and duplicates dropped")
	require.Len(t, updated.Comments, 1)
	assert.Equal(t, "bob", updated.Comments[0].User.Username)
}

func TestUpdateDish_OwnershipTransfer(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{User: strPtr(uuid.NewString())})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	updated, err := f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{User: strPtr(bob.ID)})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, updated.User.ID)

	_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdateDish_Errors(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	_, err = f.dishes.UpdateDish(ctx, bob.ID, dish.ID, &models.UpdateDishRequest{Name: strPtr("mine now")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.dishes.UpdateDish(ctx, alice.ID, uuid.NewString(), &models.UpdateDishRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	empty := []models.IngredientRequest{}
	_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Ingredients: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	badNote := []models.CommentRequest{{User: bob.ID, Note: 9, Description: "too much"}}
	_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Comments: &badNote})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUpdateDish_RejectsUnknownUserReferences(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	likes := []*models.LikeRequest{
		{Users: []string{uuid.NewString()}},
		{Users: []string{bob.ID, "not-a-user"}},
	}
	for _, like := range likes {
		_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Like: like})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}

	ghostAuthor := []models.CommentRequest{{User: uuid.NewString(), Note: 3, Description: "who?"}}
	_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Comments: &ghostAuthor})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	malformedAuthor := []models.CommentRequest{{User: "not-a-user", Note: 3, Description: "who?"}}
	_, err = f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{Comments: &malformedAuthor})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	got, err := f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Like.Total, "rejected updates are not stored")
	assert.Empty(t, got.Comments)

	updated, err := f.dishes.UpdateDish(ctx, alice.ID, dish.ID, &models.UpdateDishRequest{
		Like: &models.LikeRequest{Users: []string{bob.ID, alice.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Like.Total)
	assert.Len(t, updated.Like.Users, 2, "every counted liker resolves")
}

func TestDeleteDish(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)
	_, err = f.dishes.GetDish(ctx, dish.ID)
	require.NoError(t, err)

	_, err = f.dishes.DeleteDish(ctx, bob.ID, dish.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	deleted, err := f.dishes.DeleteDish(ctx, alice.ID, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, dish.ID, deleted.ID)
	assert.False(t, f.cache.has(dishCacheKey(dish.ID)))

	_, err = f.dishes.GetDish(ctx, dish.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.dishes.DeleteDish(ctx, alice.ID, dish.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)

	got, err := f.dishes.AddComment(ctx, dish.ID, bob.ID, &models.AddCommentRequest{Note: 4.5, Description: "  lovely  "})
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "lovely", got.Comments[0].Description)
	assert.Equal(t, 4.5, got.Comments[0].Note)
	assert.Equal(t, "bob", got.Comments[0].User.Username)
	assert.False(t, got.Comments[0].CreatedAt.IsZero())

	_, err = f.dishes.AddComment(ctx, dish.ID, bob.ID, &models.AddCommentRequest{Note: 6, Description: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.dishes.AddComment(ctx, uuid.NewString(), bob.ID, &models.AddCommentRequest{Note: 1, Description: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDishResponsesNeverCarryPassword(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	ctx := context.Background()

	dish, err := f.dishes.CreateDish(ctx, alice.ID, soupRequest("D"))
	require.NoError(t, err)
	_, err = f.dishes.ToggleLike(ctx, dish.ID, bob.ID)
	require.NoError(t, err)
	got, err := f.dishes.AddComment(ctx, dish.ID, bob.ID, &models.AddCommentRequest{Note: 5, Description: "yum"})
	require.NoError(t, err)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "$2a$")
}

func TestListDishes_StorageFault(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New("connection refused")

	_, err := f.dishes.ListDishes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list dishes")
}
