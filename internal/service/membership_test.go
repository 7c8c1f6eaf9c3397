package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestFavoritesAddRemoveExists(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Bread", nil, testhelpers.Line{Ingredient: flour, Amount: 200})

	favorites := service.NewFavorites(db)

	exists, err := favorites.Exists(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	row, err := favorites.Add(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, row.UserID)
	assert.Equal(t, recipe.ID, row.RecipeID)
	assert.NotEqual(t, uuid.Nil, row.ID)

	exists, err = favorites.Exists(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = favorites.Add(ctx, alice.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyExists)
	assert.EqualError(t, err, "recipe is already in favorites")
	assert.Equal(t, int64(1), testhelpers.Count(t, db, &models.Favorite{}, ""))

	require.NoError(t, favorites.Remove(ctx, alice.ID, recipe.ID))

	err = favorites.Remove(ctx, alice.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, int64(0), testhelpers.Count(t, db, &models.Favorite{}, ""))
}

func TestMembershipSetsAreIndependent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Bread", nil, testhelpers.Line{Ingredient: flour, Amount: 200})

	favorites := service.NewFavorites(db)
	cart := service.NewShoppingCart(db)

	_, err := favorites.Add(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)

	inCart, err := cart.Exists(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, inCart)

	_, err = cart.Add(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, favorites.Remove(ctx, alice.ID, recipe.ID))
	inCart, err = cart.Exists(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, inCart)
}

func TestMembershipTargetMissing(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")

	_, err := service.NewShoppingCart(db).Add(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrTargetNotFound)
	assert.EqualError(t, err, "recipe not found")

	_, err = service.NewFollows(db).Add(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrTargetNotFound)
}

func TestFollowRejectsSelf(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	follows := service.NewFollows(db)

	_, err := follows.Add(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, service.ErrSelfReference)
	assert.Equal(t, int64(0), testhelpers.Count(t, db, &models.Follow{}, ""))

	_, err = follows.Add(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// the relation is directed
	exists, err := follows.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = follows.Add(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
}

func TestFollowCheckConstraintBacksSelfRule(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.CreateUser(t, db, "alice")

	err := db.Create(&models.Follow{UserID: alice.ID, AuthorID: alice.ID}).Error
	require.Error(t, err)
}

func TestMembershipUniqueIndexBacksAdd(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	alice := testhelpers.CreateUser(t, db, "alice")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Bread", nil, testhelpers.Line{Ingredient: flour, Amount: 200})

	require.NoError(t, db.Create(&models.ShoppingListEntry{UserID: alice.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.ShoppingListEntry{UserID: alice.ID, RecipeID: recipe.ID}).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestConcurrentAddSucceedsOnce(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Bread", nil, testhelpers.Line{Ingredient: flour, Amount: 200})
	favorites := service.NewFavorites(db)

	results := raceAdds(t, 8, func() error {
		_, err := favorites.Add(ctx, alice.ID, recipe.ID)
		return err
	})

	assert.Equal(t, 1, results.ok)
	assert.Equal(t, 7, results.exists)
	assert.Equal(t, int64(1), testhelpers.Count(t, db, &models.Favorite{}, ""))
}

func TestConcurrentAddSucceedsOncePostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	follows := service.NewFollows(db)

	results := raceAdds(t, 16, func() error {
		_, err := follows.Add(ctx, alice.ID, bob.ID)
		return err
	})

	assert.Equal(t, 1, results.ok)
	assert.Equal(t, 15, results.exists)
	assert.Equal(t, int64(1), testhelpers.Count(t, db, &models.Follow{}, ""))
}

func TestTargetIDsAndContains(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, db, "alice")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	r1 := testhelpers.CreateRecipe(t, db, alice, "Bread", nil, testhelpers.Line{Ingredient: flour, Amount: 200})
	r2 := testhelpers.CreateRecipe(t, db, alice, "Cake", nil, testhelpers.Line{Ingredient: flour, Amount: 150})
	r3 := testhelpers.CreateRecipe(t, db, alice, "Pie", nil, testhelpers.Line{Ingredient: flour, Amount: 100})
	cart := service.NewShoppingCart(db)

	for _, r := range []*models.Recipe{r1, r3} {
		_, err := cart.Add(ctx, alice.ID, r.ID)
		require.NoError(t, err)
	}

	ids, err := cart.TargetIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{r1.ID, r3.ID}, ids)

	found, err := cart.Contains(ctx, alice.ID, []uuid.UUID{r1.ID, r2.ID, r3.ID})
	require.NoError(t, err)
	assert.True(t, found[r1.ID])
	assert.False(t, found[r2.ID])
	assert.True(t, found[r3.ID])

	found, err = cart.Contains(ctx, uuid.Nil, []uuid.UUID{r1.ID})
	require.NoError(t, err)
	assert.Empty(t, found)
}

type raceResult struct {
	ok, exists, other int
}

func raceAdds(t *testing.T, n int, add func() error) raceResult {
	t.Helper()
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		res   raceResult
		start = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := add()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				res.ok++
			case errors.Is(err, service.ErrAlreadyExists):
				res.exists++
			default:
				res.other++
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return res
}
