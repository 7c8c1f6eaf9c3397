package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func TestAggregateLines(t *testing.T) {
	flour := &models.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}
	sugar := &models.Ingredient{ID: uuid.New(), Name: "Sugar", MeasurementUnit: "g"}
	eggs := &models.Ingredient{ID: uuid.New(), Name: "Eggs", MeasurementUnit: "pcs"}

	line := func(ing *models.Ingredient, amount int) models.RecipeIngredient {
		return models.RecipeIngredient{IngredientID: ing.ID, Ingredient: *ing, Amount: amount}
	}

	items := service.AggregateLines([]models.RecipeIngredient{
		line(flour, 200),
		line(sugar, 50),
		line(flour, 150),
		line(eggs, 2),
	})

	require.Len(t, items, 3)
	assert.Equal(t, "Eggs", items[0].Name)
	assert.Equal(t, 2, items[0].Total)
	assert.Equal(t, "Flour", items[1].Name)
	assert.Equal(t, 350, items[1].Total)
	assert.Equal(t, flour.ID, items[1].IngredientID)
	assert.Equal(t, "Sugar", items[2].Name)
	assert.Equal(t, 50, items[2].Total)
}

func TestAggregateLinesKeepsSameNameDifferentUnits(t *testing.T) {
	grams := &models.Ingredient{ID: uuid.New(), Name: "Milk", MeasurementUnit: "ml"}
	cups := &models.Ingredient{ID: uuid.New(), Name: "Milk", MeasurementUnit: "cup"}

	items := service.AggregateLines([]models.RecipeIngredient{
		{IngredientID: grams.ID, Ingredient: *grams, Amount: 100},
		{IngredientID: cups.ID, Ingredient: *cups, Amount: 1},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "cup", items[0].MeasurementUnit)
	assert.Equal(t, "ml", items[1].MeasurementUnit)
}

func TestAggregateLinesGroupsByIngredientID(t *testing.T) {
	first := &models.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}
	second := &models.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"}

	items := service.AggregateLines([]models.RecipeIngredient{
		{IngredientID: first.ID, Ingredient: *first, Amount: 100},
		{IngredientID: second.ID, Ingredient: *second, Amount: 1},
		{IngredientID: first.ID, Ingredient: *first, Amount: 20},
	})

	require.Len(t, items, 2)
	totals := map[uuid.UUID]int{}
	for _, item := range items {
		assert.Equal(t, "Flour", item.Name)
		assert.Equal(t, "g", item.MeasurementUnit)
		totals[item.IngredientID] = item.Total
	}
	assert.Equal(t, map[uuid.UUID]int{first.ID: 120, second.ID: 1}, totals)
}

func TestShoppingListKeepsTwinIngredientsApart(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, s.db, "alice")
	flour := testhelpers.CreateIngredient(t, s.db, "Flour", "g")
	twin := testhelpers.CreateIngredient(t, s.db, "Flour", "g")

	bread := testhelpers.CreateRecipe(t, s.db, alice, "Bread", nil,
		testhelpers.Line{Ingredient: flour, Amount: 2})
	cake := testhelpers.CreateRecipe(t, s.db, alice, "Cake", nil,
		testhelpers.Line{Ingredient: twin, Amount: 1})
	for _, r := range []*models.Recipe{bread, cake} {
		_, err := s.cart.Add(ctx, alice.ID, r.ID)
		require.NoError(t, err)
	}

	items, err := s.shopping.BuildReport(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	text, err := s.shopping.Render(ctx, alice.ID)
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	assert.Equal(t, "Shopping list:", lines[0])
	assert.ElementsMatch(t, []string{"Flour: 2, g", "Flour: 1, g"}, lines[1:])
}

func TestRenderShoppingList(t *testing.T) {
	assert.Equal(t, "Shopping list:", service.RenderShoppingList(nil))

	out := service.RenderShoppingList([]service.ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", Total: 350},
		{Name: "Sugar", MeasurementUnit: "g", Total: 50},
	})
	assert.Equal(t, "Shopping list:\nFlour: 350, g\nSugar: 50, g", out)
}

func TestShoppingListRender(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, s.db, "alice")
	bob := testhelpers.CreateUser(t, s.db, "bob")
	flour := testhelpers.CreateIngredient(t, s.db, "Flour", "g")
	sugar := testhelpers.CreateIngredient(t, s.db, "Sugar", "g")
	salt := testhelpers.CreateIngredient(t, s.db, "Salt", "g")

	bread := testhelpers.CreateRecipe(t, s.db, bob, "Bread", nil,
		testhelpers.Line{Ingredient: flour, Amount: 200})
	cake := testhelpers.CreateRecipe(t, s.db, bob, "Cake", nil,
		testhelpers.Line{Ingredient: flour, Amount: 150},
		testhelpers.Line{Ingredient: sugar, Amount: 50})
	// not in the cart
	testhelpers.CreateRecipe(t, s.db, bob, "Soup", nil,
		testhelpers.Line{Ingredient: salt, Amount: 5})

	out, err := s.shopping.Render(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, service.ShoppingListHeader, out)

	for _, r := range []*models.Recipe{bread, cake} {
		_, err := s.cart.Add(ctx, alice.ID, r.ID)
		require.NoError(t, err)
	}

	out, err = s.shopping.Render(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\nFlour: 350, g\nSugar: 50, g", out)

	// another user's cart is separate
	out, err = s.shopping.Render(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, service.ShoppingListHeader, out)
}

func TestShoppingListFollowsRecipeDeletion(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	alice := testhelpers.CreateUser(t, s.db, "alice")
	flour := testhelpers.CreateIngredient(t, s.db, "Flour", "g")
	bread := testhelpers.CreateRecipe(t, s.db, alice, "Bread", nil,
		testhelpers.Line{Ingredient: flour, Amount: 200})

	_, err := s.cart.Add(ctx, alice.ID, bread.ID)
	require.NoError(t, err)
	require.NoError(t, s.recipes.Delete(ctx, alice.ID, bread.ID))

	items, err := s.shopping.BuildReport(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
