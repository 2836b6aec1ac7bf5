package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/testhelpers"
	"github.com/foodfriend/backend/internal/types"
)

func newRecipeService(t *testing.T) (*RecipeService, func(string)) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db, zaptest.NewLogger(t))
	return svc, func(id string) { testhelpers.CreateUser(t, db, id) }
}

func TestRecipeService_StoreAndGet(t *testing.T) {
	svc, createUser := newRecipeService(t)
	createUser("user_1")
	ctx := context.Background()

	recipe := testhelpers.TacosRecipe()
	recipe.Ingredients = []types.Ingredient{
		{Name: "beef", Quantity: 200, Unit: "g"},
		{Name: "tortilla", Quantity: 4, Unit: "pcs"},
		{Name: "lime", Quantity: 0.5, Unit: "pcs"},
		{Name: "cumin", Quantity: 1.25, Unit: "tsp"},
		{Name: "salsa", Quantity: 120.75, Unit: "ml"},
	}

	stored, err := svc.Store(ctx, "user_1", recipe, "https://img.example/tacos.jpg")
	require.NoError(t, err)
	require.NotZero(t, stored.ID)

	got, found, err := svc.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	require.True(t, found)

	resp := NewRecipeResponse(got)
	assert.Equal(t, "Tacos", resp.Title)
	assert.Equal(t, "user_1", resp.UserID)
	assert.Equal(t, recipe.Ingredients, resp.Ingredients)
	assert.Equal(t, recipe.Macros, resp.Macros)
	assert.Equal(t, recipe.Steps, resp.Steps)
	assert.Equal(t, types.CategoryTacos, resp.Category)
	assert.Equal(t, "https://img.example/tacos.jpg", resp.ImageURL)
}

func TestRecipeService_StoreWithoutIngredients(t *testing.T) {
	svc, createUser := newRecipeService(t)
	createUser("user_1")

	recipe := testhelpers.TacosRecipe()
	recipe.Ingredients = []types.Ingredient{}

	stored, err := svc.Store(context.Background(), "user_1", recipe, "")
	require.NoError(t, err)

	got, found, err := svc.GetByID(context.Background(), stored.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, got.Ingredients)
	assert.NotNil(t, NewRecipeResponse(got).Ingredients)
}

func TestRecipeService_StoreUnknownUser(t *testing.T) {
	svc, _ := newRecipeService(t)

	_, err := svc.Store(context.Background(), "ghost", testhelpers.TacosRecipe(), "")
	require.Error(t, err)

	var perr *PersistenceError
	assert.True(t, errors.As(err, &perr))
	assert.True(t, errors.Is(err, ErrUserNotFound))

	var count int64
	require.NoError(t, svc.db.Model(&model.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeService_GetByIDMissing(t *testing.T) {
	svc, _ := newRecipeService(t)

	got, found, err := svc.GetByID(context.Background(), 4242)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestRecipeService_DeleteCascades(t *testing.T) {
	svc, createUser := newRecipeService(t)
	createUser("user_1")
	ctx := context.Background()

	stored, err := svc.Store(ctx, "user_1", testhelpers.TacosRecipe(), "")
	require.NoError(t, err)
	require.NotEmpty(t, stored.Ingredients)

	ingredientIDs := make([]uint, len(stored.Ingredients))
	for i, ing := range stored.Ingredients {
		ingredientIDs[i] = ing.ID
	}

	require.NoError(t, svc.Delete(ctx, "user_1", stored.ID))

	_, found, err := svc.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.False(t, found)

	for _, id := range ingredientIDs {
		var ing model.Ingredient
		err := svc.db.First(&ing, id).Error
		assert.Error(t, err, "ingredient %d should be gone", id)
	}
}

func TestRecipeService_DeleteOwnerOnly(t *testing.T) {
	svc, createUser := newRecipeService(t)
	createUser("owner")
	createUser("intruder")
	ctx := context.Background()

	stored, err := svc.Store(ctx, "owner", testhelpers.TacosRecipe(), "")
	require.NoError(t, err)

	err = svc.Delete(ctx, "intruder", stored.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, found, err := svc.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.True(t, found)

	assert.ErrorIs(t, svc.Delete(ctx, "owner", 9999), ErrRecipeNotFound)
}

func TestRecipeService_ListByUser(t *testing.T) {
	svc, createUser := newRecipeService(t)
	createUser("alice")
	createUser("bob")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		r := testhelpers.TacosRecipe()
		r.Title = fmt.Sprintf("Alice %d", i)
		_, err := svc.Store(ctx, "alice", r, "")
		require.NoError(t, err)
	}
	_, err := svc.Store(ctx, "bob", testhelpers.TacosRecipe(), "")
	require.NoError(t, err)

	rows, err := svc.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alice 2", rows[0].Title)
	assert.Equal(t, "Alice 0", rows[2].Title)
	for _, row := range rows {
		assert.Len(t, row.Ingredients, 1, "ingredients must be eager loaded")
	}

	rows, err = svc.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecipeService_ListGlobal(t *testing.T) {
	svc, createUser := newRecipeService(t)
	createUser("alice")
	createUser("bob")
	ctx := context.Background()

	seed := []struct {
		user, title string
		category    types.Category
	}{
		{"alice", "Margherita Pizza", types.CategoryPizza},
		{"bob", "Pepperoni Pizza", types.CategoryPizza},
		{"alice", "Caesar Salad", types.CategorySalad},
		{"bob", "Fish Tacos", types.CategoryTacos},
	}
	for _, s := range seed {
		r := testhelpers.TacosRecipe()
		r.Title = s.title
		r.Category = s.category
		_, err := svc.Store(ctx, s.user, r, "")
		require.NoError(t, err)
	}

	rows, err := svc.ListGlobal(ctx, GlobalQuery{})
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	rows, err = svc.ListGlobal(ctx, GlobalQuery{Category: types.CategoryPizza})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.ListGlobal(ctx, GlobalQuery{Search: "salad"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Caesar Salad", rows[0].Title)

	rows, err = svc.ListGlobal(ctx, GlobalQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultGlobalLimit, clampLimit(0))
	assert.Equal(t, defaultGlobalLimit, clampLimit(-5))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, maxGlobalLimit, clampLimit(1000))
}

func TestRecipeService_Postgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	svc := NewRecipeService(db, zaptest.NewLogger(t))
	testhelpers.CreateUser(t, db, "user_pg")
	ctx := context.Background()

	stored, err := svc.Store(ctx, "user_pg", testhelpers.TacosRecipe(), "")
	require.NoError(t, err)

	rows, err := svc.ListGlobal(ctx, GlobalQuery{Search: "tacos"})
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, stored.ID, rows[0].ID)

	require.NoError(t, svc.Delete(ctx, "user_pg", stored.ID))
	var left int64
	require.NoError(t, db.Model(&model.Ingredient{}).Where("recipe_id = ?", stored.ID).Count(&left).Error)
	assert.Zero(t, left)
}
