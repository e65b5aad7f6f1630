package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/recipes"
	"github.com/pageza/weekplate/backend/internal/testhelpers"
)

func TestRecipeCreateValidates(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		recipe model.Recipe
	}{
		{"missing title", model.Recipe{Title: "  "}},
		{"unknown tag", model.Recipe{Title: "Suppe", CategoryTags: []model.CategoryTag{"brunch"}}},
		{"negative calories", model.Recipe{Title: "Suppe", Calories: testhelpers.IntPtr(-5)}},
		{"negative servings", model.Recipe{Title: "Suppe", BaseServings: -2}},
		{"unknown ingredient category", model.Recipe{Title: "Suppe", Ingredients: []model.Ingredient{{Name: "Salz", Category: "minerals"}}}},
		{"missing cookbook", model.Recipe{Title: "Suppe", CookbookID: func() *uuid.UUID { id := uuid.New(); return &id }()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.recipe
			_, err := env.recipes.Create(ctx, &r)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRecipeCreateFillsDefaults(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	book, err := env.cookbooks.Create(ctx, &model.Cookbook{Name: "Einfach kochen"})
	require.NoError(t, err)

	created, err := env.recipes.Create(ctx, &model.Recipe{
		Title:       "  Tomatensuppe ",
		CookbookID:  &book.ID,
		Ingredients: []model.Ingredient{{Name: "Tomaten", Amount: 500, Unit: "g"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomatensuppe", created.Title)
	assert.Equal(t, 1, created.BaseServings)
	assert.Equal(t, model.Other, created.Ingredients[0].Category)
	require.NotNil(t, created.Cookbook)
	assert.Equal(t, "Einfach kochen", created.Cookbook.Name)
	assert.NotNil(t, created.Steps)
	assert.NotNil(t, created.CategoryTags)
}

func TestRecipeUpdateAndGet(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	created, err := env.recipes.Create(ctx, &model.Recipe{Title: "Porridge", CategoryTags: []model.CategoryTag{model.TagBreakfast}})
	require.NoError(t, err)

	updated, err := env.recipes.Update(ctx, created.ID, &model.Recipe{
		Title:        "Porridge mit Beeren",
		Calories:     testhelpers.IntPtr(420),
		BaseServings: 2,
		CategoryTags: []model.CategoryTag{model.TagBreakfast, model.TagSnack},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Porridge mit Beeren", updated.Title)
	assert.Equal(t, 420, *updated.Calories)
	assert.True(t, updated.HasTag(model.TagSnack))

	_, err = env.recipes.Update(ctx, uuid.New(), &model.Recipe{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.recipes.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeDeleteDetachesMealPlans(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	pool := testhelpers.CreateRecipes(t, env.db, testhelpers.RecipeFixture("Chili", 700, model.TagDinner))
	slot := createSlot(t, env.db, model.MealPlan{Date: "2025-01-27", MealType: model.Dinner, RecipeID: &pool[0].ID})

	require.NoError(t, env.recipes.Delete(ctx, pool[0].ID))

	var kept model.MealPlan
	require.NoError(t, env.db.First(&kept, "id = ?", slot.ID).Error)
	assert.Nil(t, kept.RecipeID)
	assert.ErrorIs(t, env.recipes.Delete(ctx, pool[0].ID), ErrNotFound)
}

func TestRecipeToggles(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	pool := testhelpers.CreateRecipes(t, env.db, testhelpers.RecipeFixture("Chili", 700, model.TagDinner))

	fav, err := env.recipes.ToggleFavorite(ctx, pool[0].ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)
	fav, err = env.recipes.ToggleFavorite(ctx, pool[0].ID)
	require.NoError(t, err)
	assert.False(t, fav.IsFavorite)

	excl, err := env.recipes.ToggleExcluded(ctx, pool[0].ID)
	require.NoError(t, err)
	assert.True(t, excl.IsExcluded)

	_, err = env.recipes.ToggleFavorite(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeListFilters(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	testhelpers.CreateRecipes(t, env.db, testhelpers.StandardPool()...)

	got, err := env.recipes.List(ctx, recipes.Filters{Categories: []model.CategoryTag{model.TagDinner}, SortBy: recipes.SortCalories})
	require.NoError(t, err)
	titles := make([]string, len(got))
	for i, r := range got {
		titles[i] = r.Title
	}
	assert.Equal(t, []string{"Nudelsalat", "Ofenlachs", "Gemüsecurry"}, titles)

	got, err = env.recipes.List(ctx, recipes.Filters{Search: "suppe"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Linsensuppe", got[0].Title)
}

func TestRecipeScaled(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	created, err := env.recipes.Create(ctx, &model.Recipe{
		Title:        "Pfannkuchen",
		BaseServings: 2,
		Calories:     testhelpers.IntPtr(500),
		Ingredients: []model.Ingredient{
			{Name: "Mehl", Amount: 200, Unit: "g", Category: model.DryGoods},
			{Name: "Eier", Amount: 3, Unit: "Stück", Category: model.Dairy},
		},
	})
	require.NoError(t, err)

	scaled, err := env.recipes.Scaled(ctx, created.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, scaled.Servings)
	assert.Equal(t, 300.0, scaled.Ingredients[0].Amount)
	assert.Equal(t, 5.0, scaled.Ingredients[1].Amount)
	assert.Equal(t, 750, *scaled.Calories)

	_, err = env.recipes.Scaled(ctx, created.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
