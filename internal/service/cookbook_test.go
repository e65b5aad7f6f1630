package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/testhelpers"
)

func TestCookbookCRUD(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, err := env.cookbooks.Create(ctx, &model.Cookbook{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	b, err := env.cookbooks.Create(ctx, &model.Cookbook{Name: "Vegetarisch"})
	require.NoError(t, err)
	_, err = env.cookbooks.Create(ctx, &model.Cookbook{Name: "Backen"})
	require.NoError(t, err)

	books, err := env.cookbooks.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Backen", books[0].Name)

	author := "H. Meier"
	updated, err := env.cookbooks.Update(ctx, b.ID, &model.Cookbook{Name: "Vegetarisch kochen", Author: &author})
	require.NoError(t, err)
	assert.Equal(t, "Vegetarisch kochen", updated.Name)
	assert.Equal(t, author, *updated.Author)

	_, err = env.cookbooks.Update(ctx, uuid.New(), &model.Cookbook{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCookbookDeleteDetachesRecipes(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	book, err := env.cookbooks.Create(ctx, &model.Cookbook{Name: "Vegetarisch"})
	require.NoError(t, err)

	r := testhelpers.RecipeFixture("Dal", 600, model.TagDinner)
	r.CookbookID = &book.ID
	pool := testhelpers.CreateRecipes(t, env.db, r)

	require.NoError(t, env.cookbooks.Delete(ctx, book.ID))

	got, err := env.recipes.Get(ctx, pool[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.CookbookID)
	assert.ErrorIs(t, env.cookbooks.Delete(ctx, book.ID), ErrNotFound)
}
