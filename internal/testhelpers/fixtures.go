package testhelpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/internal/model"
)

// IntPtr is shorthand for optional integer fields
func IntPtr(v int) *int { return &v }

// RecipeFixture builds a recipe with a calorie count, a 10 minute prep time and the given tags
func RecipeFixture(title string, calories int, tags ...model.CategoryTag) model.Recipe {
	return model.Recipe{
		Title:           title,
		Calories:        IntPtr(calories),
		PrepTimeMinutes: IntPtr(10),
		BaseServings:    1,
		CategoryTags:    tags,
		Ingredients: []model.Ingredient{
			{Name: title + " Basis", Amount: 100, Unit: "g", Category: model.Other},
		},
	}
}

// CreateRecipes inserts the recipes and returns them with their ids
func CreateRecipes(t *testing.T, db *gorm.DB, recipes ...model.Recipe) []model.Recipe {
	t.Helper()
	for i := range recipes {
		if err := db.Create(&recipes[i]).Error; err != nil {
			t.Fatalf("failed to create recipe %q: %v", recipes[i].Title, err)
		}
	}
	return recipes
}

// StandardPool is a small pool covering every category
func StandardPool() []model.Recipe {
	return []model.Recipe{
		RecipeFixture("Haferbrei", 400, model.TagBreakfast),
		RecipeFixture("Rührei", 450, model.TagBreakfast),
		RecipeFixture("Linsensuppe", 600, model.TagLunch),
		RecipeFixture("Nudelsalat", 650, model.TagLunch, model.TagDinner),
		RecipeFixture("Gemüsecurry", 800, model.TagDinner),
		RecipeFixture("Ofenlachs", 750, model.TagDinner),
		RecipeFixture("Apfel mit Nussmus", 200, model.TagSnack),
	}
}
