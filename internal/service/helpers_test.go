package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/planner"
	"github.com/pageza/weekplate/backend/internal/testhelpers"
)

type testEnv struct {
	db        *gorm.DB
	recipes   *RecipeService
	cookbooks *CookbookService
	settings  *SettingsService
	plans     *MealPlanService
	shopping  *ShoppingService
	weight    *WeightService
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	log := zap.NewNop()
	settings := NewSettingsService(db, log)
	return &testEnv{
		db:        db,
		recipes:   NewRecipeService(db, log),
		cookbooks: NewCookbookService(db, log),
		settings:  settings,
		plans:     NewMealPlanService(db, settings, planner.New(planner.NewSeededSource(42)), nil, log),
		shopping:  NewShoppingService(db, settings, log),
		weight:    NewWeightService(db, log),
	}
}

// byTitle indexes created recipes for lookups in assertions
func byTitle(rs []model.Recipe) map[string]model.Recipe {
	out := make(map[string]model.Recipe, len(rs))
	for _, r := range rs {
		out[r.Title] = r
	}
	return out
}

func createSlot(t *testing.T, db *gorm.DB, slot model.MealPlan) model.MealPlan {
	t.Helper()
	require.NoError(t, db.Create(&slot).Error)
	return slot
}

func countSlots(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.MealPlan{}).Count(&n).Error)
	return n
}
