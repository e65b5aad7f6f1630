// Package mocks holds testify mocks of the service interfaces for handler tests.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/weekplate/backend/internal/history"
	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/recipes"
	"github.com/pageza/weekplate/backend/internal/service"
)

var (
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.ICookbookService = (*MockCookbookService)(nil)
	_ service.IMealPlanService = (*MockMealPlanService)(nil)
	_ service.IShoppingService = (*MockShoppingService)(nil)
	_ service.ISettingsService = (*MockSettingsService)(nil)
	_ service.IWeightService   = (*MockWeightService)(nil)
	_ service.IReviewService   = (*MockReviewService)(nil)
	_ service.IPhotoService    = (*MockPhotoService)(nil)
	_ service.IImportService   = (*MockImportService)(nil)
)

func recipeOrNil(args mock.Arguments) (*model.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func slotOrNil(args mock.Arguments) (*model.MealPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealPlan), args.Error(1)
}

func listOrNil(args mock.Arguments) (*model.ShoppingList, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingList), args.Error(1)
}

// MockRecipeService is a mock implementation of IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) List(ctx context.Context, filters recipes.Filters) ([]*model.Recipe, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return recipeOrNil(m.Called(ctx, id))
}

func (m *MockRecipeService) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	return recipeOrNil(m.Called(ctx, recipe))
}

func (m *MockRecipeService) Update(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	return recipeOrNil(m.Called(ctx, id, recipe))
}

func (m *MockRecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeService) ToggleFavorite(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return recipeOrNil(m.Called(ctx, id))
}

func (m *MockRecipeService) ToggleExcluded(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return recipeOrNil(m.Called(ctx, id))
}

func (m *MockRecipeService) Scaled(ctx context.Context, id uuid.UUID, servings int) (*service.ScaledRecipe, error) {
	args := m.Called(ctx, id, servings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScaledRecipe), args.Error(1)
}

// MockCookbookService is a mock implementation of ICookbookService
type MockCookbookService struct {
	mock.Mock
}

func (m *MockCookbookService) List(ctx context.Context) ([]*model.Cookbook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Cookbook), args.Error(1)
}

func (m *MockCookbookService) Create(ctx context.Context, cookbook *model.Cookbook) (*model.Cookbook, error) {
	args := m.Called(ctx, cookbook)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cookbook), args.Error(1)
}

func (m *MockCookbookService) Update(ctx context.Context, id uuid.UUID, cookbook *model.Cookbook) (*model.Cookbook, error) {
	args := m.Called(ctx, id, cookbook)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cookbook), args.Error(1)
}

func (m *MockCookbookService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockMealPlanService is a mock implementation of IMealPlanService
type MockMealPlanService struct {
	mock.Mock
}

func (m *MockMealPlanService) ListRange(ctx context.Context, start, end string) ([]*model.MealPlan, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MealPlan), args.Error(1)
}

func (m *MockMealPlanService) GenerateWeek(ctx context.Context, weekStart string) (*service.GenerationResult, error) {
	args := m.Called(ctx, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *MockMealPlanService) GenerateDay(ctx context.Context, date string) (*service.GenerationResult, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerationResult), args.Error(1)
}

func (m *MockMealPlanService) UpdateServings(ctx context.Context, id uuid.UUID, servings int) (*model.MealPlan, error) {
	return slotOrNil(m.Called(ctx, id, servings))
}

func (m *MockMealPlanService) Swap(ctx context.Context, id, recipeID uuid.UUID) (*model.MealPlan, error) {
	return slotOrNil(m.Called(ctx, id, recipeID))
}

func (m *MockMealPlanService) SwapCandidates(ctx context.Context, id uuid.UUID) ([]*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

func (m *MockMealPlanService) Complete(ctx context.Context, id uuid.UUID) (*model.MealPlan, error) {
	return slotOrNil(m.Called(ctx, id))
}

func (m *MockMealPlanService) Uncomplete(ctx context.Context, id uuid.UUID) (*model.MealPlan, error) {
	return slotOrNil(m.Called(ctx, id))
}

func (m *MockMealPlanService) MarkFreeMeal(ctx context.Context, id uuid.UUID, calories int, note string) (*model.MealPlan, error) {
	return slotOrNil(m.Called(ctx, id, calories, note))
}

func (m *MockMealPlanService) PlanMealPrep(ctx context.Context, sourceID uuid.UUID, dates []string) ([]*model.MealPlan, error) {
	args := m.Called(ctx, sourceID, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MealPlan), args.Error(1)
}

func (m *MockMealPlanService) DeleteRange(ctx context.Context, start, end string, keepCompleted bool) (int64, error) {
	args := m.Called(ctx, start, end, keepCompleted)
	return args.Get(0).(int64), args.Error(1)
}

// MockShoppingService is a mock implementation of IShoppingService
type MockShoppingService struct {
	mock.Mock
}

func (m *MockShoppingService) Get(ctx context.Context, weekStart string) (*model.ShoppingList, error) {
	return listOrNil(m.Called(ctx, weekStart))
}

func (m *MockShoppingService) Save(ctx context.Context, weekStart string, items []model.ShoppingListItem) (*model.ShoppingList, error) {
	return listOrNil(m.Called(ctx, weekStart, items))
}

func (m *MockShoppingService) GenerateForWeek(ctx context.Context, weekStart string) (*model.ShoppingList, error) {
	return listOrNil(m.Called(ctx, weekStart))
}

func (m *MockShoppingService) AddRecipe(ctx context.Context, weekStart string, recipeID uuid.UUID, servings int) (*model.ShoppingList, error) {
	return listOrNil(m.Called(ctx, weekStart, recipeID, servings))
}

func (m *MockShoppingService) AddItem(ctx context.Context, weekStart string, item model.ShoppingListItem) (*model.ShoppingList, error) {
	return listOrNil(m.Called(ctx, weekStart, item))
}

func (m *MockShoppingService) ToggleItem(ctx context.Context, weekStart string, index int) (*model.ShoppingList, error) {
	return listOrNil(m.Called(ctx, weekStart, index))
}

// MockSettingsService is a mock implementation of ISettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*model.UserSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error) {
	args := m.Called(ctx, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

// MockWeightService is a mock implementation of IWeightService
type MockWeightService struct {
	mock.Mock
}

func (m *MockWeightService) List(ctx context.Context, limit int) ([]*model.WeightLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WeightLogEntry), args.Error(1)
}

func (m *MockWeightService) Log(ctx context.Context, date string, weightKg float64) (*model.WeightLogEntry, error) {
	args := m.Called(ctx, date, weightKg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeightLogEntry), args.Error(1)
}

func (m *MockWeightService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockReviewService is a mock implementation of IReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) DailyCalories(ctx context.Context, start, end string) ([]history.DailySummary, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.DailySummary), args.Error(1)
}

func (m *MockReviewService) Streak(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewService) WeeklyReview(ctx context.Context, weekStart string) (*history.WeeklyReview, error) {
	args := m.Called(ctx, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.WeeklyReview), args.Error(1)
}

// MockPhotoService is a mock implementation of IPhotoService
type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	args := m.Called(ctx, data, filename, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockPhotoService) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

// MockImportService is a mock implementation of IImportService
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Parse(ctx context.Context, image []byte, mimeType string) (*service.RecipeDraft, error) {
	args := m.Called(ctx, image, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDraft), args.Error(1)
}

func (m *MockImportService) GetDraft(ctx context.Context, id string) (*service.RecipeDraft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDraft), args.Error(1)
}

func (m *MockImportService) DeleteDraft(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockImportService) ConfirmDraft(ctx context.Context, id string, req service.ConfirmDraftRequest) (*model.Recipe, error) {
	return recipeOrNil(m.Called(ctx, id, req))
}
