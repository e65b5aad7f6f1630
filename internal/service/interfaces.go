package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/weekplate/backend/internal/history"
	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/recipes"
)

// IRecipeService defines the interface for recipe catalog operations
type IRecipeService interface {
	List(ctx context.Context, filters recipes.Filters) ([]*model.Recipe, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	ToggleExcluded(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	Scaled(ctx context.Context, id uuid.UUID, servings int) (*ScaledRecipe, error)
}

// ICookbookService defines the interface for cookbook operations
type ICookbookService interface {
	List(ctx context.Context) ([]*model.Cookbook, error)
	Create(ctx context.Context, cookbook *model.Cookbook) (*model.Cookbook, error)
	Update(ctx context.Context, id uuid.UUID, cookbook *model.Cookbook) (*model.Cookbook, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IMealPlanService defines the interface for meal plan operations
type IMealPlanService interface {
	ListRange(ctx context.Context, start, end string) ([]*model.MealPlan, error)
	GenerateWeek(ctx context.Context, weekStart string) (*GenerationResult, error)
	GenerateDay(ctx context.Context, date string) (*GenerationResult, error)
	UpdateServings(ctx context.Context, id uuid.UUID, servings int) (*model.MealPlan, error)
	Swap(ctx context.Context, id, recipeID uuid.UUID) (*model.MealPlan, error)
	SwapCandidates(ctx context.Context, id uuid.UUID) ([]*model.Recipe, error)
	Complete(ctx context.Context, id uuid.UUID) (*model.MealPlan, error)
	Uncomplete(ctx context.Context, id uuid.UUID) (*model.MealPlan, error)
	MarkFreeMeal(ctx context.Context, id uuid.UUID, calories int, note string) (*model.MealPlan, error)
	PlanMealPrep(ctx context.Context, sourceID uuid.UUID, dates []string) ([]*model.MealPlan, error)
	DeleteRange(ctx context.Context, start, end string, keepCompleted bool) (int64, error)
}

// IShoppingService defines the interface for weekly shopping list operations
type IShoppingService interface {
	Get(ctx context.Context, weekStart string) (*model.ShoppingList, error)
	Save(ctx context.Context, weekStart string, items []model.ShoppingListItem) (*model.ShoppingList, error)
	GenerateForWeek(ctx context.Context, weekStart string) (*model.ShoppingList, error)
	AddRecipe(ctx context.Context, weekStart string, recipeID uuid.UUID, servings int) (*model.ShoppingList, error)
	AddItem(ctx context.Context, weekStart string, item model.ShoppingListItem) (*model.ShoppingList, error)
	ToggleItem(ctx context.Context, weekStart string, index int) (*model.ShoppingList, error)
}

// ISettingsService defines the interface for the settings singleton
type ISettingsService interface {
	Get(ctx context.Context) (*model.UserSettings, error)
	Update(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error)
}

// IWeightService defines the interface for the body weight log
type IWeightService interface {
	List(ctx context.Context, limit int) ([]*model.WeightLogEntry, error)
	Log(ctx context.Context, date string, weightKg float64) (*model.WeightLogEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IReviewService defines the interface for calorie history and streaks
type IReviewService interface {
	DailyCalories(ctx context.Context, start, end string) ([]history.DailySummary, error)
	Streak(ctx context.Context) (int, error)
	WeeklyReview(ctx context.Context, weekStart string) (*history.WeeklyReview, error)
}

// IPhotoService defines the interface for recipe photo storage
type IPhotoService interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// IImportService defines the interface for turning cookbook photos into recipes
type IImportService interface {
	Parse(ctx context.Context, image []byte, mimeType string) (*RecipeDraft, error)
	GetDraft(ctx context.Context, id string) (*RecipeDraft, error)
	DeleteDraft(ctx context.Context, id string) error
	ConfirmDraft(ctx context.Context, id string, req ConfirmDraftRequest) (*model.Recipe, error)
}
