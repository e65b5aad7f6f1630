package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/servings"
	"github.com/pageza/weekplate/backend/internal/shopping"
)

// ShoppingService keeps one shopping list per week
type ShoppingService struct {
	db       *gorm.DB
	settings ISettingsService
	logger   *zap.Logger
}

func NewShoppingService(db *gorm.DB, settings ISettingsService, logger *zap.Logger) *ShoppingService {
	return &ShoppingService{db: db, settings: settings, logger: logger}
}

// Get returns the week's list. A week without a saved list yields an empty, unsaved one.
func (s *ShoppingService) Get(ctx context.Context, weekStart string) (*model.ShoppingList, error) {
	week, err := normalizeWeek(weekStart)
	if err != nil {
		return nil, err
	}
	var list model.ShoppingList
	err = s.db.WithContext(ctx).First(&list, "week_start = ?", week).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ShoppingList{WeekStart: week, Items: datatypes.JSONSlice[model.ShoppingListItem]{}}, nil
	}
	if err != nil {
		return nil, translate(err, "get shopping list")
	}
	return &list, nil
}

// Save replaces the week's items
func (s *ShoppingService) Save(ctx context.Context, weekStart string, items []model.ShoppingListItem) (*model.ShoppingList, error) {
	week, err := normalizeWeek(weekStart)
	if err != nil {
		return nil, err
	}
	clean := make(datatypes.JSONSlice[model.ShoppingListItem], 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, invalidf("item name is required")
		}
		if item.Amount < 0 {
			return nil, invalidf("amount of %q must not be negative", item.Name)
		}
		if item.Category == "" {
			item.Category = model.Other
		}
		clean = append(clean, item)
	}

	list := model.ShoppingList{WeekStart: week, Items: clean}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&list).Error
	if err != nil {
		return nil, translate(err, "save shopping list")
	}
	return s.Get(ctx, week)
}

// GenerateForWeek rebuilds the list from the week's planned meals
func (s *ShoppingService) GenerateForWeek(ctx context.Context, weekStart string) (*model.ShoppingList, error) {
	week, err := normalizeWeek(weekStart)
	if err != nil {
		return nil, err
	}
	start, _ := dates.Parse(week)
	days := dates.Strings(dates.WeekDates(start))

	var plans []model.MealPlan
	err = s.db.WithContext(ctx).Preload("Recipe").
		Where("date >= ? AND date <= ?", days[0], days[len(days)-1]).
		Find(&plans).Error
	if err != nil {
		return nil, translate(err, "load week plans")
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	items, log := shopping.Aggregate(plans, settings.PantryStaples)
	for _, e := range log {
		s.logger.Warn("Shopping list diagnostic", zap.String("kind", string(e.Kind)), zap.String("message", e.String()))
	}
	s.logger.Info("Shopping list generated", zap.String("week_start", week), zap.Int("items", len(items)))
	return s.Save(ctx, week, items)
}

// AddRecipe merges the recipe's ingredients, scaled to n servings, into the list
func (s *ShoppingService) AddRecipe(ctx context.Context, weekStart string, recipeID uuid.UUID, n int) (*model.ShoppingList, error) {
	if n < 1 {
		return nil, invalidf("servings must be at least 1")
	}
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, translate(err, "get recipe")
	}
	return s.merge(ctx, weekStart, servings.Scale(recipe.Ingredients, recipe.BaseServings, n))
}

// AddItem merges a manually entered item into the list
func (s *ShoppingService) AddItem(ctx context.Context, weekStart string, item model.ShoppingListItem) (*model.ShoppingList, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, invalidf("item name is required")
	}
	if item.Category == "" {
		item.Category = model.Other
	}
	return s.merge(ctx, weekStart, []model.Ingredient{{
		Name:     strings.TrimSpace(item.Name),
		Amount:   item.Amount,
		Unit:     item.Unit,
		Category: item.Category,
	}})
}

// ToggleItem flips the checked state of the item at index
func (s *ShoppingService) ToggleItem(ctx context.Context, weekStart string, index int) (*model.ShoppingList, error) {
	list, err := s.Get(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list.Items) {
		return nil, ErrNotFound
	}
	items := []model.ShoppingListItem(list.Items)
	items[index].IsChecked = !items[index].IsChecked
	return s.Save(ctx, list.WeekStart, items)
}

func (s *ShoppingService) merge(ctx context.Context, weekStart string, ingredients []model.Ingredient) (*model.ShoppingList, error) {
	list, err := s.Get(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, list.WeekStart, shopping.AddToList(list.Items, ingredients, settings.PantryStaples))
}

// normalizeWeek maps any date to the Monday of its week
func normalizeWeek(weekStart string) (string, error) {
	t, err := dates.Parse(weekStart)
	if err != nil {
		return "", invalidf("week_start: %v", err)
	}
	return dates.Format(dates.WeekStart(t)), nil
}
