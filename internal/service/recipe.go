package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/recipes"
	"github.com/pageza/weekplate/backend/internal/servings"
)

// ScaledRecipe is a recipe recalculated for a different number of servings
type ScaledRecipe struct {
	Recipe      *model.Recipe      `json:"recipe"`
	Servings    int                `json:"servings"`
	Ingredients []model.Ingredient `json:"ingredients"`
	Calories    *int               `json:"calories"`
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{db: db, logger: logger}
}

// List returns the recipes matching filters
func (s *RecipeService) List(ctx context.Context, filters recipes.Filters) ([]*model.Recipe, error) {
	var all []model.Recipe
	if err := s.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, translate(err, "list recipes")
	}

	filtered := recipes.Filter(all, filters)
	result := make([]*model.Recipe, len(filtered))
	for i := range filtered {
		result[i] = &filtered[i]
	}
	return result, nil
}

// Get retrieves a recipe by ID together with its cookbook
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).Preload("Cookbook").First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get recipe")
	}
	return &recipe, nil
}

// Create validates and stores a new recipe
func (s *RecipeService) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if err := s.validate(ctx, recipe); err != nil {
		return nil, err
	}
	recipe.ID = uuid.Nil
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return nil, translate(err, "create recipe")
	}
	s.logger.Info("Recipe created", zap.String("id", recipe.ID.String()), zap.String("title", recipe.Title))
	return s.Get(ctx, recipe.ID)
}

// Update replaces every editable field of the recipe
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, recipe); err != nil {
		return nil, err
	}

	recipe.ID = existing.ID
	recipe.CreatedAt = existing.CreatedAt
	recipe.Cookbook = nil
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(recipe).Error; err != nil {
		return nil, translate(err, "update recipe")
	}
	return s.Get(ctx, id)
}

// Delete removes a recipe. Meal slots pointing at it keep their date and lose the recipe.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.MealPlan{}).Where("recipe_id = ?", id).Update("recipe_id", nil).Error; err != nil {
			return translate(err, "detach meal plans")
		}
		res := tx.Delete(&model.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete recipe")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ToggleFavorite flips the favorite flag
func (s *RecipeService) ToggleFavorite(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return s.toggle(ctx, id, "is_favorite")
}

// ToggleExcluded flips the excluded flag, which hides the recipe from generation
func (s *RecipeService) ToggleExcluded(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	return s.toggle(ctx, id, "is_excluded")
}

func (s *RecipeService) toggle(ctx context.Context, id uuid.UUID, column string) (*model.Recipe, error) {
	res := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).
		Update(column, gorm.Expr("NOT "+column))
	if res.Error != nil {
		return nil, translate(res.Error, "toggle "+column)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Scaled returns the recipe's ingredients and calories for n servings
func (s *RecipeService) Scaled(ctx context.Context, id uuid.UUID, n int) (*ScaledRecipe, error) {
	if n < 1 {
		return nil, invalidf("servings must be at least 1")
	}
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ScaledRecipe{
		Recipe:      recipe,
		Servings:    n,
		Ingredients: servings.Scale(recipe.Ingredients, recipe.BaseServings, n),
		Calories:    servings.ScaleCalories(recipe.Calories, recipe.BaseServings, n),
	}, nil
}

func (s *RecipeService) validate(ctx context.Context, r *model.Recipe) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return invalidf("title is required")
	}
	if r.BaseServings == 0 {
		r.BaseServings = 1
	}
	if r.BaseServings < 1 {
		return invalidf("base_servings must be at least 1")
	}
	for _, tag := range r.CategoryTags {
		if !tag.Valid() {
			return invalidf("unknown category tag %q", tag)
		}
	}
	if r.Ingredients == nil {
		r.Ingredients = datatypes.JSONSlice[model.Ingredient]{}
	}
	if r.Steps == nil {
		r.Steps = datatypes.JSONSlice[model.RecipeStep]{}
	}
	if r.CategoryTags == nil {
		r.CategoryTags = datatypes.JSONSlice[model.CategoryTag]{}
	}
	for i := range r.Ingredients {
		if r.Ingredients[i].Category == "" {
			r.Ingredients[i].Category = model.Other
		}
		if r.Ingredients[i].Category.Rank() == len(model.IngredientCategories) {
			return invalidf("unknown ingredient category %q", r.Ingredients[i].Category)
		}
	}
	if r.Calories != nil && *r.Calories < 0 {
		return invalidf("calories must not be negative")
	}
	if r.PrepTimeMinutes != nil && *r.PrepTimeMinutes < 0 {
		return invalidf("prep_time_minutes must not be negative")
	}
	if r.CookbookID != nil {
		var n int64
		if err := s.db.WithContext(ctx).Model(&model.Cookbook{}).Where("id = ?", *r.CookbookID).Count(&n).Error; err != nil {
			return translate(err, "check cookbook")
		}
		if n == 0 {
			return invalidf("cookbook %s does not exist", *r.CookbookID)
		}
	}
	return nil
}
