package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryTag places a recipe into one or more meal categories
type CategoryTag string

const (
	TagBreakfast CategoryTag = "breakfast"
	TagLunch     CategoryTag = "lunch"
	TagDinner    CategoryTag = "dinner"
	TagSnack     CategoryTag = "snack"
)

// CategoryTags lists every valid tag
var CategoryTags = []CategoryTag{TagBreakfast, TagLunch, TagDinner, TagSnack}

// Valid reports whether t is a known tag
func (t CategoryTag) Valid() bool {
	for _, c := range CategoryTags {
		if c == t {
			return true
		}
	}
	return false
}

// IngredientCategory groups ingredients on the shopping list
type IngredientCategory string

const (
	FruitsVegetables IngredientCategory = "fruits_vegetables"
	MeatFish         IngredientCategory = "meat_fish"
	Dairy            IngredientCategory = "dairy"
	DryGoods         IngredientCategory = "dry_goods"
	Spices           IngredientCategory = "spices"
	Other            IngredientCategory = "other"
)

// IngredientCategories is the fixed shopping-list order
var IngredientCategories = []IngredientCategory{FruitsVegetables, MeatFish, Dairy, DryGoods, Spices, Other}

// Rank returns the category's position in IngredientCategories. Unknown categories sort last.
func (c IngredientCategory) Rank() int {
	for i, v := range IngredientCategories {
		if v == c {
			return i
		}
	}
	return len(IngredientCategories)
}

// Ingredient is an amount of something, written for the recipe's base servings
type Ingredient struct {
	Name     string             `json:"name"`
	Amount   float64            `json:"amount"`
	Unit     string             `json:"unit"`
	Category IngredientCategory `json:"category"`
}

// RecipeStep is one instruction, optionally with a timer
type RecipeStep struct {
	StepNumber      int    `json:"step_number"`
	Instruction     string `json:"instruction"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
}

// Recipe is a catalog entry the planner can assign to meal slots
type Recipe struct {
	ID              uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt       time.Time                        `json:"created_at"`
	UpdatedAt       time.Time                        `json:"updated_at"`
	Title           string                           `gorm:"size:255;not null" json:"title"`
	CookbookID      *uuid.UUID                       `gorm:"type:uuid;index" json:"cookbook_id"`
	Cookbook        *Cookbook                        `gorm:"foreignKey:CookbookID;constraint:OnDelete:SET NULL" json:"cookbook,omitempty"`
	PageNumber      *int                             `json:"page_number"`
	Ingredients     datatypes.JSONSlice[Ingredient]  `gorm:"not null" json:"ingredients"`
	Steps           datatypes.JSONSlice[RecipeStep]  `gorm:"not null" json:"steps"`
	Calories        *int                             `json:"calories"`
	ProteinG        *float64                         `json:"protein_g"`
	CarbsG          *float64                         `json:"carbs_g"`
	FatG            *float64                         `json:"fat_g"`
	PrepTimeMinutes *int                             `json:"prep_time_minutes"`
	BaseServings    int                              `gorm:"not null;default:1" json:"base_servings"`
	CategoryTags    datatypes.JSONSlice[CategoryTag] `gorm:"not null" json:"category_tags"`
	IsFavorite      bool                             `gorm:"not null" json:"is_favorite"`
	IsExcluded      bool                             `gorm:"not null" json:"is_excluded"`
	PhotoURL        *string                          `gorm:"size:512" json:"photo_url"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an id and fills the invariants gorm cannot express
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.BaseServings < 1 {
		r.BaseServings = 1
	}
	if r.Ingredients == nil {
		r.Ingredients = datatypes.JSONSlice[Ingredient]{}
	}
	if r.Steps == nil {
		r.Steps = datatypes.JSONSlice[RecipeStep]{}
	}
	if r.CategoryTags == nil {
		r.CategoryTags = datatypes.JSONSlice[CategoryTag]{}
	}
	return nil
}

// HasTag reports whether the recipe carries tag
func (r *Recipe) HasTag(tag CategoryTag) bool {
	for _, t := range r.CategoryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// CalorieCount returns the calories or 0 when unknown
func (r *Recipe) CalorieCount() int {
	if r == nil || r.Calories == nil {
		return 0
	}
	return *r.Calories
}

// MatchesSearch reports whether q appears in the title or any ingredient name, case-insensitively
func (r *Recipe) MatchesSearch(q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), q) {
			return true
		}
	}
	return false
}
