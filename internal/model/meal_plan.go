package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealType is one of the five daily slots, in fixed order
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack1    MealType = "snack_1"
	Snack2    MealType = "snack_2"
)

// MealTypes is the fixed slot order. meals_per_day activates a prefix of it.
var MealTypes = []MealType{Breakfast, Lunch, Dinner, Snack1, Snack2}

// Category maps the slot to the recipe tag it is filled from. Both snacks share "snack".
func (m MealType) Category() CategoryTag {
	switch m {
	case Snack1, Snack2:
		return TagSnack
	default:
		return CategoryTag(m)
	}
}

// Order is the slot's position in MealTypes, or len(MealTypes) when unknown
func (m MealType) Order() int {
	for i, t := range MealTypes {
		if t == m {
			return i
		}
	}
	return len(MealTypes)
}

func (m MealType) Valid() bool {
	return m.Order() < len(MealTypes)
}

// MealPlan is one (date, meal_type) slot. At most one row exists per pair.
type MealPlan struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Date             string     `gorm:"size:10;not null;uniqueIndex:idx_meal_plans_date_meal_type,priority:1" json:"date"`
	MealType         MealType   `gorm:"size:16;not null;uniqueIndex:idx_meal_plans_date_meal_type,priority:2" json:"meal_type"`
	RecipeID         *uuid.UUID `gorm:"type:uuid;index" json:"recipe_id"`
	Recipe           *Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:SET NULL" json:"recipe,omitempty"`
	Servings         int        `gorm:"not null;default:1" json:"servings"`
	IsCompleted      bool       `gorm:"not null" json:"is_completed"`
	IsFreeMeal       bool       `gorm:"not null" json:"is_free_meal"`
	FreeMealCalories *int       `json:"free_meal_calories"`
	FreeMealNote     *string    `gorm:"type:text" json:"free_meal_note"`
	IsMealPrep       bool       `gorm:"not null" json:"is_meal_prep"`
	MealPrepSourceID *uuid.UUID `gorm:"type:uuid" json:"meal_prep_source_id"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Servings < 1 {
		p.Servings = 1
	}
	return nil
}

// Key identifies the slot independently of its row id
func (p *MealPlan) Key() string {
	return p.Date + "_" + string(p.MealType)
}

// StripIdentity returns a copy without row id and timestamps
func (p MealPlan) StripIdentity() MealPlan {
	p.ID = uuid.Nil
	p.CreatedAt = time.Time{}
	p.UpdatedAt = time.Time{}
	return p
}

// MealPlanSlotColumns are the columns a regeneration upsert may overwrite
var MealPlanSlotColumns = []string{
	"recipe_id", "servings", "is_completed", "is_free_meal", "free_meal_calories",
	"free_meal_note", "is_meal_prep", "meal_prep_source_id", "updated_at",
}
