package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserSettings is the single configuration row read by the planner
type UserSettings struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
	DailyCalorieTarget  int                         `gorm:"not null" json:"daily_calorie_target" validate:"gte=0,lte=20000"`
	MealsPerDay         int                         `gorm:"not null" json:"meals_per_day" validate:"oneof=3 4 5"`
	TimeBudgetBreakfast int                         `gorm:"not null" json:"time_budget_breakfast" validate:"gte=0"`
	TimeBudgetLunch     int                         `gorm:"not null" json:"time_budget_lunch" validate:"gte=0"`
	TimeBudgetDinner    int                         `gorm:"not null" json:"time_budget_dinner" validate:"gte=0"`
	TimeBudgetSnack     int                         `gorm:"not null" json:"time_budget_snack" validate:"gte=0"`
	StartWeightKg       *float64                    `json:"start_weight_kg" validate:"omitempty,gt=0"`
	TargetWeightKg      *float64                    `json:"target_weight_kg" validate:"omitempty,gt=0"`
	PantryStaples       datatypes.JSONSlice[string] `gorm:"not null" json:"pantry_staples"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.PantryStaples == nil {
		s.PantryStaples = datatypes.JSONSlice[string]{}
	}
	return nil
}

// DefaultSettings is what a fresh install plans with
func DefaultSettings() UserSettings {
	return UserSettings{
		DailyCalorieTarget:  2000,
		MealsPerDay:         3,
		TimeBudgetBreakfast: 15,
		TimeBudgetLunch:     30,
		TimeBudgetDinner:    45,
		TimeBudgetSnack:     10,
		PantryStaples:       datatypes.JSONSlice[string]{"Salz", "Pfeffer", "Olivenöl"},
	}
}

// TimeBudget returns the minutes allowed for the slot. Both snacks share the snack budget.
func (s *UserSettings) TimeBudget(m MealType) int {
	switch m {
	case Breakfast:
		return s.TimeBudgetBreakfast
	case Lunch:
		return s.TimeBudgetLunch
	case Dinner:
		return s.TimeBudgetDinner
	case Snack1, Snack2:
		return s.TimeBudgetSnack
	}
	return 0
}

// ActiveMealTypes returns the slots enabled by MealsPerDay, or nil when it is out of range
func (s *UserSettings) ActiveMealTypes() []MealType {
	if s.MealsPerDay < 3 || s.MealsPerDay > len(MealTypes) {
		return nil
	}
	return MealTypes[:s.MealsPerDay]
}
