package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShoppingListItem is one line on a weekly list
type ShoppingListItem struct {
	Name      string             `json:"name"`
	Amount    float64            `json:"amount"`
	Unit      string             `json:"unit"`
	Category  IngredientCategory `json:"category"`
	IsChecked bool               `json:"is_checked"`
}

// MergeKey is the case-insensitive identity used when combining items
func MergeKey(name, unit string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(unit))
}

// ShoppingList holds the items for one Monday-started week. Saving replaces Items wholesale.
type ShoppingList struct {
	ID        uuid.UUID                             `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time                             `json:"created_at"`
	UpdatedAt time.Time                             `json:"updated_at"`
	WeekStart string                                `gorm:"size:10;not null;uniqueIndex" json:"week_start"`
	Items     datatypes.JSONSlice[ShoppingListItem] `gorm:"not null" json:"items"`
}

func (ShoppingList) TableName() string {
	return "shopping_lists"
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Items == nil {
		l.Items = datatypes.JSONSlice[ShoppingListItem]{}
	}
	return nil
}
