package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WeightLogEntry is the body weight recorded for a day; one per date
type WeightLogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Date      string    `gorm:"size:10;not null;uniqueIndex" json:"date"`
	WeightKg  float64   `gorm:"not null" json:"weight_kg"`
}

func (WeightLogEntry) TableName() string {
	return "weight_log"
}

func (w *WeightLogEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
