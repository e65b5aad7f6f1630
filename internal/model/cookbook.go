package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Cookbook struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Author    *string   `gorm:"size:255" json:"author"`
}

func (Cookbook) TableName() string {
	return "cookbooks"
}

func (c *Cookbook) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
