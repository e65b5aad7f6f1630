package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/internal/model"
)

// CookbookService manages the books recipes can point into
type CookbookService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCookbookService(db *gorm.DB, logger *zap.Logger) *CookbookService {
	return &CookbookService{db: db, logger: logger}
}

func (s *CookbookService) List(ctx context.Context) ([]*model.Cookbook, error) {
	var books []*model.Cookbook
	if err := s.db.WithContext(ctx).Order("name").Find(&books).Error; err != nil {
		return nil, translate(err, "list cookbooks")
	}
	return books, nil
}

func (s *CookbookService) Create(ctx context.Context, book *model.Cookbook) (*model.Cookbook, error) {
	book.Name = strings.TrimSpace(book.Name)
	if book.Name == "" {
		return nil, invalidf("name is required")
	}
	book.ID = uuid.Nil
	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, translate(err, "create cookbook")
	}
	return book, nil
}

func (s *CookbookService) Update(ctx context.Context, id uuid.UUID, book *model.Cookbook) (*model.Cookbook, error) {
	name := strings.TrimSpace(book.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}

	var existing model.Cookbook
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get cookbook")
	}
	existing.Name = name
	existing.Author = book.Author
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, translate(err, "update cookbook")
	}
	return &existing, nil
}

// Delete removes the cookbook and detaches its recipes
func (s *CookbookService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Recipe{}).Where("cookbook_id = ?", id).Update("cookbook_id", nil).Error; err != nil {
			return translate(err, "detach recipes")
		}
		res := tx.Delete(&model.Cookbook{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, "delete cookbook")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		s.logger.Info("Cookbook deleted", zap.String("id", id.String()))
		return nil
	})
}
