package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/model"
)

// DefaultWeightLimit is how many entries List returns when no limit is given
const DefaultWeightLimit = 90

type WeightService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewWeightService(db *gorm.DB, logger *zap.Logger) *WeightService {
	return &WeightService{db: db, logger: logger}
}

// List returns the most recent entries, newest first
func (s *WeightService) List(ctx context.Context, limit int) ([]*model.WeightLogEntry, error) {
	if limit <= 0 {
		limit = DefaultWeightLimit
	}
	var entries []*model.WeightLogEntry
	if err := s.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, translate(err, "list weight log")
	}
	return entries, nil
}

// Log records the weight for date, replacing an earlier entry for the same day
func (s *WeightService) Log(ctx context.Context, date string, weightKg float64) (*model.WeightLogEntry, error) {
	if !dates.Valid(date) {
		return nil, invalidf("date must be YYYY-MM-DD, got %q", date)
	}
	if weightKg <= 0 {
		return nil, invalidf("weight_kg must be positive")
	}

	entry := model.WeightLogEntry{Date: date, WeightKg: weightKg}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight_kg", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return nil, translate(err, "log weight")
	}

	var stored model.WeightLogEntry
	if err := s.db.WithContext(ctx).First(&stored, "date = ?", date).Error; err != nil {
		return nil, translate(err, "reload weight entry")
	}
	s.logger.Info("Weight logged", zap.String("date", date), zap.Float64("weight_kg", weightKg))
	return &stored, nil
}

func (s *WeightService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&model.WeightLogEntry{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete weight entry")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
