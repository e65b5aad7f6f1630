package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/internal/model"
)

// SettingsService reads and writes the single settings row
type SettingsService struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSettingsService(db *gorm.DB, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		db:       db,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns the stored settings, or the defaults when none were saved yet
func (s *SettingsService) Get(ctx context.Context) (*model.UserSettings, error) {
	var settings model.UserSettings
	err := s.db.WithContext(ctx).Order("created_at").First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, translate(err, "get settings")
	}
	return &settings, nil
}

// Update validates and stores the settings, creating the row on first use
func (s *SettingsService) Update(ctx context.Context, settings *model.UserSettings) (*model.UserSettings, error) {
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			}
			return nil, invalidf("%s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("failed to validate settings: %w", err)
	}
	if settings.PantryStaples == nil {
		settings.PantryStaples = datatypes.JSONSlice[string]{}
	}

	var existing model.UserSettings
	err := s.db.WithContext(ctx).Order("created_at").First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings.ID = uuid.Nil
		err = s.db.WithContext(ctx).Create(settings).Error
	case err != nil:
		return nil, translate(err, "load settings")
	default:
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
		err = s.db.WithContext(ctx).Save(settings).Error
	}
	if err != nil {
		return nil, translate(err, "save settings")
	}

	s.logger.Info("Settings updated",
		zap.Int("daily_calorie_target", settings.DailyCalorieTarget),
		zap.Int("meals_per_day", settings.MealsPerDay),
	)
	return settings, nil
}
