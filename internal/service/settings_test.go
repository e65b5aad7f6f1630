package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/weekplate/backend/internal/model"
)

func TestSettingsDefaultsUntilSaved(t *testing.T) {
	env := setup(t)
	got, err := env.settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, got.DailyCalorieTarget)
	assert.Equal(t, 3, got.MealsPerDay)
	assert.Equal(t, 45, got.TimeBudgetDinner)
}

func TestSettingsUpdateUpsertsSingleton(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	s := model.DefaultSettings()
	s.DailyCalorieTarget = 1800
	s.MealsPerDay = 5
	first, err := env.settings.Update(ctx, &s)
	require.NoError(t, err)

	again := model.DefaultSettings()
	again.DailyCalorieTarget = 1700
	second, err := env.settings.Update(ctx, &again)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, env.db.Model(&model.UserSettings{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1700, got.DailyCalorieTarget)
	assert.Equal(t, 3, got.MealsPerDay)
}

func TestSettingsUpdateValidates(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.UserSettings)
	}{
		{"meals per day", func(s *model.UserSettings) { s.MealsPerDay = 6 }},
		{"negative target", func(s *model.UserSettings) { s.DailyCalorieTarget = -1 }},
		{"negative budget", func(s *model.UserSettings) { s.TimeBudgetLunch = -10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.DefaultSettings()
			tt.mutate(&s)
			_, err := env.settings.Update(ctx, &s)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
