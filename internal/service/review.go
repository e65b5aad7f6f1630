package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/history"
	"github.com/pageza/weekplate/backend/internal/model"
)

// ReviewService answers calorie history, streak and weekly review questions
type ReviewService struct {
	db       *gorm.DB
	settings ISettingsService
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewReviewService creates a ReviewService that decides "today" in loc. A nil loc means UTC.
func NewReviewService(db *gorm.DB, settings ISettingsService, loc *time.Location, logger *zap.Logger) *ReviewService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReviewService{
		db:       db,
		settings: settings,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock, for tests
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

func (s *ReviewService) DailyCalories(ctx context.Context, start, end string) ([]history.DailySummary, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.completedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return history.AggregateDailyCalories(plans, settings.DailyCalorieTarget), nil
}

// Streak counts the consecutive days with a completed slot up to today
func (s *ReviewService) Streak(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	plans, err := s.recent(ctx, now)
	if err != nil {
		return 0, err
	}
	return history.CalculateStreak(plans, now), nil
}

func (s *ReviewService) WeeklyReview(ctx context.Context, weekStart string) (*history.WeeklyReview, error) {
	t, err := dates.Parse(weekStart)
	if err != nil {
		return nil, invalidf("week_start: %v", err)
	}
	monday := dates.WeekStart(t)
	week := dates.Strings(dates.WeekDates(monday))

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	weekPlans, err := s.completedBetween(ctx, week[0], week[len(week)-1])
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.loc)
	recent, err := s.recent(ctx, now)
	if err != nil {
		return nil, err
	}

	var weights []model.WeightLogEntry
	err = s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", week[0], week[len(week)-1]).
		Order("date").Find(&weights).Error
	if err != nil {
		return nil, translate(err, "load weight log")
	}

	review := history.BuildWeeklyReview(monday, weekPlans, recent, weights, settings.DailyCalorieTarget, now)
	return &review, nil
}

func (s *ReviewService) recent(ctx context.Context, now time.Time) ([]model.MealPlan, error) {
	today := dates.Midnight(now)
	return s.completedBetween(ctx, dates.Format(dates.SubDays(today, history.StreakLookback)), dates.Format(today))
}

func (s *ReviewService) completedBetween(ctx context.Context, start, end string) ([]model.MealPlan, error) {
	var plans []model.MealPlan
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("date >= ? AND date <= ? AND is_completed = ?", start, end, true).
		Find(&plans).Error
	if err != nil {
		return nil, translate(err, "load completed slots")
	}
	return plans, nil
}
