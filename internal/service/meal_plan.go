package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/diagnostics"
	"github.com/pageza/weekplate/backend/internal/metrics"
	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/planner"
	"github.com/pageza/weekplate/backend/internal/recipes"
)

// GenerationResult is the stored plan of a generation run and what the planner reported
type GenerationResult struct {
	Slots       []*model.MealPlan `json:"slots"`
	Diagnostics diagnostics.Log   `json:"diagnostics"`
}

// MealPlanService handles meal slot operations
type MealPlanService struct {
	db        *gorm.DB
	settings  ISettingsService
	generator *planner.Generator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewMealPlanService creates a new MealPlanService. m may be nil.
func NewMealPlanService(db *gorm.DB, settings ISettingsService, generator *planner.Generator, m *metrics.Metrics, logger *zap.Logger) *MealPlanService {
	if generator == nil {
		generator = planner.New(nil)
	}
	return &MealPlanService{
		db:        db,
		settings:  settings,
		generator: generator,
		metrics:   m,
		logger:    logger,
	}
}

// ListRange returns the slots between start and end inclusive, ordered by date then slot
func (s *MealPlanService) ListRange(ctx context.Context, start, end string) ([]*model.MealPlan, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	var plans []*model.MealPlan
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("date >= ? AND date <= ?", start, end).
		Find(&plans).Error
	if err != nil {
		return nil, translate(err, "list meal plans")
	}
	sortSlots(plans)
	return plans, nil
}

// GenerateWeek plans the Monday-started week containing weekStart
func (s *MealPlanService) GenerateWeek(ctx context.Context, weekStart string) (*GenerationResult, error) {
	t, err := dates.Parse(weekStart)
	if err != nil {
		return nil, invalidf("week_start: %v", err)
	}
	return s.generate(ctx, "week", dates.Strings(dates.WeekDates(dates.WeekStart(t))))
}

// GenerateDay plans a single date
func (s *MealPlanService) GenerateDay(ctx context.Context, date string) (*GenerationResult, error) {
	if !dates.Valid(date) {
		return nil, invalidf("date must be YYYY-MM-DD, got %q", date)
	}
	return s.generate(ctx, "day", []string{date})
}

func (s *MealPlanService) generate(ctx context.Context, scope string, days []string) (*GenerationResult, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var pool []model.Recipe
	if err := s.db.WithContext(ctx).Find(&pool).Error; err != nil {
		return nil, translate(err, "load recipes")
	}

	var completed []model.MealPlan
	err = s.db.WithContext(ctx).Preload("Recipe").
		Where("date IN ? AND is_completed = ?", days, true).
		Find(&completed).Error
	if err != nil {
		return nil, translate(err, "load completed slots")
	}

	res := s.generator.Generate(planner.Input{
		Recipes:           pool,
		Settings:          *settings,
		Dates:             days,
		ExistingCompleted: completed,
	})

	fresh := make([]model.MealPlan, 0, len(res.Slots))
	for _, slot := range res.Slots {
		if !slot.IsCompleted {
			fresh = append(fresh, slot)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date IN ? AND is_completed = ?", days, false).Delete(&model.MealPlan{}).Error; err != nil {
			return translate(err, "clear open slots")
		}
		if len(fresh) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Clauses(openSlotUpsert()).Create(&fresh).Error; err != nil {
			return translate(err, "store generated slots")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range res.Log {
		if e.Kind == diagnostics.PreservedCompleted {
			continue
		}
		s.logger.Warn("Planner diagnostic",
			zap.String("kind", string(e.Kind)),
			zap.String("date", e.Date),
			zap.String("meal_type", e.MealType),
			zap.String("message", e.Message),
		)
	}
	assigned := res.Assigned()
	if s.metrics != nil {
		s.metrics.RecordPlan(scope, assigned, len(res.Slots)-assigned, res.Log)
	}
	s.logger.Info("Meal plan generated",
		zap.String("scope", scope),
		zap.String("first_date", days[0]),
		zap.Int("slots", len(res.Slots)),
		zap.Int("assigned", assigned),
		zap.Int("diagnostics", len(res.Log)),
	)

	slots, err := s.ListRange(ctx, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}
	return &GenerationResult{Slots: slots, Diagnostics: res.Log}, nil
}

// UpdateServings changes how many servings a slot is cooked for
func (s *MealPlanService) UpdateServings(ctx context.Context, id uuid.UUID, n int) (*model.MealPlan, error) {
	if n < 1 {
		return nil, invalidf("servings must be at least 1")
	}
	return s.update(ctx, id, map[string]interface{}{"servings": n})
}

// Swap replaces the slot's recipe. Completed and free-meal slots are rejected.
func (s *MealPlanService) Swap(ctx context.Context, id, recipeID uuid.UUID) (*model.MealPlan, error) {
	slot, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot.IsCompleted {
		return nil, ErrSlotCompleted
	}
	if slot.IsFreeMeal {
		return nil, ErrFreeMealHasRecipe
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return nil, translate(err, "check recipe")
	}
	if n == 0 {
		return nil, invalidf("recipe %s does not exist", recipeID)
	}

	return s.update(ctx, id, map[string]interface{}{
		"recipe_id":           recipeID,
		"is_meal_prep":        false,
		"meal_prep_source_id": nil,
	})
}

// SwapCandidates lists the recipes that could replace the slot's current one
func (s *MealPlanService) SwapCandidates(ctx context.Context, id uuid.UUID) ([]*model.Recipe, error) {
	slot, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	var pool []model.Recipe
	if err := s.db.WithContext(ctx).Find(&pool).Error; err != nil {
		return nil, translate(err, "load recipes")
	}

	eligible := planner.Eligible(pool, slot.MealType, settings, nil)
	out := make([]*model.Recipe, 0, len(eligible))
	for _, r := range eligible {
		if slot.RecipeID != nil && r.ID == *slot.RecipeID {
			continue
		}
		out = append(out, r)
	}
	recipes.SortForSwap(out)
	return out, nil
}

func (s *MealPlanService) Complete(ctx context.Context, id uuid.UUID) (*model.MealPlan, error) {
	return s.update(ctx, id, map[string]interface{}{"is_completed": true})
}

// Uncomplete reopens the slot and drops any free-meal data
func (s *MealPlanService) Uncomplete(ctx context.Context, id uuid.UUID) (*model.MealPlan, error) {
	return s.update(ctx, id, map[string]interface{}{
		"is_completed":       false,
		"is_free_meal":       false,
		"free_meal_calories": nil,
		"free_meal_note":     nil,
	})
}

// MarkFreeMeal records an unplanned meal eaten in the slot
func (s *MealPlanService) MarkFreeMeal(ctx context.Context, id uuid.UUID, calories int, note string) (*model.MealPlan, error) {
	if calories < 0 {
		return nil, invalidf("calories must not be negative")
	}
	var notePtr *string
	if note = strings.TrimSpace(note); note != "" {
		notePtr = &note
	}
	return s.update(ctx, id, map[string]interface{}{
		"is_completed":        true,
		"is_free_meal":        true,
		"free_meal_calories":  calories,
		"free_meal_note":      notePtr,
		"recipe_id":           nil,
		"is_meal_prep":        false,
		"meal_prep_source_id": nil,
	})
}

// PlanMealPrep repeats the source slot's recipe in the same meal type on the
// given dates. Completed target slots are left alone.
func (s *MealPlanService) PlanMealPrep(ctx context.Context, sourceID uuid.UUID, days []string) ([]*model.MealPlan, error) {
	if len(days) == 0 {
		return nil, invalidf("at least one date is required")
	}
	for _, d := range days {
		if !dates.Valid(d) {
			return nil, invalidf("date must be YYYY-MM-DD, got %q", d)
		}
	}

	source, err := s.get(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if source.RecipeID == nil {
		return nil, invalidf("source slot has no recipe")
	}

	var targets []model.MealPlan
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var completed []string
		err := tx.Model(&model.MealPlan{}).
			Where("date IN ? AND meal_type = ? AND is_completed = ?", days, source.MealType, true).
			Pluck("date", &completed).Error
		if err != nil {
			return translate(err, "load completed targets")
		}
		skip := make(map[string]bool, len(completed)+1)
		for _, d := range completed {
			skip[d] = true
		}
		skip[source.Date] = true

		for _, d := range days {
			if skip[d] {
				continue
			}
			skip[d] = true
			targets = append(targets, model.MealPlan{
				Date:             d,
				MealType:         source.MealType,
				RecipeID:         source.RecipeID,
				Servings:         source.Servings,
				IsMealPrep:       true,
				MealPrepSourceID: &source.ID,
			})
		}
		if len(targets) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Clauses(openSlotUpsert()).Create(&targets).Error; err != nil {
			return translate(err, "store meal prep slots")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	planned := make([]string, len(targets))
	for i := range targets {
		planned[i] = targets[i].Date
	}
	var out []*model.MealPlan
	if len(planned) > 0 {
		err = s.db.WithContext(ctx).Preload("Recipe").
			Where("date IN ? AND meal_type = ?", planned, source.MealType).
			Find(&out).Error
		if err != nil {
			return nil, translate(err, "reload meal prep slots")
		}
	}
	sortSlots(out)
	s.logger.Info("Meal prep planned",
		zap.String("source_id", sourceID.String()),
		zap.Strings("dates", planned),
	)
	return out, nil
}

// DeleteRange removes the slots between start and end, optionally keeping completed ones
func (s *MealPlanService) DeleteRange(ctx context.Context, start, end string, keepCompleted bool) (int64, error) {
	if err := checkRange(start, end); err != nil {
		return 0, err
	}
	q := s.db.WithContext(ctx).Where("date >= ? AND date <= ?", start, end)
	if keepCompleted {
		q = q.Where("is_completed = ?", false)
	}
	res := q.Delete(&model.MealPlan{})
	if res.Error != nil {
		return 0, translate(res.Error, "delete meal plans")
	}
	return res.RowsAffected, nil
}

func (s *MealPlanService) get(ctx context.Context, id uuid.UUID) (*model.MealPlan, error) {
	var slot model.MealPlan
	if err := s.db.WithContext(ctx).Preload("Recipe").First(&slot, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get meal plan")
	}
	return &slot, nil
}

func (s *MealPlanService) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.MealPlan, error) {
	res := s.db.WithContext(ctx).Model(&model.MealPlan{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error, "update meal plan")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.get(ctx, id)
}

// openSlotUpsert overwrites an existing (date, meal_type) row unless it is completed
func openSlotUpsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "meal_type"}},
		DoUpdates: clause.AssignmentColumns(model.MealPlanSlotColumns),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: clause.Column{Table: "meal_plans", Name: "is_completed"}, Value: false},
		}},
	}
}

func checkRange(start, end string) error {
	if !dates.Valid(start) || !dates.Valid(end) {
		return invalidf("start and end must be YYYY-MM-DD")
	}
	if end < start {
		return invalidf("end %s is before start %s", end, start)
	}
	return nil
}

func sortSlots(plans []*model.MealPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].Date != plans[j].Date {
			return plans[i].Date < plans[j].Date
		}
		return plans[i].MealType.Order() < plans[j].MealType.Order()
	})
}
