package planner

import (
	"github.com/google/uuid"

	"github.com/pageza/weekplate/backend/internal/model"
)

// Usage counts how many slots each recipe fills in the current run.
type Usage map[uuid.UUID]int

// Eligible returns the recipes that may fill a slot of type mt: not excluded,
// tagged with the slot's category, within its time budget when the prep time is
// known, and below the weekly usage cap. Pool order is preserved. A nil usage
// map counts as no usage. A time budget of zero or less means no limit.
func Eligible(pool []model.Recipe, mt model.MealType, settings *model.UserSettings, usage Usage) []*model.Recipe {
	category := mt.Category()
	budget := settings.TimeBudget(mt)

	var out []*model.Recipe
	for i := range pool {
		r := &pool[i]
		if r.IsExcluded || !r.HasTag(category) {
			continue
		}
		if budget > 0 && r.PrepTimeMinutes != nil && *r.PrepTimeMinutes > budget {
			continue
		}
		if usage[r.ID] >= WeeklyUsageCap {
			continue
		}
		out = append(out, r)
	}
	return out
}
