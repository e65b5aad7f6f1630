// Package planner fills a date range with meal slots from a recipe pool.
//
// Selection is a greedy weighted-random pick per slot followed by a bounded
// local repair of each day's calorie total. It is not an optimizer: a day may
// still end up outside the calorie band, which is reported in the result log.
package planner

import (
	"github.com/google/uuid"

	"github.com/pageza/weekplate/backend/internal/diagnostics"
	"github.com/pageza/weekplate/backend/internal/model"
)

const (
	// WeeklyUsageCap is the most slots one recipe may fill in a single run.
	WeeklyUsageCap = 2
	// FavoriteWeight and DefaultWeight drive the weighted pick.
	FavoriteWeight = 3
	DefaultWeight  = 1
	// MaxRepairAttempts bounds the calorie repair per day.
	MaxRepairAttempts = 5
	// CalorieTolerance is the accepted relative deviation from the daily target.
	CalorieTolerance = 0.10
)

// Input is everything one generation run reads. None of it is modified.
type Input struct {
	Recipes           []model.Recipe
	Settings          model.UserSettings
	Dates             []string
	ExistingCompleted []model.MealPlan
}

// Result holds one slot per (date, active meal type) in date then slot order,
// plus the diagnostics produced while filling them.
type Result struct {
	Slots []model.MealPlan
	Log   diagnostics.Log
}

// Assigned counts slots with a recipe.
func (r Result) Assigned() int {
	n := 0
	for _, s := range r.Slots {
		if s.RecipeID != nil {
			n++
		}
	}
	return n
}

// Generator runs plans against an injectable random source.
type Generator struct {
	src Source
}

// New returns a Generator drawing from src. A nil src uses the process-wide generator.
func New(src Source) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{src: src}
}

// Generate produces the plan for in.Dates. Completed slots found in
// in.ExistingCompleted are returned verbatim without id or timestamps and count
// toward the weekly usage cap; every other active slot is freshly assigned.
func (g *Generator) Generate(in Input) Result {
	var res Result

	mealTypes := in.Settings.ActiveMealTypes()
	if mealTypes == nil {
		res.Log.Addf(diagnostics.InvalidSettings, "", "", "meals_per_day must be 3, 4 or 5, got %d", in.Settings.MealsPerDay)
		return res
	}

	run := &run{
		gen:      g,
		settings: &in.Settings,
		pool:     in.Recipes,
		byID:     indexRecipes(in.Recipes),
		usage:    make(Usage),
		log:      &res.Log,
	}

	completed := make(map[string]model.MealPlan, len(in.ExistingCompleted))
	for _, p := range in.ExistingCompleted {
		if p.IsCompleted {
			completed[p.Key()] = p
		}
	}

	for _, date := range in.Dates {
		day := make([]model.MealPlan, 0, len(mealTypes))
		for _, mt := range mealTypes {
			key := date + "_" + string(mt)
			if existing, ok := completed[key]; ok {
				slot := existing.StripIdentity()
				if slot.RecipeID != nil && !slot.IsFreeMeal {
					run.usage[*slot.RecipeID]++
				}
				res.Log.Addf(diagnostics.PreservedCompleted, date, string(mt), "completed slot kept")
				day = append(day, slot)
				continue
			}
			day = append(day, run.fill(date, mt))
		}
		run.repairDay(date, day)
		res.Slots = append(res.Slots, day...)
	}
	return res
}

// run is the mutable state of a single Generate call.
type run struct {
	gen      *Generator
	settings *model.UserSettings
	pool     []model.Recipe
	byID     map[uuid.UUID]*model.Recipe
	usage    Usage
	log      *diagnostics.Log
}

func (r *run) fill(date string, mt model.MealType) model.MealPlan {
	slot := model.MealPlan{
		Date:     date,
		MealType: mt,
		Servings: 1,
	}

	eligible := Eligible(r.pool, mt, r.settings, r.usage)
	if len(eligible) == 0 {
		r.log.Addf(diagnostics.NoEligibleRecipe, date, string(mt),
			"no eligible recipes (category=%s, time budget=%dmin, cap=%d); %d non-excluded recipes carry this category",
			mt.Category(), r.settings.TimeBudget(mt), WeeklyUsageCap, countInCategory(r.pool, mt.Category()))
		return slot
	}

	picked := weightedPick(r.gen.src, eligible)
	id := picked.ID
	slot.RecipeID = &id
	r.usage[id]++
	return slot
}

func indexRecipes(recipes []model.Recipe) map[uuid.UUID]*model.Recipe {
	byID := make(map[uuid.UUID]*model.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].ID] = &recipes[i]
	}
	return byID
}

func countInCategory(recipes []model.Recipe, tag model.CategoryTag) int {
	n := 0
	for i := range recipes {
		if !recipes[i].IsExcluded && recipes[i].HasTag(tag) {
			n++
		}
	}
	return n
}
