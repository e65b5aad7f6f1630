package planner

import (
	"math"

	"github.com/pageza/weekplate/backend/internal/diagnostics"
	"github.com/pageza/weekplate/backend/internal/model"
)

// repairDay nudges the day's calorie total toward the target by swapping the
// single highest-calorie open slot for the same-category recipe closest to the
// calories that slot would need. Completed slots are never touched.
func (r *run) repairDay(date string, day []model.MealPlan) {
	total := r.dayCalories(day)
	if total == 0 {
		return
	}

	target := r.settings.DailyCalorieTarget
	if target <= 0 {
		r.log.Addf(diagnostics.MissingTarget, date, "", "no daily calorie target set, %d kcal left unbalanced", total)
		return
	}

	lower := float64(target) * (1 - CalorieTolerance)
	upper := float64(target) * (1 + CalorieTolerance)
	within := func(kcal int) bool {
		return float64(kcal) >= lower && float64(kcal) <= upper
	}
	if within(total) {
		return
	}

	start := total
	swaps := 0
	for attempt := 0; attempt < MaxRepairAttempts; attempt++ {
		idx := r.highestCalorieOpenSlot(day)
		if idx < 0 {
			break
		}
		slot := &day[idx]
		current := r.byID[*slot.RecipeID]

		needed := target - (total - current.CalorieCount())
		best := r.closestAlternative(slot.MealType, current, needed)
		if best == nil {
			break
		}
		if distance(best.CalorieCount(), needed) >= distance(current.CalorieCount(), needed) {
			break
		}

		r.usage[current.ID]--
		r.usage[best.ID]++
		id := best.ID
		slot.RecipeID = &id
		swaps++

		total = r.dayCalories(day)
		if within(total) {
			r.log.Addf(diagnostics.RebalanceConverged, date, "",
				"rebalanced from %d to %d kcal (target %d) with %d swap(s)", start, total, target, swaps)
			return
		}
	}

	r.log.Addf(diagnostics.RebalanceFailed, date, "",
		"could not rebalance within %d attempts: %d kcal after %d swap(s), target %d±%.0f%%",
		MaxRepairAttempts, total, swaps, target, CalorieTolerance*100)
}

func (r *run) dayCalories(day []model.MealPlan) int {
	sum := 0
	for i := range day {
		sum += r.slotCalories(&day[i])
	}
	return sum
}

func (r *run) slotCalories(slot *model.MealPlan) int {
	if slot.IsFreeMeal {
		if slot.FreeMealCalories != nil {
			return *slot.FreeMealCalories
		}
		return 0
	}
	if slot.RecipeID == nil {
		return 0
	}
	if rec, ok := r.byID[*slot.RecipeID]; ok {
		return rec.CalorieCount()
	}
	return slot.Recipe.CalorieCount()
}

// highestCalorieOpenSlot returns the index of the first non-completed slot whose
// pool recipe has the most calories above zero, or -1.
func (r *run) highestCalorieOpenSlot(day []model.MealPlan) int {
	idx, maxCal := -1, 0
	for i := range day {
		s := &day[i]
		if s.IsCompleted || s.RecipeID == nil {
			continue
		}
		rec, ok := r.byID[*s.RecipeID]
		if !ok {
			continue
		}
		if c := rec.CalorieCount(); c > maxCal {
			idx, maxCal = i, c
		}
	}
	return idx
}

// closestAlternative picks the eligible recipe with known calories nearest to needed,
// excluding current. Ties keep pool order.
func (r *run) closestAlternative(mt model.MealType, current *model.Recipe, needed int) *model.Recipe {
	var best *model.Recipe
	bestDist := math.MaxInt
	for _, alt := range Eligible(r.pool, mt, r.settings, r.usage) {
		if alt.ID == current.ID || alt.Calories == nil {
			continue
		}
		if d := distance(*alt.Calories, needed); d < bestDist {
			best, bestDist = alt, d
		}
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
