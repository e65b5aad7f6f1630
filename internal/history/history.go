// Package history summarises completed meal slots: daily calorie totals,
// the current completion streak and the weekly review built from both.
package history

import (
	"math"
	"sort"
	"time"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/model"
)

// StreakLookback bounds how many days CalculateStreak walks back.
const StreakLookback = 365

type DailySummary struct {
	Date     string `json:"date"`
	Consumed int    `json:"consumed"`
	Target   int    `json:"target"`
}

// InBudget reports whether something was eaten and the target was not exceeded.
func (d DailySummary) InBudget() bool {
	return d.Consumed > 0 && d.Consumed <= d.Target
}

// SlotCalories is what a completed slot contributes: the free-meal estimate,
// or the recipe's calories when the recipe is loaded.
func SlotCalories(p *model.MealPlan) int {
	if p.IsFreeMeal {
		if p.FreeMealCalories != nil {
			return *p.FreeMealCalories
		}
		return 0
	}
	return p.Recipe.CalorieCount()
}

// AggregateDailyCalories sums completed slots per date in ascending date order.
// Dates without completions are absent.
func AggregateDailyCalories(plans []model.MealPlan, target int) []DailySummary {
	byDate := make(map[string]int)
	for i := range plans {
		p := &plans[i]
		if !p.IsCompleted {
			continue
		}
		byDate[p.Date] += SlotCalories(p)
	}

	out := make([]DailySummary, 0, len(byDate))
	for date, consumed := range byDate {
		out = append(out, DailySummary{Date: date, Consumed: consumed, Target: target})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CalculateStreak counts consecutive days with at least one completed slot,
// ending today or, when today has none yet, yesterday. now decides which
// calendar day is today.
func CalculateStreak(plans []model.MealPlan, now time.Time) int {
	done := make(map[string]bool)
	for i := range plans {
		if plans[i].IsCompleted {
			done[plans[i].Date] = true
		}
	}

	today := dates.Midnight(now)
	start := 0
	if !done[dates.Format(today)] {
		if !done[dates.Format(dates.SubDays(today, 1))] {
			return 0
		}
		start = 1
	}

	streak := 0
	for i := start; i < StreakLookback; i++ {
		if !done[dates.Format(dates.SubDays(today, i))] {
			break
		}
		streak++
	}
	return streak
}

type WeeklyReview struct {
	WeekStart     string         `json:"week_start"`
	WeekEnd       string         `json:"week_end"`
	Days          []DailySummary `json:"days"`
	DaysInBudget  int            `json:"days_in_budget"`
	RecipesCooked int            `json:"recipes_cooked"`
	AvgCalories   int            `json:"avg_calories"`
	WeightChange  *float64       `json:"weight_change"`
	Streak        int            `json:"streak"`
}

// BuildWeeklyReview evaluates the week starting at weekStart. weekPlans are the
// slots of that week, recentPlans the wider window the streak is computed over.
func BuildWeeklyReview(weekStart time.Time, weekPlans, recentPlans []model.MealPlan, weights []model.WeightLogEntry, target int, now time.Time) WeeklyReview {
	week := dates.WeekDates(weekStart)
	start, end := dates.Format(week[0]), dates.Format(week[len(week)-1])

	review := WeeklyReview{
		WeekStart: start,
		WeekEnd:   end,
		Days:      AggregateDailyCalories(weekPlans, target),
		Streak:    CalculateStreak(recentPlans, now),
	}

	sum, withData := 0, 0
	for _, d := range review.Days {
		if d.Consumed <= 0 {
			continue
		}
		withData++
		sum += d.Consumed
		if d.InBudget() {
			review.DaysInBudget++
		}
	}
	if withData > 0 {
		review.AvgCalories = int(math.Round(float64(sum) / float64(withData)))
	}

	for i := range weekPlans {
		if weekPlans[i].IsCompleted && !weekPlans[i].IsFreeMeal {
			review.RecipesCooked++
		}
	}

	review.WeightChange = weightChange(weights, start, end)
	return review
}

// weightChange is last minus first entry within [start, end], rounded to 0.1 kg,
// or nil with fewer than two entries.
func weightChange(entries []model.WeightLogEntry, start, end string) *float64 {
	var inWeek []model.WeightLogEntry
	for _, e := range entries {
		if e.Date >= start && e.Date <= end {
			inWeek = append(inWeek, e)
		}
	}
	if len(inWeek) < 2 {
		return nil
	}
	sort.Slice(inWeek, func(i, j int) bool { return inWeek[i].Date < inWeek[j].Date })
	delta := math.Round((inWeek[len(inWeek)-1].WeightKg-inWeek[0].WeightKg)*10) / 10
	return &delta
}
