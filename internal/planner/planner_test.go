package planner

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/diagnostics"
	"github.com/pageza/weekplate/backend/internal/model"
)

// fixedSource always returns the same value; 0 picks the first candidate.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func intPtr(v int) *int { return &v }

func recipe(title string, kcal int, tags ...model.CategoryTag) model.Recipe {
	return model.Recipe{
		ID:              uuid.New(),
		Title:           title,
		Calories:        intPtr(kcal),
		PrepTimeMinutes: intPtr(10),
		BaseServings:    1,
		CategoryTags:    tags,
	}
}

func week() []string {
	monday, _ := dates.Parse("2025-01-27")
	return dates.Strings(dates.WeekDates(monday))
}

func settings(target int) model.UserSettings {
	s := model.DefaultSettings()
	s.DailyCalorieTarget = target
	return s
}

func TestGenerateRespectsWeeklyUsageCap(t *testing.T) {
	only := recipe("Porridge", 400, model.TagBreakfast)
	s := settings(0)

	res := New(fixedSource(0)).Generate(Input{
		Recipes:  []model.Recipe{only},
		Settings: s,
		Dates:    week(),
	})

	counts := map[uuid.UUID]int{}
	breakfasts := 0
	for _, slot := range res.Slots {
		if slot.MealType == model.Breakfast {
			breakfasts++
		}
		if slot.RecipeID != nil {
			counts[*slot.RecipeID]++
		}
	}
	assert.Equal(t, 7, breakfasts)
	assert.Equal(t, 2, counts[only.ID])
	assert.Len(t, res.Slots, 21)
	assert.Equal(t, 21-2, res.Log.Count(diagnostics.NoEligibleRecipe))
}

func TestGenerateNeverExceedsCapWithRandomSource(t *testing.T) {
	pool := []model.Recipe{
		recipe("A", 400, model.TagBreakfast),
		recipe("B", 450, model.TagBreakfast),
		recipe("C", 500, model.TagBreakfast, model.TagLunch),
		recipe("D", 700, model.TagLunch),
		recipe("E", 800, model.TagDinner),
		recipe("F", 750, model.TagDinner),
		recipe("G", 150, model.TagSnack),
	}
	pool[1].IsFavorite = true
	s := settings(1800)
	s.MealsPerDay = 5

	for seed := uint64(0); seed < 50; seed++ {
		res := New(NewSeededSource(seed)).Generate(Input{Recipes: pool, Settings: s, Dates: week()})
		counts := map[uuid.UUID]int{}
		for _, slot := range res.Slots {
			if slot.RecipeID != nil {
				counts[*slot.RecipeID]++
			}
		}
		for id, n := range counts {
			assert.LessOrEqualf(t, n, WeeklyUsageCap, "seed %d recipe %s", seed, id)
		}
		assert.Len(t, res.Slots, 35)
	}
}

func TestGeneratePreservesCompletedSlots(t *testing.T) {
	lunch := recipe("Linsensuppe", 600, model.TagLunch)
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		lunch,
		recipe("Curry", 800, model.TagDinner),
	}
	foreign := uuid.New()
	done := model.MealPlan{
		ID:          uuid.New(),
		Date:        "2025-01-28",
		MealType:    model.Lunch,
		RecipeID:    &foreign,
		Servings:    2,
		IsCompleted: true,
	}

	res := New(fixedSource(0)).Generate(Input{
		Recipes:           pool,
		Settings:          settings(0),
		Dates:             week(),
		ExistingCompleted: []model.MealPlan{done},
	})

	var found *model.MealPlan
	for i := range res.Slots {
		if res.Slots[i].Key() == done.Key() {
			found = &res.Slots[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, done.StripIdentity(), *found)
	assert.Equal(t, uuid.Nil, found.ID)
	assert.Equal(t, 1, res.Log.Count(diagnostics.PreservedCompleted))
}

func TestGenerateCountsCompletedSlotsTowardCap(t *testing.T) {
	only := recipe("Porridge", 400, model.TagBreakfast)
	id := only.ID
	done := model.MealPlan{Date: "2025-01-27", MealType: model.Breakfast, RecipeID: &id, Servings: 1, IsCompleted: true}

	res := New(fixedSource(0)).Generate(Input{
		Recipes:           []model.Recipe{only},
		Settings:          settings(0),
		Dates:             week(),
		ExistingCompleted: []model.MealPlan{done},
	})

	n := 0
	for _, slot := range res.Slots {
		if slot.RecipeID != nil && *slot.RecipeID == only.ID {
			n++
		}
	}
	assert.Equal(t, WeeklyUsageCap, n)
}

func TestGenerateFiltersByTimeBudget(t *testing.T) {
	slow := recipe("Braten", 900, model.TagDinner)
	slow.PrepTimeMinutes = intPtr(120)
	fast := recipe("Pfanne", 700, model.TagDinner)
	unknown := recipe("Reste", 500, model.TagDinner)
	unknown.PrepTimeMinutes = nil

	s := settings(0)
	eligible := Eligible([]model.Recipe{slow, fast, unknown}, model.Dinner, &s, nil)
	require.Len(t, eligible, 2)
	assert.Equal(t, fast.ID, eligible[0].ID)
	assert.Equal(t, unknown.ID, eligible[1].ID)

	s.TimeBudgetDinner = 0
	assert.Len(t, Eligible([]model.Recipe{slow, fast, unknown}, model.Dinner, &s, nil), 3)
}

func TestEligibleSkipsExcludedAndWrongCategory(t *testing.T) {
	excluded := recipe("Alt", 400, model.TagSnack)
	excluded.IsExcluded = true
	lunch := recipe("Salat", 300, model.TagLunch)
	snack := recipe("Nüsse", 200, model.TagSnack)
	s := settings(0)

	got := Eligible([]model.Recipe{excluded, lunch, snack}, model.Snack2, &s, Usage{})
	require.Len(t, got, 1)
	assert.Equal(t, snack.ID, got[0].ID)

	got = Eligible([]model.Recipe{excluded, lunch, snack}, model.Snack2, &s, Usage{snack.ID: 2})
	assert.Empty(t, got)
}

func TestGenerateEmptyPoolLogsEverySlot(t *testing.T) {
	res := New(nil).Generate(Input{Settings: settings(2000), Dates: week()})

	require.Len(t, res.Slots, 21)
	for _, slot := range res.Slots {
		assert.Nil(t, slot.RecipeID)
		assert.Equal(t, 1, slot.Servings)
		assert.False(t, slot.IsCompleted)
	}
	assert.Equal(t, 21, res.Log.Count(diagnostics.NoEligibleRecipe))
	assert.Zero(t, res.Assigned())
}

func TestGenerateRejectsInvalidMealsPerDay(t *testing.T) {
	s := settings(2000)
	s.MealsPerDay = 7

	res := New(nil).Generate(Input{Recipes: []model.Recipe{recipe("A", 1, model.TagLunch)}, Settings: s, Dates: week()})
	assert.Empty(t, res.Slots)
	assert.Equal(t, 1, res.Log.Count(diagnostics.InvalidSettings))
}

func TestGenerateUsesSlotOrderPerDay(t *testing.T) {
	s := settings(0)
	s.MealsPerDay = 5
	res := New(nil).Generate(Input{Settings: s, Dates: []string{"2025-01-27"}})

	require.Len(t, res.Slots, 5)
	for i, slot := range res.Slots {
		assert.Equal(t, model.MealTypes[i], slot.MealType)
		assert.Equal(t, "2025-01-27", slot.Date)
	}
}

func TestGenerateRebalancesOvershootingDay(t *testing.T) {
	huge := recipe("Familienlasagne", 4000, model.TagDinner)
	normal := recipe("Gemüsepfanne", 900, model.TagDinner)
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		recipe("Suppe", 600, model.TagLunch),
		huge,
		normal,
	}

	res := New(fixedSource(0)).Generate(Input{
		Recipes:  pool,
		Settings: settings(2000),
		Dates:    []string{"2025-01-27"},
	})

	require.Len(t, res.Slots, 3)
	dinner := res.Slots[2]
	require.NotNil(t, dinner.RecipeID)
	assert.Equal(t, normal.ID, *dinner.RecipeID)
	assert.Equal(t, 1, res.Log.Count(diagnostics.RebalanceConverged))
	assert.Zero(t, res.Log.Count(diagnostics.RebalanceFailed))
}

func TestGenerateReportsFailedRebalance(t *testing.T) {
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		recipe("Suppe", 600, model.TagLunch),
		recipe("Familienlasagne", 4000, model.TagDinner),
	}

	res := New(fixedSource(0)).Generate(Input{
		Recipes:  pool,
		Settings: settings(2000),
		Dates:    []string{"2025-01-27"},
	})

	assert.Equal(t, pool[2].ID, *res.Slots[2].RecipeID)
	assert.Equal(t, 1, res.Log.Count(diagnostics.RebalanceFailed))
}

func TestGenerateOnlySwapsForStrictImprovement(t *testing.T) {
	current := recipe("Eintopf", 1500, model.TagDinner)
	worse := recipe("Festtagsbraten", 3000, model.TagDinner)
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		recipe("Suppe", 600, model.TagLunch),
		current,
		worse,
	}

	res := New(fixedSource(0)).Generate(Input{
		Recipes:  pool,
		Settings: settings(1500),
		Dates:    []string{"2025-01-27"},
	})

	assert.Equal(t, current.ID, *res.Slots[2].RecipeID)
	assert.Equal(t, 1, res.Log.Count(diagnostics.RebalanceFailed))
}

func TestGenerateNeverSwapsCompletedSlots(t *testing.T) {
	big := recipe("Pizza", 3000, model.TagDinner)
	small := recipe("Salat", 800, model.TagDinner)
	id := big.ID
	done := model.MealPlan{Date: "2025-01-27", MealType: model.Dinner, RecipeID: &id, Servings: 1, IsCompleted: true}
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		recipe("Suppe", 600, model.TagLunch),
		big,
		small,
	}

	res := New(fixedSource(0)).Generate(Input{
		Recipes:           pool,
		Settings:          settings(2000),
		Dates:             []string{"2025-01-27"},
		ExistingCompleted: []model.MealPlan{done},
	})

	assert.Equal(t, big.ID, *res.Slots[2].RecipeID)
	assert.True(t, res.Slots[2].IsCompleted)
}

func TestGenerateWithoutTargetSkipsRepair(t *testing.T) {
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		recipe("Suppe", 600, model.TagLunch),
		recipe("Familienlasagne", 4000, model.TagDinner),
		recipe("Gemüsepfanne", 900, model.TagDinner),
	}

	res := New(fixedSource(0)).Generate(Input{Recipes: pool, Settings: settings(0), Dates: []string{"2025-01-27"}})

	assert.Equal(t, pool[2].ID, *res.Slots[2].RecipeID)
	assert.Equal(t, 1, res.Log.Count(diagnostics.MissingTarget))
}

func TestFavoritesArePickedAboutThreeTimesAsOften(t *testing.T) {
	plain := recipe("Haferbrei", 400, model.TagBreakfast)
	fav := recipe("Pancakes", 400, model.TagBreakfast)
	fav.IsFavorite = true
	pool := []model.Recipe{
		plain,
		fav,
		recipe("Suppe", 600, model.TagLunch),
		recipe("Curry", 900, model.TagDinner),
	}

	gen := New(rand.New(rand.NewPCG(1, 2)))
	favPicks := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		res := gen.Generate(Input{Recipes: pool, Settings: settings(1800), Dates: []string{"2025-01-27"}})
		require.NotNil(t, res.Slots[0].RecipeID)
		if *res.Slots[0].RecipeID == fav.ID {
			favPicks++
		}
		assert.Empty(t, res.Log)
	}

	share := float64(favPicks) / trials
	assert.InDelta(t, 0.75, share, 0.05)
}

func TestWeightedPickBoundaries(t *testing.T) {
	a := recipe("A", 1, model.TagLunch)
	b := recipe("B", 1, model.TagLunch)
	b.IsFavorite = true
	c := []*model.Recipe{&a, &b}

	assert.Equal(t, a.ID, weightedPick(fixedSource(0), c).ID)
	assert.Equal(t, a.ID, weightedPick(fixedSource(0.25), c).ID)
	assert.Equal(t, b.ID, weightedPick(fixedSource(0.26), c).ID)
	assert.Equal(t, b.ID, weightedPick(fixedSource(0.999), c).ID)
}

func TestGenerateCountsCompletedCaloriesTowardDayTotal(t *testing.T) {
	breakfast := recipe("Müsli", 400, model.TagBreakfast)
	soup := recipe("Suppe", 600, model.TagLunch)
	roast := recipe("Schweinebraten", 1600, model.TagLunch)
	curry := recipe("Curry", 900, model.TagDinner)
	id := curry.ID
	done := model.MealPlan{Date: "2025-01-27", MealType: model.Dinner, RecipeID: &id, Servings: 1, IsCompleted: true}

	// 400 + 600 + the eaten 900 is within 10% of 2000, so nothing is swapped.
	res := New(fixedSource(0)).Generate(Input{
		Recipes:           []model.Recipe{breakfast, soup, roast, curry},
		Settings:          settings(2000),
		Dates:             []string{"2025-01-27"},
		ExistingCompleted: []model.MealPlan{done},
	})

	require.Len(t, res.Slots, 3)
	assert.Equal(t, soup.ID, *res.Slots[1].RecipeID)
	assert.Equal(t, curry.ID, *res.Slots[2].RecipeID)
	assert.Zero(t, res.Log.Count(diagnostics.RebalanceConverged))
	assert.Zero(t, res.Log.Count(diagnostics.RebalanceFailed))

	// Without the completed dinner the day only reaches 1000 kcal and lunch is swapped.
	res = New(fixedSource(0)).Generate(Input{
		Recipes:  []model.Recipe{breakfast, soup, roast},
		Settings: settings(2000),
		Dates:    []string{"2025-01-27"},
	})

	require.Len(t, res.Slots, 3)
	assert.Equal(t, roast.ID, *res.Slots[1].RecipeID)
	assert.Nil(t, res.Slots[2].RecipeID)
	assert.Equal(t, 1, res.Log.Count(diagnostics.RebalanceConverged))
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a, b := NewSeededSource(42), NewSeededSource(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSeededGeneratorIsSafeForConcurrentUse(t *testing.T) {
	pool := []model.Recipe{
		recipe("Müsli", 400, model.TagBreakfast),
		recipe("Porridge", 450, model.TagBreakfast),
		recipe("Suppe", 600, model.TagLunch),
		recipe("Curry", 900, model.TagDinner),
	}
	gen := New(NewSeededSource(7))

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gen.Generate(Input{Recipes: pool, Settings: settings(1900), Dates: week()})
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Len(t, res.Slots, 21)
	}
}
