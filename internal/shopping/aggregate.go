// Package shopping turns planned meals into a merged, grouped shopping list.
package shopping

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pageza/weekplate/backend/internal/diagnostics"
	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/servings"
)

// Aggregate merges the ingredients of every planned recipe into one list.
// Free meals and slots without a loaded recipe contribute nothing. Amounts are
// multiplied by the slot's servings, summed per name|unit key and rounded to
// one decimal. Items matching a pantry staple come back already checked.
func Aggregate(plans []model.MealPlan, pantryStaples []string) ([]model.ShoppingListItem, diagnostics.Log) {
	var log diagnostics.Log
	staples := stapleSet(pantryStaples)

	merged := make(map[string]*model.ShoppingListItem)
	var order []string

	for _, plan := range plans {
		if plan.IsFreeMeal {
			continue
		}
		if plan.Recipe == nil {
			if plan.RecipeID != nil {
				log.Addf(diagnostics.SkippedSlot, plan.Date, string(plan.MealType), "recipe %s not loaded, slot skipped", plan.RecipeID)
			}
			continue
		}
		mult := float64(plan.Servings)
		if plan.Servings < 1 {
			mult = 1
		}
		for _, ing := range plan.Recipe.Ingredients {
			if strings.TrimSpace(ing.Name) == "" {
				continue
			}
			key := model.MergeKey(ing.Name, ing.Unit)
			if item, ok := merged[key]; ok {
				item.Amount += ing.Amount * mult
				continue
			}
			merged[key] = &model.ShoppingListItem{
				Name:     ing.Name,
				Amount:   ing.Amount * mult,
				Unit:     ing.Unit,
				Category: ing.Category,
			}
			order = append(order, key)
		}
	}

	items := make([]model.ShoppingListItem, 0, len(merged))
	for _, key := range order {
		item := *merged[key]
		item.Amount = servings.RoundTo(item.Amount, 1)
		item.IsChecked = staples[normalize(item.Name)]
		items = append(items, item)
	}
	Sort(items)
	return items, log
}

// AddToList merges new ingredients into an existing list by the same name|unit key.
// Matching items have their amounts summed and rounded to one decimal; the rest are
// appended in input order. The existing slice is not modified.
func AddToList(existing []model.ShoppingListItem, ingredients []model.Ingredient, pantryStaples []string) []model.ShoppingListItem {
	staples := stapleSet(pantryStaples)
	out := make([]model.ShoppingListItem, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, item := range out {
		index[model.MergeKey(item.Name, item.Unit)] = i
	}

	for _, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		key := model.MergeKey(ing.Name, ing.Unit)
		if i, ok := index[key]; ok {
			out[i].Amount = servings.RoundTo(out[i].Amount+ing.Amount, 1)
			continue
		}
		index[key] = len(out)
		out = append(out, model.ShoppingListItem{
			Name:      ing.Name,
			Amount:    servings.RoundTo(ing.Amount, 1),
			Unit:      ing.Unit,
			Category:  ing.Category,
			IsChecked: staples[normalize(ing.Name)],
		})
	}
	return out
}

// Sort orders items by category rank, then by name using German collation.
func Sort(items []model.ShoppingListItem) {
	c := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].Category.Rank(), items[j].Category.Rank()
		if ri != rj {
			return ri < rj
		}
		return c.CompareString(items[i].Name, items[j].Name) < 0
	})
}

func stapleSet(staples []string) map[string]bool {
	set := make(map[string]bool, len(staples))
	for _, s := range staples {
		set[normalize(s)] = true
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
