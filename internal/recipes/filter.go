// Package recipes filters and orders the recipe catalog in memory.
package recipes

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pageza/weekplate/backend/internal/model"
)

type SortField string

const (
	SortTitle    SortField = "title"
	SortCalories SortField = "calories"
	SortPrepTime SortField = "prep_time"
)

// Filters narrows the catalog. Zero values mean "no constraint".
type Filters struct {
	Search        string              `form:"search"`
	Categories    []model.CategoryTag `form:"category"`
	CookbookID    *uuid.UUID          `form:"-"`
	MinCalories   *int                `form:"min_calories"`
	MaxCalories   *int                `form:"max_calories"`
	MaxPrepTime   *int                `form:"max_prep_time"`
	FavoritesOnly bool                `form:"favorites"`
	SortBy        SortField           `form:"sort"`
	Descending    bool                `form:"desc"`
}

// Filter returns the matching recipes in the requested order. The input is not modified.
func Filter(all []model.Recipe, f Filters) []model.Recipe {
	search := strings.TrimSpace(f.Search)

	out := make([]model.Recipe, 0, len(all))
	for i := range all {
		r := &all[i]
		if search != "" && !r.MatchesSearch(search) {
			continue
		}
		if len(f.Categories) > 0 && !hasAnyTag(r, f.Categories) {
			continue
		}
		if f.CookbookID != nil && (r.CookbookID == nil || *r.CookbookID != *f.CookbookID) {
			continue
		}
		if f.MinCalories != nil || f.MaxCalories != nil {
			if r.Calories == nil {
				continue
			}
			if f.MinCalories != nil && *r.Calories < *f.MinCalories {
				continue
			}
			if f.MaxCalories != nil && *r.Calories > *f.MaxCalories {
				continue
			}
		}
		if f.MaxPrepTime != nil && (r.PrepTimeMinutes == nil || *r.PrepTimeMinutes > *f.MaxPrepTime) {
			continue
		}
		if f.FavoritesOnly && !r.IsFavorite {
			continue
		}
		out = append(out, *r)
	}

	Sort(out, f.SortBy, f.Descending)
	return out
}

// Sort orders recipes in place. Titles compare with German collation; recipes
// with unknown calories or prep time sort last in either direction.
func Sort(rs []model.Recipe, by SortField, desc bool) {
	col := collate.New(language.German, collate.IgnoreCase)

	var key func(*model.Recipe) *int
	switch by {
	case SortCalories:
		key = func(r *model.Recipe) *int { return r.Calories }
	case SortPrepTime:
		key = func(r *model.Recipe) *int { return r.PrepTimeMinutes }
	}

	sort.SliceStable(rs, func(i, j int) bool {
		a, b := &rs[i], &rs[j]
		if key != nil {
			av, bv := key(a), key(b)
			if (av == nil) != (bv == nil) {
				return bv == nil
			}
			if av != nil && *av != *bv {
				if desc {
					return *av > *bv
				}
				return *av < *bv
			}
			return col.CompareString(a.Title, b.Title) < 0
		}
		c := col.CompareString(a.Title, b.Title)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// SortForSwap puts favorites first, then orders by title.
func SortForSwap(rs []*model.Recipe) {
	col := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].IsFavorite != rs[j].IsFavorite {
			return rs[i].IsFavorite
		}
		return col.CompareString(rs[i].Title, rs[j].Title) < 0
	})
}

func hasAnyTag(r *model.Recipe, tags []model.CategoryTag) bool {
	for _, t := range tags {
		if r.HasTag(t) {
			return true
		}
	}
	return false
}
