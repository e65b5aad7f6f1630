// Package servings converts ingredient quantities between serving counts and
// rounds the result to amounts a cook can actually measure.
package servings

import (
	"math"
	"strings"

	"github.com/pageza/weekplate/backend/internal/model"
)

// Scale converts ingredients written for base servings to target servings.
// When base equals target the input slice is returned as is.
func Scale(ingredients []model.Ingredient, base, target int) []model.Ingredient {
	if base == target {
		return ingredients
	}
	if base < 1 {
		base = 1
	}
	ratio := float64(target) / float64(base)
	out := make([]model.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		ing.Amount = Round(ing.Amount*ratio, ing.Unit, ing.Name)
		out[i] = ing
	}
	return out
}

// ScaleCalories scales calories linearly to the nearest integer. Unknown calories stay unknown.
func ScaleCalories(calories *int, base, target int) *int {
	if calories == nil {
		return nil
	}
	if base < 1 {
		base = 1
	}
	v := int(math.Round(float64(*calories) * float64(target) / float64(base)))
	return &v
}

// Round applies the unit-specific kitchen rounding to an already scaled amount.
func Round(value float64, unit, name string) float64 {
	if value <= 0 {
		return 0
	}
	if isEgg(name) {
		return math.Ceil(value)
	}

	u := strings.ToLower(unit)
	switch {
	case u == "prise":
		return math.Max(1, math.Round(value))
	case u == "tl" || u == "messerspitze":
		return math.Max(0.25, nearest(value, 0.25))
	case isLiquid(u):
		return math.Max(10, nearest(value, 10))
	case isWeight(u):
		if value < 50 {
			return math.Max(5, nearest(value, 5))
		}
		if value < 200 {
			return nearest(value, 10)
		}
		return nearest(value, 25)
	case u == "stück" || u == "stk":
		return math.Max(0.5, nearest(value, 0.5))
	}
	return RoundTo(value, 1)
}

// RoundTo rounds half away from zero to the given number of decimals.
func RoundTo(value float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(value*p) / p
}

func nearest(value, increment float64) float64 {
	return math.Round(value/increment) * increment
}

func isEgg(name string) bool {
	n := strings.ToLower(name)
	return n == "ei" || n == "eier" || strings.Contains(n, "ei(er)") || n == "eigelb" || n == "eiweiß"
}

func isLiquid(unit string) bool {
	switch unit {
	case "ml", "l", "cl", "dl":
		return true
	}
	return false
}

func isWeight(unit string) bool {
	return unit == "g" || unit == "kg"
}
