// Package api exposes the meal planning services over HTTP.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/weekplate/backend/internal/service"
)

// Services bundles everything the handlers call into
type Services struct {
	Recipes   service.IRecipeService
	Cookbooks service.ICookbookService
	MealPlans service.IMealPlanService
	Shopping  service.IShoppingService
	Settings  service.ISettingsService
	Weight    service.IWeightService
	Reviews   service.IReviewService
	Photos    service.IPhotoService
	Imports   service.IImportService
}

// Limits holds the optional rate limiting middleware for expensive routes and
// the reporters behind GET /limits
type Limits struct {
	Plan        gin.HandlerFunc
	Parse       gin.HandlerFunc
	PlanStatus  LimitReporter
	ParseStatus LimitReporter
}

// RegisterRoutes mounts every handler on router, normally the /api/v1 group
func RegisterRoutes(router *gin.RouterGroup, svc Services, limits Limits, loc *time.Location) {
	NewRecipeHandler(svc.Recipes, svc.Photos, svc.Imports, limits.Parse).RegisterRoutes(router)
	NewCookbookHandler(svc.Cookbooks).RegisterRoutes(router)
	NewMealPlanHandler(svc.MealPlans, limits.Plan).RegisterRoutes(router)
	NewShoppingHandler(svc.Shopping).RegisterRoutes(router)
	NewSettingsHandler(svc.Settings).RegisterRoutes(router)
	NewWeightHandler(svc.Weight).RegisterRoutes(router)
	NewHistoryHandler(svc.Reviews, loc).RegisterRoutes(router)
	NewLimitsHandler(limits.PlanStatus, limits.ParseStatus).RegisterRoutes(router)
}
