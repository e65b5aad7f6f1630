package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/weekplate/backend/internal/middleware"
)

// LimitReporter reports a client's rate limit budget without spending it
type LimitReporter interface {
	Status(ctx context.Context, client string) (middleware.LimitStatus, error)
}

// LimitsHandler lets the frontend show how many generations and parses are left
type LimitsHandler struct {
	plan  LimitReporter
	parse LimitReporter
}

func NewLimitsHandler(plan, parse LimitReporter) *LimitsHandler {
	return &LimitsHandler{plan: plan, parse: parse}
}

func (h *LimitsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/limits", h.GetLimits)
}

func (h *LimitsHandler) GetLimits(c *gin.Context) {
	limits := gin.H{}
	for name, reporter := range map[string]LimitReporter{
		"plan_generation": h.plan,
		"recipe_parse":    h.parse,
	} {
		if reporter == nil {
			limits[name] = middleware.LimitStatus{}
			continue
		}
		status, err := reporter.Status(c.Request.Context(), c.ClientIP())
		if err != nil {
			respondError(c, err)
			return
		}
		limits[name] = status
	}
	c.JSON(http.StatusOK, gin.H{"limits": limits})
}
