package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/weekplate/backend/internal/service"
)

// MealPlanHandler serves the planned meal slots
type MealPlanHandler struct {
	plans    service.IMealPlanService
	generate gin.HandlerFunc
}

// NewMealPlanHandler creates a MealPlanHandler. planLimit guards the generation
// routes and may be nil.
func NewMealPlanHandler(plans service.IMealPlanService, planLimit gin.HandlerFunc) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, generate: planLimit}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/meal-plans")
	{
		plans.GET("", h.ListSlots)
		plans.DELETE("", h.DeleteSlots)

		gen := plans.Group("")
		if h.generate != nil {
			gen.Use(h.generate)
		}
		gen.POST("/generate", h.GenerateWeek)
		gen.POST("/generate-day", h.GenerateDay)

		plans.PATCH("/:id", h.UpdateServings)
		plans.POST("/:id/swap", h.Swap)
		plans.GET("/:id/candidates", h.SwapCandidates)
		plans.POST("/:id/complete", h.Complete)
		plans.POST("/:id/uncomplete", h.Uncomplete)
		plans.POST("/:id/free-meal", h.MarkFreeMeal)
		plans.POST("/:id/meal-prep", h.PlanMealPrep)
	}
}

type generateWeekRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
}

type generateDayRequest struct {
	Date string `json:"date" binding:"required"`
}

type servingsRequest struct {
	Servings int `json:"servings" binding:"required"`
}

type swapRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}

type freeMealRequest struct {
	Calories *int   `json:"calories" binding:"required"`
	Note     string `json:"note"`
}

type mealPrepRequest struct {
	Dates []string `json:"dates" binding:"required,min=1"`
}

func (h *MealPlanHandler) ListSlots(c *gin.Context) {
	slots, err := h.plans.ListRange(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *MealPlanHandler) DeleteSlots(c *gin.Context) {
	keep := false
	if raw := c.Query("keep_completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid keep_completed"})
			return
		}
		keep = v
	}
	n, err := h.plans.DeleteRange(c.Request.Context(), c.Query("start"), c.Query("end"), keep)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *MealPlanHandler) GenerateWeek(c *gin.Context) {
	var req generateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.plans.GenerateWeek(c.Request.Context(), req.WeekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MealPlanHandler) GenerateDay(c *gin.Context) {
	var req generateDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.plans.GenerateDay(c.Request.Context(), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *MealPlanHandler) UpdateServings(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req servingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.plans.UpdateServings(c.Request.Context(), id, req.Servings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *MealPlanHandler) Swap(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.plans.Swap(c.Request.Context(), id, req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *MealPlanHandler) SwapCandidates(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.plans.SwapCandidates(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": list})
}

func (h *MealPlanHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	slot, err := h.plans.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *MealPlanHandler) Uncomplete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	slot, err := h.plans.Uncomplete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *MealPlanHandler) MarkFreeMeal(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req freeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := h.plans.MarkFreeMeal(c.Request.Context(), id, *req.Calories, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// PlanMealPrep copies the slot's recipe onto the same meal on the given dates
func (h *MealPlanHandler) PlanMealPrep(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req mealPrepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slots, err := h.plans.PlanMealPrep(c.Request.Context(), id, req.Dates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
