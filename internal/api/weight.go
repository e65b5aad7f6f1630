package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/weekplate/backend/internal/service"
)

type WeightHandler struct {
	weights service.IWeightService
}

func NewWeightHandler(weights service.IWeightService) *WeightHandler {
	return &WeightHandler{weights: weights}
}

func (h *WeightHandler) RegisterRoutes(router *gin.RouterGroup) {
	weight := router.Group("/weight")
	{
		weight.GET("", h.ListEntries)
		weight.PUT("/:date", h.LogWeight)
		weight.DELETE("/:id", h.DeleteEntry)
	}
}

type weightRequest struct {
	WeightKg float64 `json:"weight_kg" binding:"required"`
}

func (h *WeightHandler) ListEntries(c *gin.Context) {
	limit, ok := queryInt(c, "limit", service.DefaultWeightLimit)
	if !ok {
		return
	}
	entries, err := h.weights.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// LogWeight records the weight for a date, replacing any earlier entry for that day
func (h *WeightHandler) LogWeight(c *gin.Context) {
	var req weightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.weights.Log(c.Request.Context(), c.Param("date"), req.WeightKg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *WeightHandler) DeleteEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.weights.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
