package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/weekplate/backend/internal/dates"
	"github.com/pageza/weekplate/backend/internal/service"
)

// HistoryHandler serves calorie history, the completion streak and weekly reviews
type HistoryHandler struct {
	reviews service.IReviewService
	loc     *time.Location
	now     func() time.Time
}

// NewHistoryHandler creates a HistoryHandler. loc decides the current week when
// a review is requested without week_start.
func NewHistoryHandler(reviews service.IReviewService, loc *time.Location) *HistoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryHandler{reviews: reviews, loc: loc, now: time.Now}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	hist := router.Group("/history")
	{
		hist.GET("/calories", h.DailyCalories)
		hist.GET("/streak", h.Streak)
		hist.GET("/review", h.WeeklyReview)
	}
}

func (h *HistoryHandler) DailyCalories(c *gin.Context) {
	days, err := h.reviews.DailyCalories(c.Request.Context(), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *HistoryHandler) Streak(c *gin.Context) {
	streak, err := h.reviews.Streak(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

func (h *HistoryHandler) WeeklyReview(c *gin.Context) {
	week := c.Query("week_start")
	if week == "" {
		week = dates.Format(dates.WeekStart(h.now().In(h.loc)))
	}
	review, err := h.reviews.WeeklyReview(c.Request.Context(), week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
