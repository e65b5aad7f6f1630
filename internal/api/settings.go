package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/service"
)

type SettingsHandler struct {
	settings service.ISettingsService
}

func NewSettingsHandler(settings service.ISettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the whole settings record; validation happens in the service
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings model.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.settings.Update(c.Request.Context(), &settings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
