package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/service"
)

type ShoppingHandler struct {
	lists service.IShoppingService
}

func NewShoppingHandler(lists service.IShoppingService) *ShoppingHandler {
	return &ShoppingHandler{lists: lists}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	week := router.Group("/shopping-lists/:week_start")
	{
		week.GET("", h.GetList)
		week.PUT("", h.SaveList)
		week.POST("/generate", h.GenerateList)
		week.POST("/recipes", h.AddRecipe)
		week.POST("/items", h.AddItem)
		week.POST("/items/:index/toggle", h.ToggleItem)
	}
}

type saveListRequest struct {
	Items []model.ShoppingListItem `json:"items"`
}

type addRecipeRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Servings int       `json:"servings" binding:"required,min=1"`
}

func (h *ShoppingHandler) GetList(c *gin.Context) {
	list, err := h.lists.Get(c.Request.Context(), c.Param("week_start"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShoppingHandler) SaveList(c *gin.Context) {
	var req saveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.lists.Save(c.Request.Context(), c.Param("week_start"), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GenerateList rebuilds the list from the week's planned recipes
func (h *ShoppingHandler) GenerateList(c *gin.Context) {
	list, err := h.lists.GenerateForWeek(c.Request.Context(), c.Param("week_start"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShoppingHandler) AddRecipe(c *gin.Context) {
	var req addRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.lists.AddRecipe(c.Request.Context(), c.Param("week_start"), req.RecipeID, req.Servings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShoppingHandler) AddItem(c *gin.Context) {
	var item model.ShoppingListItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.lists.AddItem(c.Request.Context(), c.Param("week_start"), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ShoppingHandler) ToggleItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})
		return
	}
	list, err := h.lists.ToggleItem(c.Request.Context(), c.Param("week_start"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
