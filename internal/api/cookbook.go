package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/service"
)

type CookbookHandler struct {
	cookbooks service.ICookbookService
}

func NewCookbookHandler(cookbooks service.ICookbookService) *CookbookHandler {
	return &CookbookHandler{cookbooks: cookbooks}
}

func (h *CookbookHandler) RegisterRoutes(router *gin.RouterGroup) {
	books := router.Group("/cookbooks")
	{
		books.GET("", h.ListCookbooks)
		books.POST("", h.CreateCookbook)
		books.PUT("/:id", h.UpdateCookbook)
		books.DELETE("/:id", h.DeleteCookbook)
	}
}

type cookbookRequest struct {
	Name   string  `json:"name" binding:"required"`
	Author *string `json:"author"`
}

func (h *CookbookHandler) ListCookbooks(c *gin.Context) {
	list, err := h.cookbooks.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cookbooks": list})
}

func (h *CookbookHandler) CreateCookbook(c *gin.Context) {
	var req cookbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.cookbooks.Create(c.Request.Context(), &model.Cookbook{Name: req.Name, Author: req.Author})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *CookbookHandler) UpdateCookbook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req cookbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := h.cookbooks.Update(c.Request.Context(), id, &model.Cookbook{Name: req.Name, Author: req.Author})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteCookbook removes the cookbook; its recipes stay and lose the reference
func (h *CookbookHandler) DeleteCookbook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.cookbooks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
