package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/weekplate/backend/internal/model"
	"github.com/pageza/weekplate/backend/internal/recipes"
	"github.com/pageza/weekplate/backend/internal/service"
)

// RecipeHandler serves the recipe catalog, photo uploads and photo import drafts
type RecipeHandler struct {
	recipes service.IRecipeService
	photos  service.IPhotoService
	imports service.IImportService
	parse   gin.HandlerFunc
}

// NewRecipeHandler creates a RecipeHandler. parseLimit guards the photo parse
// route and may be nil.
func NewRecipeHandler(recipes service.IRecipeService, photos service.IPhotoService, imports service.IImportService, parseLimit gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		photos:  photos,
		imports: imports,
		parse:   parseLimit,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	r := router.Group("/recipes")
	{
		r.GET("", h.ListRecipes)
		r.POST("", h.CreateRecipe)
		r.GET("/:id", h.GetRecipe)
		r.GET("/:id/scaled", h.ScaledRecipe)
		r.PUT("/:id", h.UpdateRecipe)
		r.DELETE("/:id", h.DeleteRecipe)
		r.POST("/:id/favorite", h.ToggleFavorite)
		r.POST("/:id/exclude", h.ToggleExcluded)

		r.POST("/photos", h.UploadPhoto)
		r.GET("/photos/url", h.PhotoURL)

		if h.parse != nil {
			r.POST("/parse", h.parse, h.ParsePhoto)
		} else {
			r.POST("/parse", h.ParsePhoto)
		}
		r.GET("/drafts/:id", h.GetDraft)
		r.DELETE("/drafts/:id", h.DeleteDraft)
		r.POST("/drafts/:id/confirm", h.ConfirmDraft)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filters recipes.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if raw := c.Query("cookbook_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cookbook_id"})
			return
		}
		filters.CookbookID = &id
	}

	list, err := h.recipes.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": list})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) ScaledRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, ok := queryInt(c, "servings", 0)
	if !ok {
		return
	}
	scaled, err := h.recipes.Scaled(c.Request.Context(), id, n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scaled)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.recipes.Create(c.Request.Context(), &recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var recipe model.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.recipes.Update(c.Request.Context(), id, &recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) ToggleExcluded(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.ToggleExcluded(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// UploadPhoto stores the multipart "photo" field and returns its URL
func (h *RecipeHandler) UploadPhoto(c *gin.Context) {
	data, filename, contentType, ok := readPhoto(c)
	if !ok {
		return
	}
	url, err := h.photos.Upload(c.Request.Context(), data, filename, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

func (h *RecipeHandler) PhotoURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	url, err := h.photos.PresignedURL(c.Request.Context(), key, 0)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ParsePhoto sends a cookbook page photo to the parser and stores the result as a draft
func (h *RecipeHandler) ParsePhoto(c *gin.Context) {
	data, _, contentType, ok := readPhoto(c)
	if !ok {
		return
	}
	draft, err := h.imports.Parse(c.Request.Context(), data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

func (h *RecipeHandler) GetDraft(c *gin.Context) {
	draft, err := h.imports.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *RecipeHandler) DeleteDraft(c *gin.Context) {
	if err := h.imports.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmDraft turns a draft into a stored recipe. The body is optional.
func (h *RecipeHandler) ConfirmDraft(c *gin.Context) {
	var req service.ConfirmDraftRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	recipe, err := h.imports.ConfirmDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// readPhoto reads the "photo" form file, capped one byte past the size limit so
// the service can reject oversized uploads
func readPhoto(c *gin.Context) ([]byte, string, string, bool) {
	fh, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return nil, "", "", false
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return nil, "", "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, service.MaxPhotoBytes+1))
	if err != nil {
		respondError(c, err)
		return nil, "", "", false
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return data, fh.Filename, contentType, true
}
