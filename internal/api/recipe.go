package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodfriend/backend/internal/middleware"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	extractor service.IExtractor
}

func NewRecipeHandler(recipes service.IRecipeService, extractor service.IExtractor) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		extractor: extractor,
	}
}

// Analyze turns an uploaded food photo into a stored recipe.
func (h *RecipeHandler) Analyze(c *gin.Context) {
	image, contentType, ok := readImage(c)
	if !ok {
		return
	}

	recipe, err := h.extractor.AnalyzeImage(c.Request.Context(), middleware.UserID(c), image, contentType)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, service.NewRecipeResponse(recipe))
}

// Generate turns a free-text request into a stored recipe.
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		badRequest(c, "message must not be blank")
		return
	}

	recipe, err := h.extractor.GenerateFromText(c.Request.Context(), middleware.UserID(c), message)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, service.NewRecipeResponse(recipe))
}

func (h *RecipeHandler) List(c *gin.Context) {
	rows, err := h.recipes.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": service.NewRecipeResponses(rows),
	})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	row, found, err := h.recipes.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: service.ErrRecipeNotFound.Error()})
		return
	}

	c.JSON(http.StatusOK, service.NewRecipeResponse(row))
}

// Delete removes one of the caller's recipes. Recipes owned by someone
// else answer 404 like missing ones.
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Global lists recipes from every user, newest first or by similarity
// to the search text.
func (h *RecipeHandler) Global(c *gin.Context) {
	var q types.GlobalRecipeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query: "+err.Error())
		return
	}

	var category types.Category
	if q.Category != "" {
		category = types.Category(strings.ToLower(strings.TrimSpace(q.Category)))
		if !category.Valid() {
			badRequest(c, "unknown category "+strconv.Quote(q.Category))
			return
		}
	}

	rows, err := h.recipes.ListGlobal(c.Request.Context(), service.GlobalQuery{
		Limit:    q.Limit,
		Category: category,
		Search:   strings.TrimSpace(q.Search),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": service.NewRecipeResponses(rows),
	})
}

func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid recipe id")
		return 0, false
	}
	return uint(id), true
}
