package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodfriend/backend/internal/middleware"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

type MealHandler struct {
	meals     service.IMealService
	extractor service.IExtractor
}

func NewMealHandler(meals service.IMealService, extractor service.IExtractor) *MealHandler {
	return &MealHandler{
		meals:     meals,
		extractor: extractor,
	}
}

// Log estimates the nutrition of a photographed meal and records it for
// the given day, today when the form has no date.
func (h *MealHandler) Log(c *gin.Context) {
	day, err := service.ParseDay(c.PostForm("date"))
	if err != nil {
		badRequest(c, "date must be formatted as YYYY-MM-DD")
		return
	}

	image, contentType, ok := readImage(c)
	if !ok {
		return
	}

	meal, err := h.extractor.LogMeal(c.Request.Context(), middleware.UserID(c), image, contentType, day)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, service.NewMealResponse(meal))
}

// Day lists the caller's meals for one day in the order they were logged.
func (h *MealHandler) Day(c *gin.Context) {
	var q types.MealDayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "date query parameter is required")
		return
	}
	day, err := service.ParseDay(q.Date)
	if err != nil {
		badRequest(c, "date must be formatted as YYYY-MM-DD")
		return
	}

	rows, err := h.meals.ListByDay(c.Request.Context(), middleware.UserID(c), day, q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format(service.DayLayout),
		"meals": service.NewMealResponses(rows),
	})
}
