package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/types"
)

// DayLayout is the calendar day format meals are filed under.
const DayLayout = "2006-01-02"

// MealService stores logged meals.
type MealService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewMealService(db *gorm.DB, logger *zap.Logger) *MealService {
	return &MealService{db: db, logger: logger}
}

// Store records a meal for userID on the given day.
func (s *MealService) Store(ctx context.Context, userID string, day time.Time, meal types.Meal) (*model.Meal, error) {
	row := model.Meal{
		UserID:      userID,
		EatenOn:     day.Format(DayLayout),
		Title:       meal.Title,
		Calories:    meal.Calories,
		Protein:     meal.Protein,
		Carbs:       meal.Carbs,
		Fat:         meal.Fat,
		Fiber:       meal.Fiber,
		VitaminA:    meal.VitaminA,
		VitaminC:    meal.VitaminC,
		VitaminD:    meal.VitaminD,
		Calcium:     meal.Calcium,
		Iron:        meal.Iron,
		Magnesium:   meal.Magnesium,
		Potassium:   meal.Potassium,
		Zinc:        meal.Zinc,
		Ingredients: model.JSONBStringArray(meal.Ingredients),
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, persistErr("store meal", fmt.Errorf("%w: %s", ErrUserNotFound, userID))
		}
		return nil, persistErr("store meal", err)
	}
	s.logger.Info("meal stored", zap.Uint("meal_id", row.ID), zap.String("user_id", userID), zap.String("date", row.EatenOn))
	return &row, nil
}

// ListByDay returns the meals userID logged on day, oldest first.
func (s *MealService) ListByDay(ctx context.Context, userID string, day time.Time, limit int) ([]model.Meal, error) {
	var rows []model.Meal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND eaten_on = ?", userID, day.Format(DayLayout)).
		Order("created_at ASC, id ASC").
		Limit(clampLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, persistErr("list meals", err)
	}
	return rows, nil
}

// NewMealResponse rebuilds the API shape of a stored meal.
func NewMealResponse(row *model.Meal) types.MealResponse {
	ingredients := []string(row.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return types.MealResponse{
		ID:        row.ID,
		Date:      row.EatenOn,
		CreatedAt: row.CreatedAt,
		Meal: types.Meal{
			Title:       row.Title,
			Calories:    row.Calories,
			Protein:     row.Protein,
			Carbs:       row.Carbs,
			Fat:         row.Fat,
			Fiber:       row.Fiber,
			VitaminA:    row.VitaminA,
			VitaminC:    row.VitaminC,
			VitaminD:    row.VitaminD,
			Calcium:     row.Calcium,
			Iron:        row.Iron,
			Magnesium:   row.Magnesium,
			Potassium:   row.Potassium,
			Zinc:        row.Zinc,
			Ingredients: ingredients,
		},
	}
}

func NewMealResponses(rows []model.Meal) []types.MealResponse {
	out := make([]types.MealResponse, len(rows))
	for i := range rows {
		out[i] = NewMealResponse(&rows[i])
	}
	return out
}
