package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/types"
)

const (
	defaultGlobalLimit = 20
	maxGlobalLimit     = 100
)

// GlobalQuery filters the cross-user recipe listing.
type GlobalQuery struct {
	Limit    int
	Category types.Category
	Search   string
}

// RecipeService maps recipe aggregates to and from their rows.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{
		db:     db,
		logger: logger,
	}
}

// Store writes the recipe header and its ingredients for userID in one
// transaction. Only title, macros, steps and category are taken from the
// recipe; ingredient order is kept in the position column.
func (s *RecipeService) Store(ctx context.Context, userID string, recipe types.Recipe, imageURL string) (*model.Recipe, error) {
	row := model.Recipe{
		UserID:    userID,
		Title:     recipe.Title,
		Macros:    model.JSONBFloatMap(recipe.Macros),
		Steps:     model.JSONBStringArray(recipe.Steps),
		Category:  string(recipe.Category),
		ImageURL:  imageURL,
		Embedding: GenerateEmbedding(recipe.Title),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owners int64
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&owners).Error; err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		if owners == 0 {
			return ErrUserNotFound
		}

		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}

		if len(recipe.Ingredients) == 0 {
			row.Ingredients = []model.Ingredient{}
			return nil
		}
		ingredients := make([]model.Ingredient, len(recipe.Ingredients))
		for i, ing := range recipe.Ingredients {
			ingredients[i] = model.Ingredient{
				RecipeID: row.ID,
				Position: i,
				Name:     ing.Name,
				Quantity: ing.Quantity,
				Unit:     ing.Unit,
			}
		}
		if err := tx.Create(&ingredients).Error; err != nil {
			return fmt.Errorf("insert ingredients: %w", err)
		}
		row.Ingredients = ingredients
		return nil
	})
	if err != nil {
		return nil, persistErr("store recipe", err)
	}

	s.logger.Info("recipe stored",
		zap.Uint("recipe_id", row.ID),
		zap.String("user_id", userID),
		zap.Int("ingredients", len(row.Ingredients)))
	return &row, nil
}

// GetByID loads one recipe aggregate. A missing recipe is reported through
// found, not as an error.
func (s *RecipeService) GetByID(ctx context.Context, id uint) (*model.Recipe, bool, error) {
	var row model.Recipe
	err := s.withIngredients(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, persistErr("get recipe", err)
	}
	return &row, true, nil
}

// ListByUser returns every recipe owned by userID, newest first.
func (s *RecipeService) ListByUser(ctx context.Context, userID string) ([]model.Recipe, error) {
	var rows []model.Recipe
	err := s.withIngredients(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, persistErr("list recipes", err)
	}
	return rows, nil
}

// ListGlobal lists recipes across all users. With a search term, postgres
// orders by embedding distance; other dialects fall back to a title match.
func (s *RecipeService) ListGlobal(ctx context.Context, q GlobalQuery) ([]model.Recipe, error) {
	query := s.withIngredients(ctx)

	if q.Category != "" {
		query = query.Where("category = ?", string(q.Category))
	}

	if search := strings.TrimSpace(q.Search); search != "" && s.db.Dialector.Name() == "postgres" {
		vec := GenerateEmbedding(search)
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
		})
	} else {
		if search != "" {
			query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		query = query.Order("created_at DESC, id DESC")
	}

	var rows []model.Recipe
	if err := query.Limit(clampLimit(q.Limit)).Find(&rows).Error; err != nil {
		return nil, persistErr("list global recipes", err)
	}
	return rows, nil
}

// Delete removes a recipe owned by userID. Ingredients go with it through
// the cascading foreign key.
func (s *RecipeService) Delete(ctx context.Context, userID string, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Recipe{})
	if res.Error != nil {
		return persistErr("delete recipe", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	s.logger.Info("recipe deleted", zap.Uint("recipe_id", id), zap.String("user_id", userID))
	return nil
}

func (s *RecipeService) withIngredients(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultGlobalLimit
	case limit > maxGlobalLimit:
		return maxGlobalLimit
	default:
		return limit
	}
}

// NewRecipeResponse rebuilds the API shape of a stored recipe.
func NewRecipeResponse(row *model.Recipe) types.RecipeResponse {
	ingredients := make([]types.Ingredient, len(row.Ingredients))
	for i, ing := range row.Ingredients {
		ingredients[i] = types.Ingredient{Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit}
	}
	macros := map[string]float64(row.Macros)
	if macros == nil {
		macros = map[string]float64{}
	}
	steps := []string(row.Steps)
	if steps == nil {
		steps = []string{}
	}
	return types.RecipeResponse{
		ID:          row.ID,
		UserID:      row.UserID,
		Title:       row.Title,
		Ingredients: ingredients,
		Macros:      macros,
		Steps:       steps,
		Category:    types.Category(row.Category),
		ImageURL:    row.ImageURL,
		CreatedAt:   row.CreatedAt,
	}
}

// NewRecipeResponses maps a list of stored recipes.
func NewRecipeResponses(rows []model.Recipe) []types.RecipeResponse {
	out := make([]types.RecipeResponse, len(rows))
	for i := range rows {
		out[i] = NewRecipeResponse(&rows[i])
	}
	return out
}
