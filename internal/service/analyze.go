package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/foodfriend/backend/internal/extraction"
	"github.com/foodfriend/backend/internal/model"
)

const (
	extractTemperature  = 0
	generateTemperature = 0.6
	visionTemperature   = 0.2
)

// Extractor runs a model reply through sanitizing, validation and storage.
// Every failure comes back as a *StageError and nothing is stored unless
// all earlier stages succeeded.
type Extractor struct {
	provider Provider
	recipes  IRecipeService
	meals    IMealService
	images   ImageStore
	logger   *zap.Logger
}

// NewExtractor wires the pipeline. images may be nil, in which case photos
// are not kept.
func NewExtractor(provider Provider, recipes IRecipeService, meals IMealService, images ImageStore, logger *zap.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		recipes:  recipes,
		meals:    meals,
		images:   images,
		logger:   logger,
	}
}

// AnalyzeImage turns a dish photo into a stored recipe.
func (e *Extractor) AnalyzeImage(ctx context.Context, userID string, image []byte, contentType string) (*model.Recipe, error) {
	raw, err := e.provider.Complete(ctx, Prompt{
		System:      systemPrompt,
		Instruction: recipeFromImagePrompt(),
		Image:       image,
		ContentType: contentType,
		Temperature: visionTemperature,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	recipe, err := extraction.ExtractRecipe(raw)
	if err != nil {
		return nil, e.rejected(raw, err)
	}

	imageURL := e.keepImage(ctx, "recipes", image, contentType)

	row, err := e.recipes.Store(ctx, userID, recipe, imageURL)
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}
	return row, nil
}

// LogMeal turns a meal photo into a stored nutrition entry for day.
func (e *Extractor) LogMeal(ctx context.Context, userID string, image []byte, contentType string, day time.Time) (*model.Meal, error) {
	raw, err := e.provider.Complete(ctx, Prompt{
		System:      systemPrompt,
		Instruction: mealFromImagePrompt(),
		Image:       image,
		ContentType: contentType,
		Temperature: visionTemperature,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	meal, err := extraction.ExtractMeal(raw)
	if err != nil {
		return nil, e.rejected(raw, err)
	}

	row, err := e.meals.Store(ctx, userID, day, meal)
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}
	return row, nil
}

// GenerateFromText reduces a free-form request to constraints, asks for a
// recipe under those constraints and stores it.
func (e *Extractor) GenerateFromText(ctx context.Context, userID, message string) (*model.Recipe, error) {
	raw, err := e.provider.Complete(ctx, Prompt{
		System:      systemPrompt,
		Instruction: recipeRequestPrompt(message),
		Temperature: extractTemperature,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	req, err := extraction.ExtractRecipeRequest(raw)
	if err != nil {
		return nil, e.rejected(raw, err)
	}

	raw, err = e.provider.Complete(ctx, Prompt{
		System:      systemPrompt,
		Instruction: recipeFromRequestPrompt(req),
		Temperature: generateTemperature,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	recipe, err := extraction.ExtractRecipe(raw)
	if err != nil {
		return nil, e.rejected(raw, err)
	}

	row, err := e.recipes.Store(ctx, userID, recipe, "")
	if err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}
	return row, nil
}

func (e *Extractor) rejected(raw string, err error) error {
	stage := StageValidate
	if errors.Is(err, extraction.ErrMalformedResponse) {
		stage = StageSanitize
	}
	e.logger.Warn("model reply rejected",
		zap.String("stage", string(stage)),
		zap.Error(err),
		zap.String("reply", truncate(raw, 300)))
	return &StageError{Stage: stage, Err: err}
}

// keepImage uploads the source photo. Storage problems are logged and the
// recipe is stored without an image.
func (e *Extractor) keepImage(ctx context.Context, prefix string, image []byte, contentType string) string {
	if e.images == nil || len(image) == 0 {
		return ""
	}
	url, err := e.images.Put(ctx, prefix, image, contentType)
	if err != nil {
		e.logger.Warn("image upload failed, storing recipe without image", zap.Error(err))
		return ""
	}
	return url
}

// ParseDay parses a YYYY-MM-DD day, defaulting to today in UTC.
func ParseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	return time.Parse(DayLayout, s)
}
