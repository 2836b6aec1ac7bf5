package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foodfriend/backend/internal/extraction"
	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/testhelpers"
)

// scriptedProvider returns its replies in order and records every prompt.
type scriptedProvider struct {
	replies []string
	err     error
	prompts []Prompt
}

func (p *scriptedProvider) Complete(_ context.Context, prompt Prompt) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	if len(p.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

type memoryImageStore struct {
	puts int
	err  error
}

func (s *memoryImageStore) Put(_ context.Context, prefix string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.puts++
	return "https://bucket.example/" + ObjectKey(prefix, data, contentType), nil
}

type pipeline struct {
	extractor *Extractor
	provider  *scriptedProvider
	images    *memoryImageStore
	recipes   *RecipeService
}

func newPipeline(t *testing.T, replies ...string) *pipeline {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateUser(t, db, "user_1")
	log := zaptest.NewLogger(t)

	p := &pipeline{
		provider: &scriptedProvider{replies: replies},
		images:   &memoryImageStore{},
		recipes:  NewRecipeService(db, log),
	}
	p.extractor = NewExtractor(p.provider, p.recipes, NewMealService(db, log), p.images, log)
	return p
}

func (p *pipeline) recipeCount(t *testing.T) int64 {
	var n int64
	require.NoError(t, p.recipes.db.Model(&model.Recipe{}).Count(&n).Error)
	return n
}

func TestExtractor_AnalyzeImage(t *testing.T) {
	p := newPipeline(t, testhelpers.TacosReply)
	photo := []byte("fake jpeg bytes")

	row, err := p.extractor.AnalyzeImage(context.Background(), "user_1", photo, "image/png")
	require.NoError(t, err)

	resp := NewRecipeResponse(row)
	assert.Equal(t, "Tacos", resp.Title)
	assert.Len(t, resp.Ingredients, 1)
	assert.Contains(t, resp.ImageURL, "recipes/")
	assert.Equal(t, 1, p.images.puts)

	require.Len(t, p.provider.prompts, 1)
	assert.Equal(t, photo, p.provider.prompts[0].Image)
	assert.Equal(t, "image/png", p.provider.prompts[0].ContentType)
}

func TestExtractor_AnalyzeImageStages(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		provErr error
		stage   Stage
	}{
		{name: "provider failure", provErr: &ProviderError{StatusCode: 500, Body: "boom"}, stage: StageGenerate},
		{name: "no json at all", reply: "Sorry, I cannot help.", stage: StageSanitize},
		{name: "missing steps", reply: `{"title":"Tacos","ingredients":[],"macros":{},"category":"tacos"}`, stage: StageValidate},
		{name: "string quantity", reply: `{"title":"T","ingredients":[{"name":"a","quantity":"lots","unit":"g"}],"macros":{},"steps":[],"category":"other"}`, stage: StageValidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPipeline(t, tt.reply)
			p.provider.err = tt.provErr

			row, err := p.extractor.AnalyzeImage(context.Background(), "user_1", []byte("img"), "image/jpeg")
			assert.Nil(t, row)

			var serr *StageError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.Equal(t, tt.stage, serr.Stage)
			assert.Zero(t, p.recipeCount(t), "nothing may be stored after a failed stage")
			assert.Zero(t, p.images.puts)
		})
	}
}

func TestExtractor_ValidationErrorSurfacesUnchanged(t *testing.T) {
	p := newPipeline(t, `{"title":"Tacos"}`)

	_, err := p.extractor.AnalyzeImage(context.Background(), "user_1", []byte("img"), "image/jpeg")

	var verr *extraction.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasField("steps"))
}

func TestExtractor_PersistStage(t *testing.T) {
	p := newPipeline(t, testhelpers.TacosReply)

	_, err := p.extractor.AnalyzeImage(context.Background(), "unknown_user", nil, "")

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, StagePersist, serr.Stage)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestExtractor_ImageUploadFailureIsNotFatal(t *testing.T) {
	p := newPipeline(t, testhelpers.TacosReply)
	p.images.err = errors.New("s3 unavailable")

	row, err := p.extractor.AnalyzeImage(context.Background(), "user_1", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Empty(t, row.ImageURL)
}

func TestExtractor_LogMeal(t *testing.T) {
	p := newPipeline(t, testhelpers.MealReply)
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	row, err := p.extractor.LogMeal(context.Background(), "user_1", []byte("img"), "image/jpeg", day)
	require.NoError(t, err)

	resp := NewMealResponse(row)
	assert.Equal(t, "Oatmeal", resp.Title)
	assert.Equal(t, "2026-05-01", resp.Date)
	assert.Equal(t, 350.0, resp.Calories)
	require.NotNil(t, resp.Calcium)
	assert.Equal(t, 150.0, *resp.Calcium)
	assert.Nil(t, resp.VitaminA)
}

func TestExtractor_GenerateFromText(t *testing.T) {
	request := `{"title":null,"spice_level":"hot","flavor_profile":["smoky"],"servings":3,"dietary_restrictions":["gluten-free"]}`
	p := newPipeline(t, request, testhelpers.TacosReply)

	row, err := p.extractor.GenerateFromText(context.Background(), "user_1", "something spicy and smoky for three, no gluten")
	require.NoError(t, err)
	assert.Equal(t, "Tacos", row.Title)
	assert.Empty(t, row.ImageURL)

	require.Len(t, p.provider.prompts, 2)
	assert.Contains(t, p.provider.prompts[0].Instruction, "something spicy and smoky")
	second := p.provider.prompts[1].Instruction
	assert.Contains(t, second, "Spice level: hot")
	assert.Contains(t, second, "Servings: 3")
	assert.Contains(t, second, "gluten-free")
	assert.NotContains(t, second, "Title hint")
}

func TestExtractor_GenerateFromTextBadRequest(t *testing.T) {
	p := newPipeline(t, `{"title":null,"spice_level":"nuclear","flavor_profile":[],"servings":2,"dietary_restrictions":null}`)

	_, err := p.extractor.GenerateFromText(context.Background(), "user_1", "make it nuclear")

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, StageValidate, serr.Stage)
	assert.Len(t, p.provider.prompts, 1, "no recipe is generated from an invalid request")
}
