package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foodfriend/backend/internal/middleware"
	"github.com/foodfriend/backend/internal/mocks"
	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/testhelpers"
)

const testUserID = "user_2abc"

// pngBytes starts with the PNG signature so content sniffing sees an image.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type testEnv struct {
	router    *gin.Engine
	recipes   *mocks.MockRecipeService
	meals     *mocks.MockMealService
	users     *mocks.MockUserService
	extractor *mocks.MockExtractor
	token     string
}

func newTestEnv(t *testing.T, webhookSecret string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService("test-secret", time.Hour)
	token, err := auth.GenerateToken(testUserID, "cook@example.com")
	require.NoError(t, err)

	env := &testEnv{
		recipes:   new(mocks.MockRecipeService),
		meals:     new(mocks.MockMealService),
		users:     new(mocks.MockUserService),
		extractor: new(mocks.MockExtractor),
		token:     token,
	}
	logger := zaptest.NewLogger(t)
	webhooks, err := NewWebhookHandler(env.users, webhookSecret, logger)
	require.NoError(t, err)

	env.router = gin.New()
	env.router.Use(middleware.ErrorHandler(logger))
	RegisterRoutes(env.router, auth, nil, Handlers{
		Recipes:  NewRecipeHandler(env.recipes, env.extractor),
		Meals:    NewMealHandler(env.meals, env.extractor),
		Webhooks: webhooks,
		Health:   NewHealthHandler(testhelpers.SetupTestDB(t)),
	})

	t.Cleanup(func() {
		env.recipes.AssertExpectations(t)
		env.meals.AssertExpectations(t)
		env.users.AssertExpectations(t)
		env.extractor.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) do(method, path string, body io.Reader, contentType string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path string, payload any, authed bool) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	return e.do(method, path, body, "application/json", authed)
}

// multipartBody builds a form with an optional file part and plain fields.
func multipartBody(t *testing.T, file []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("file", "plate.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func storedTacos() *model.Recipe {
	return &model.Recipe{
		ID:        7,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UserID:    testUserID,
		Title:     "Tacos",
		Macros:    model.JSONBFloatMap{"protein": 30, "fat": 10, "carbs": 5},
		Steps:     model.JSONBStringArray{"cook beef"},
		Category:  "tacos",
		Ingredients: []model.Ingredient{
			{ID: 1, RecipeID: 7, Position: 0, Name: "beef", Quantity: 200, Unit: "g"},
		},
	}
}
