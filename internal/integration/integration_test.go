// Package integration drives the assembled server against real Postgres
// and Redis containers.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foodfriend/backend/config"
	"github.com/foodfriend/backend/internal/server"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/testhelpers"
	"github.com/foodfriend/backend/internal/types"
)

// queueProvider answers prompts with canned replies in order.
type queueProvider struct {
	mu      sync.Mutex
	replies []string
}

func (p *queueProvider) Complete(context.Context, service.Prompt) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.replies) == 0 {
		return "", fmt.Errorf("no reply queued")
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func (p *queueProvider) push(replies ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, replies...)
}

type harness struct {
	t        *testing.T
	handler  http.Handler
	provider *queueProvider
	token    string
}

func newHarness(t *testing.T, rateLimit int) *harness {
	db := testhelpers.SetupPostgresDB(t)
	redisClient := testhelpers.SetupRedis(t)

	cfg := &config.Config{
		Environment:      config.Test,
		ServerHost:       "127.0.0.1",
		ServerPort:       "0",
		JWTSecret:        "integration-secret",
		JWTTTL:           time.Hour,
		RateLimitPerHour: rateLimit,
		CORSOrigins:      []string{"*"},
		LLM:              config.LLMConfig{Timeout: 5 * time.Second},
	}
	provider := &queueProvider{}
	srv, err := server.New(cfg, server.Deps{DB: db, Redis: redisClient, Provider: provider}, zaptest.NewLogger(t))
	require.NoError(t, err)

	token, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTTTL).GenerateToken("user_int", "int@example.com")
	require.NoError(t, err)

	return &harness{t: t, handler: srv.Handler(), provider: provider, token: token}
}

func (h *harness) request(method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	h.t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h *harness) upload(path string, fields map[string]string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(h.t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", "plate.jpg")
	require.NoError(h.t, err)
	_, err = part.Write(append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{1}, 64)...))
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())
	return h.request(http.MethodPost, path, &buf, mw.FormDataContentType())
}

func (h *harness) syncUser() {
	h.t.Helper()
	event := `{"type":"user.created","data":{"id":"user_int","first_name":"Int","email_addresses":[{"email_address":"int@example.com"}]}}`
	w := h.request(http.MethodPost, "/api/v1/webhooks/identity", bytes.NewBufferString(event), "application/json")
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
}

func TestRecipeLifecycle(t *testing.T) {
	h := newHarness(t, 100)

	// Analyzing before the identity webhook arrives fails at persistence.
	h.provider.push(testhelpers.TacosReply)
	w := h.upload("/api/v1/analyze", nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"stage":"persist"`)

	h.syncUser()

	h.provider.push(testhelpers.TacosReply)
	w = h.upload("/api/v1/analyze", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tacos types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tacos))

	h.provider.push(strings.Replace(testhelpers.TacosReply, `"title":"Tacos"`, `"title":"Margherita Pizza"`, 1))
	w = h.upload("/api/v1/analyze", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A malformed reply is rejected and nothing is stored.
	h.provider.push("I can't tell what this is.")
	w = h.upload("/api/v1/analyze", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"sanitize"`)

	w = h.request(http.MethodGet, "/api/v1/recipe", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine map[string][]types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine["recipes"], 2)

	w = h.request(http.MethodGet, "/api/v1/global_recipe?q=margherita+pizza&limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var found map[string][]types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found["recipes"], 1)
	assert.Equal(t, "Margherita Pizza", found["recipes"][0].Title)

	w = h.request(http.MethodDelete, fmt.Sprintf("/api/v1/recipe/%d", tacos.ID), nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = h.request(http.MethodGet, fmt.Sprintf("/api/v1/recipe/%d", tacos.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMealLogAndUserDeletion(t *testing.T) {
	h := newHarness(t, 100)
	h.syncUser()

	h.provider.push(testhelpers.MealReply)
	w := h.upload("/api/v1/meals", map[string]string{"date": "2024-05-02"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.request(http.MethodGet, "/api/v1/meals/day?date=2024-05-02", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Oatmeal"`)

	w = h.request(http.MethodPost, "/api/v1/webhooks/identity",
		bytes.NewBufferString(`{"type":"user.deleted","data":{"id":"user_int"}}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	w = h.request(http.MethodGet, "/api/v1/meals/day?date=2024-05-02", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"date":"2024-05-02","meals":[]}`, w.Body.String())
}

func TestRateLimitOnModelRoutes(t *testing.T) {
	h := newHarness(t, 1)
	h.syncUser()

	h.provider.push(testhelpers.TacosReply, testhelpers.TacosReply)
	w := h.upload("/api/v1/analyze", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.upload("/api/v1/analyze", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Reads are not counted.
	w = h.request(http.MethodGet, "/api/v1/recipe", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

