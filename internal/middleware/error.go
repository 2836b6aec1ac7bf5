package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/foodfriend/backend/internal/extraction"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

// ErrorHandler renders the last error a handler attached with c.Error as
// a JSON body naming the failed stage.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := ErrorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.Error(err), zap.String("stage", body.Stage))
		}
		c.JSON(status, body)
	}
}

// ErrorResponse maps an error to its HTTP status and response body.
func ErrorResponse(err error) (int, types.ErrorResponse) {
	body := types.ErrorResponse{Error: err.Error()}

	var stageErr *service.StageError
	if errors.As(err, &stageErr) {
		body.Stage = string(stageErr.Stage)
	}

	var (
		validationErr  *extraction.ValidationError
		providerErr    *service.ProviderError
		persistenceErr *service.PersistenceError
	)
	switch {
	case errors.As(err, &validationErr):
		if body.Stage == "" {
			body.Stage = string(service.StageValidate)
		}
		for _, f := range validationErr.Fields {
			body.Fields = append(body.Fields, types.FieldIssue{Field: f.Field, Reason: f.Reason})
		}
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, body
	case errors.As(err, &providerErr):
		if errors.Is(err, context.DeadlineExceeded) {
			body.Error = "model provider timed out"
			return http.StatusGatewayTimeout, body
		}
		body.Error = "model provider request failed"
		return http.StatusBadGateway, body
	case errors.As(err, &persistenceErr):
		body.Error = "failed to store result"
		if body.Stage == "" {
			body.Stage = string(service.StagePersist)
		}
		return http.StatusInternalServerError, body
	default:
		body.Error = "internal server error"
		return http.StatusInternalServerError, body
	}
}
