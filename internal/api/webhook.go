package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
	"go.uber.org/zap"

	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

const maxWebhookBody = 1 << 20

// WebhookHandler keeps the users table in sync with the identity provider.
type WebhookHandler struct {
	users    service.IUserService
	verifier *svix.Webhook
	logger   *zap.Logger
}

// NewWebhookHandler creates the identity webhook handler. The secret is the
// provider's "whsec_" signing secret; an empty one disables signature
// verification.
func NewWebhookHandler(users service.IUserService, secret string, logger *zap.Logger) (*WebhookHandler, error) {
	h := &WebhookHandler{users: users, logger: logger}
	if secret == "" {
		return h, nil
	}

	verifier, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("decode webhook secret: %w", err)
	}
	h.verifier = verifier
	return h, nil
}

func (h *WebhookHandler) Identity(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}

	if h.verifier != nil {
		if err := h.verifier.Verify(body, c.Request.Header); err != nil {
			h.logger.Warn("rejected identity webhook", zap.Error(err))
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "invalid webhook signature", Stage: "auth"})
			return
		}
	}

	var event types.IdentityEvent
	if err := json.Unmarshal(body, &event); err != nil {
		badRequest(c, "invalid event payload")
		return
	}
	if event.Data.ID == "" {
		badRequest(c, "event has no user id")
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case types.IdentityUserCreated, types.IdentityUserUpdated:
		created, err := h.users.Upsert(ctx, event.Data)
		if err != nil {
			_ = c.Error(err)
			return
		}
		h.logger.Info("identity user synced",
			zap.String("event", event.Type),
			zap.String("user_id", event.Data.ID),
			zap.Bool("created", created))
		c.JSON(http.StatusOK, gin.H{"type": event.Type, "created": created})

	case types.IdentityUserDeleted:
		err := h.users.Delete(ctx, event.Data.ID)
		if err != nil && !errors.Is(err, service.ErrUserNotFound) {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": event.Type, "deleted": err == nil})

	default:
		c.JSON(http.StatusOK, gin.H{"type": event.Type, "ignored": true})
	}
}
