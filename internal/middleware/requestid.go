package middleware

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags every request with an X-Request-ID, keeping one sent by
// the client.
func RequestID() gin.HandlerFunc {
	return requestid.New(requestid.WithGenerator(uuid.NewString))
}
