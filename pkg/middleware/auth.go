package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenAuthMiddleware guards operator endpoints with a shared secret carried in
// the "token" header. Comparison is constant-time.
func TokenAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("token")
		if provided == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Verification failed"})
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			logger.Warn("Operator token mismatch", zap.String("client_ip", c.ClientIP()))
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Verification failed"})
			c.Abort()
			return
		}

		c.Next()
	}
}
