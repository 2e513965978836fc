package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminSecretHeader carries the shared secret gating administrative routes
const AdminSecretHeader = "X-Admin-Secret"

// AdminAuth creates a middleware that validates the shared admin secret.
// The price table is trusted precisely because writes to it pass through
// this gate.
func AdminAuth(secret string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader(AdminSecretHeader)

		// An unset secret locks the admin surface rather than opening it
		if secret == "" || supplied == "" ||
			subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Unauthorized admin request")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  "INVALID_ADMIN_SECRET",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
