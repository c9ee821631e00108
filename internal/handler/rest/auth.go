package rest

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/webitel/video-exporter/internal/errors"
)

// AdminAuth requires "Authorization: Bearer <token>" on every request.
// An empty token disables the check.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, errors.New("No authorization header",
				errors.WithID("auth.middleware.unauthorized"),
				errors.WithStatus(http.StatusUnauthorized),
			))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(c, errors.New("Invalid authorization header",
				errors.WithID("auth.middleware.header"),
				errors.WithStatus(http.StatusUnauthorized),
			))
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			writeError(c, errors.New("permission denied",
				errors.WithID("auth.middleware.permission"),
				errors.WithStatus(http.StatusForbidden),
			))
			return
		}

		c.Next()
	}
}
