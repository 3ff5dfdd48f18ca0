package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngopidibandung/cafe-map-backend/internal/auth"
	"github.com/ngopidibandung/cafe-map-backend/pkg/response"
)

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(a *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.Abort(c, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		claims, err := a.Verify(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}
