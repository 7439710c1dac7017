package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// Allow is the single authorization policy: a role passes when it appears in
// the required set, and admin passes every check (including kitchen).
func Allow(role string, required ...string) bool {
	if len(required) == 0 {
		return true
	}
	if role == models.RoleAdmin {
		return true
	}
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// RequireRole gates a route group on the role resolved by AuthMiddleware.
func RequireRole(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || !Allow(role, required...) {
			utils.RespondError(c, http.StatusForbidden, errors.New("insufficient role"))
			c.Abort()
			return
		}

		c.Next()
	}
}
