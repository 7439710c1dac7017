package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/laselecta/mesa-manager/models"
	"github.com/laselecta/mesa-manager/utils"
)

// RoleResolveTimeout caps how long a request may wait on the role lookup
// before the session check is treated as failed.
const RoleResolveTimeout = 30 * time.Second

// AuthMiddleware validates the bearer token and resolves the user's role
// from the user_roles side table. The lookup runs under a fixed deadline:
// when it expires the request is rejected the same way an absent session is.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization token missing"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(token, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}
		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in token"))
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), RoleResolveTimeout)
		defer cancel()

		var userRole models.UserRole
		if err := db.WithContext(ctx).Where("user_id = ?", claims.UserID).First(&userRole).Error; err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("session check timed out"))
			} else {
				utils.RespondError(c, http.StatusUnauthorized, errors.New("no role assigned to user"))
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", userRole.Role)
		c.Next()
	}
}
