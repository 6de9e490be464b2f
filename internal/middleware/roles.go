package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/internal/types"
)

// RequireRoles permits the request when the actor's role is in the allow-list.
// Staff accounts bypass the check. Must run after AuthMiddleware.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user in context"})
			return
		}

		if user.IsStaff || user.Role == types.RoleAdmin {
			ctx.Next()
			return
		}

		for _, role := range allowed {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role permissions"})
	}
}
