package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
	"github.com/zideo/fintrack-api/pkg/response"
)

// SelfMarker in an RBAC allow-list grants access when the :id path
// parameter matches the caller's own user ID.
const SelfMarker = "SELF"

// RBAC allows the request through when the caller's role is in the
// allow-list, or when SelfMarker is listed and the route targets the
// caller's own record. The allow-list is parsed once at route setup.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	roles := make(map[models.UserRole]struct{}, len(allowed))
	for _, entry := range allowed {
		if entry == SelfMarker {
			allowSelf = true
			continue
		}
		roles[models.UserRole(entry)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := c.Value(ContextUserKey).(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, permitted := roles[claims.Role]; permitted {
			c.Next()
			return
		}
		if allowSelf && c.Param("id") == claims.UserID && claims.UserID != "" {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles restricts a route to the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}
