package middleware

import (
	"net/http"

	"spice-hr/internal/authz"
	"spice-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize gates a route on the fixed role/permission table. Record-level
// rules (ownership, pending-only) are re-checked in the service layer; this
// gate only keeps roles with no business on the route out entirely.
func Authorize(service authz.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(authz.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				resource+":"+action,
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
