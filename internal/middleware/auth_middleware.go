package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"spice-hr/internal/shared/contextutil"
	"spice-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextEmployeeID   = "employee_id"
	ContextEmployeeName = "employee_name"
	ContextRole         = "role"
)

// AuthMiddleware validates the platform-issued JWT and copies the acting
// employee's identity into both the gin context and the request context.
// Token issuance belongs to the platform auth service, not here.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code := "INVALID_TOKEN"
			message := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code = "TOKEN_EXPIRED"
				message = "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Employee ID not found in token", nil)
			c.Abort()
			return
		}

		employeeName, ok := claims["employee_name"].(string)
		if !ok || employeeName == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Employee name not found in token", nil)
			c.Abort()
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Role not found in token", nil)
			c.Abort()
			return
		}

		c.Set(ContextEmployeeID, employeeID)
		c.Set(ContextEmployeeName, employeeName)
		c.Set(ContextRole, role)

		actor := contextutil.Actor{
			EmployeeID:   employeeID,
			EmployeeName: employeeName,
			Role:         role,
		}
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), actor))

		c.Next()
	}
}
