package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"spice-hr/internal/authz"
	"spice-hr/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer, err := authz.NewEnforcer()
	assert.NoError(t, err)
	svc := authz.NewService(enforcer)

	perform := func(role string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/abc", nil)
		if role != "" {
			c.Set(middleware.ContextRole, role)
		}
		middleware.Authorize(svc, authz.ResourceLeaveRequest, authz.ActionRead)(c)
		return w
	}

	t.Run("success submitter passes the read gate", func(t *testing.T) {
		w := perform(authz.RoleEmployee)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success hr manager passes the read gate", func(t *testing.T) {
		w := perform(authz.RoleHRManager)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative buyer is rejected at the route", func(t *testing.T) {
		w := perform(authz.RoleBuyer)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("negative missing role is unauthorized", func(t *testing.T) {
		w := perform("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
