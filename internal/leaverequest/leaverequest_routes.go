package leaverequest

import (
	"spice-hr/internal/authz"
	"spice-hr/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authzService authz.Service,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionRead),
			handler.GetAll)
		requests.GET("/summary",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionRead),
			handler.CategorySummary)
		requests.GET("/:id",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionRead),
			handler.GetByID)
		requests.GET("/:id/certification",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionRead),
			handler.Certification)
		requests.POST("",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionCreate),
			handler.Create)
		// PUT covers both submitter edits and bare {status} decisions. The
		// read gate keeps buyers out; the service checks the specific
		// permission for each shape.
		requests.PUT("/:id",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionRead),
			handler.Update)
		requests.POST("/:id/approve",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionDecide),
			handler.Approve)
		requests.POST("/:id/reject",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionDecide),
			handler.Reject)
		requests.DELETE("/:id",
			middleware.Authorize(authzService, authz.ResourceLeaveRequest, authz.ActionDelete),
			handler.Delete)
	}
}
