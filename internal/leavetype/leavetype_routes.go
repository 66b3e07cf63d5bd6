package leavetype

import (
	"go-elms/internal/middleware"
	"go-elms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	types := r.Group("/leave-types")
	{
		types.GET("",
			middleware.RBACAuthorize(rbacService, "leave_type", "read"),
			handler.GetAll,
		)
		types.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave_type", "read"),
			handler.GetById,
		)
		types.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_type", "manage"),
			handler.Create,
		)
		types.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_type", "manage"),
			handler.Update,
		)
	}
}
