package notification

import (
	"go-elms/internal/middleware"
	"go-elms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("",
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.GetMine,
		)
		notifications.POST("/:id/read",
			middleware.RBACAuthorize(rbacService, "notification", "update"),
			handler.MarkRead,
		)
	}
}
