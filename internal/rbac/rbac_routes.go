package rbac

import (
	"go-elms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	{
		group.GET("/me", handler.MyPermissions)
		group.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Enforce)
		group.POST("/reload", middleware.RBACAuthorize(service, "rbac", "manage"), handler.Reload)
	}
}
