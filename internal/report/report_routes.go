package report

import (
	"go-elms/internal/middleware"
	"go-elms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	{
		reports.GET("/leaves.xlsx", middleware.RBACAuthorize(rbacService, "report", "read"), handler.ExportLeaves)
	}
}
