package balance

import (
	"go-elms/internal/middleware"
	"go-elms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	balances := r.Group("/balances")
	{
		balances.GET("",
			middleware.RBACAuthorize(rbacService, "balance", "read"),
			handler.GetMine,
		)
		balances.GET("/users/:userId",
			middleware.RBACAuthorize(rbacService, "balance", "read_all"),
			handler.GetForUser,
		)
		balances.POST("/credit",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "balance", "manage"),
			handler.Credit,
		)
		balances.POST("/rollover",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "balance", "manage"),
			handler.Rollover,
		)
		balances.POST("/accrual",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "balance", "manage"),
			handler.Accrue,
		)
	}
}
