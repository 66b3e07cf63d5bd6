package leave

import (
	"go-elms/internal/middleware"
	"go-elms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	{
		leaves.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetMine,
		)
		leaves.GET("/all",
			middleware.RBACAuthorize(rbacService, "leave", "read_all"),
			handler.GetAll,
		)
		leaves.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetById,
		)
		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave", "cancel"),
			handler.Cancel,
		)
		leaves.POST("/:id/steps/:stepId/decision",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			middleware.Idempotency(rdb),
			handler.Decide,
		)
		leaves.POST("/escalations/sweep",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "leave", "manage"),
			handler.SweepEscalations,
		)
	}

	approvals := r.Group("/approvals")
	{
		approvals.GET("/pending",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.GetPendingApprovals,
		)
	}
}
