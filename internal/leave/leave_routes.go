package leave

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts /leave. idempotency guards request creation and may
// be nil.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMW gin.HandlerFunc,
	idempotency gin.HandlerFunc,
	logger *zap.Logger,
) {
	if idempotency == nil {
		idempotency = func(c *gin.Context) { c.Next() }
	}

	leaves := r.Group("/leave")
	leaves.Use(authMW)
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("/request",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionRequest),
			idempotency,
			handler.Request,
		)
		leaves.GET("/my-requests",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadOwn),
			handler.ListMine,
		)
		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionCancel),
			handler.Cancel,
		)
		leaves.GET("/all",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionReadAll),
			handler.ListAll,
		)
		leaves.PUT("/:id",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionDecide),
			handler.Decide,
		)
	}
}
