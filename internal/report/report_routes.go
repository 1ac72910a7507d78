package report

import (
	"go-ems/internal/middleware"
	"go-ems/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMW gin.HandlerFunc,
	logger *zap.Logger,
) {
	reports := r.Group("/reports")
	reports.Use(authMW)
	reports.Use(middleware.ContextLogger(logger))
	reports.Use(middleware.RateLimitByUser(1, 5))
	reports.Use(middleware.RBACAuthorize(rbacService, rbac.ResourceReport, rbac.ActionReadAll))
	{
		reports.GET("/today", handler.Today)
		reports.GET("/monthly", handler.Monthly)
		reports.GET("/leaves", handler.Leaves)
		reports.GET("/departments", handler.Departments)
	}
}
