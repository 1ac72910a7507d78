package attendance

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
	attendance := r.Group("/attendance")
	attendance.Use(authMW)
	attendance.Use(middleware.ContextLogger(logger))
	{
		attendance.POST("/checkin",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCheckIn),
			handler.CheckIn,
		)
		attendance.POST("/checkout",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCheckOut),
			handler.CheckOut,
		)
		attendance.GET("/my-attendance",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionReadOwn),
			handler.GetMine,
		)
		attendance.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionReadAll),
			handler.GetAll,
		)
		attendance.GET("/today",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionReadAll),
			handler.GetToday,
		)
	}
}
