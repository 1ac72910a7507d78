package app

import (
	"database/sql"
	"strings"

	"go-ems/internal/attendance"
	"go-ems/internal/auth"
	"go-ems/internal/config"
	"go-ems/internal/employee"
	"go-ems/internal/leave"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/middleware"
	"go-ems/internal/notification"
	"go-ems/internal/rbac"
	"go-ems/internal/report"
	"go-ems/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type modules struct {
	employees employee.Service
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) (*modules, error) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService(logger)
	if err != nil {
		return nil, err
	}

	publisher := notification.NewOutboxPublisher(outboxRepo)
	policy := attendance.Policy{
		LateCutoff: cfg.Attendance.LateCutoff,
		Location:   cfg.Attendance.Location,
	}
	loginURL := strings.TrimRight(cfg.App.FrontendURL, "/") + "/login"

	// --- Services ---
	authService := auth.NewService(employeeRepo, rbacService, cfg.JWT, logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, publisher, loginURL, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo, policy, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, publisher, logger)
	reportService := report.NewService(employeeRepo, attendanceRepo, leaveRepo, policy, rdb, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.App.Env == "production", logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	reportHandler := report.NewHandler(reportService, logger)

	authMW := middleware.AuthMiddleware(cfg.JWT.Secret)
	idempotency := middleware.Idempotency(rdb, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, rbacService, authMW, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, authMW, logger)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, authMW, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authMW, idempotency, logger)
		report.RegisterRoutes(api, reportHandler, rbacService, authMW, logger)
	}

	return &modules{employees: employeeService}, nil
}
