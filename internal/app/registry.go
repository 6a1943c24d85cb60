package app

import (
	"database/sql"

	"spice-hr/internal/authz"
	"spice-hr/internal/leaverequest"
	"spice-hr/internal/messaging/kafka"
	"spice-hr/internal/middleware"
	"spice-hr/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Authorization ---
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}
	authzService := authz.NewService(enforcer)

	// --- Services ---
	leaveRequestService := leaverequest.NewServiceWithOutbox(db, leaveRequestRepo, counterRepo, outboxRepo, rdb)

	// --- Handlers ---
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)

	// --- Middleware & Routes ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(20, 40))

	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		leaverequest.RegisterRoutes(api, leaveRequestHandler, authzService)
	}

	return nil
}
