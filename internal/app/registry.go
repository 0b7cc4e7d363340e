package app

import (
	"context"

	"go-selfservice/internal/config"
	"go-selfservice/internal/employee"
	"go-selfservice/internal/leave"
	"go-selfservice/internal/messaging/kafka"
	"go-selfservice/internal/middleware"
	"go-selfservice/internal/notification"
	"go-selfservice/internal/rbac"
	"go-selfservice/internal/rbac/infra"
	"go-selfservice/internal/shared/fieldcrypt"
	"go-selfservice/internal/shared/uow"
	"go-selfservice/internal/signature"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(
	ctx context.Context,
	api *gin.RouterGroup,
	cfg *config.Config,
	infrastructure *infrastructure,
	logger *zap.Logger,
) error {
	db, rdb := infrastructure.db, infrastructure.rdb

	// --- Shared ---
	crypt, err := fieldcrypt.New(cfg.Crypto.Secret)
	if err != nil {
		return err
	}
	storage, err := signature.New(ctx, cfg.Signature)
	if err != nil {
		return err
	}
	notifier := notification.NewOutboxNotifier(kafka.NewOutboxRepository(db))

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPolicies)
	if err != nil {
		return err
	}

	// --- Repositories ---
	employeeRepo := employee.NewRepository(db)
	leaveRepo := leave.NewRepository(db)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, crypt)
	leaveService := leave.NewService(uow.New(db), leaveRepo, employeeRepo, storage, notifier, crypt)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService, rdb)

	// --- Routes Registration ---
	auth := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	employee.RegisterRoutes(api, employeeHandler, auth, rbacService, logger)
	leave.RegisterRoutes(api, leaveHandler, auth, rbacService, rdb, logger)

	return nil
}
