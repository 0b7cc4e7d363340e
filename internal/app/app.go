package app

import (
	"context"
	"net/http"

	"go-selfservice/internal/bootstrap"
	"go-selfservice/internal/config"
	"go-selfservice/internal/database"
	"go-selfservice/internal/middleware"
	"go-selfservice/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type infrastructure struct {
	db  *gorm.DB
	rdb *redis.Client
}

func (i *infrastructure) close() {
	if i.rdb != nil {
		_ = i.rdb.Close()
	}
	if i.db != nil {
		if sqlDB, err := i.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func connectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(cfg.DSN(), cfg.MaxRetries)
}

// RunAPI migrates the schema, serves the HTTP API and blocks until ctx is
// canceled.
func RunAPI(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.api")

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	infra := &infrastructure{db: db}
	defer infra.close()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := database.RunMigrations(sqlDB, logger.Named("migrate")); err != nil {
		return err
	}

	infra.rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(20, 40))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := registerModules(ctx, router.Group("/api/v1"), cfg, infra, logger); err != nil {
		return err
	}

	return bootstrap.RunHTTPServer(ctx, router, cfg.Server, bootstrap.NewStdoutAuditLogger())
}
