package main

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"ebench-backend/internal/repositories"
	"ebench-backend/internal/routes"
	"ebench-backend/internal/services"
	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/config"
	"ebench-backend/pkg/database/mongodb"
	"ebench-backend/pkg/database/postgresql"
	"ebench-backend/pkg/filestorage"
	applogger "ebench-backend/pkg/logger"
	"ebench-backend/pkg/utils"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	absPath, err := filepath.Abs(cfg.Upload.BasePath)
	if err != nil {
		logger.Fatal("failed to resolve upload directory", zap.Error(err))
	}
	e.Static("/uploads", absPath)

	e.Validator = utils.NewValidator(validator.New())

	if err := postgresql.RunMigrations(cfg.Postgres.DSN); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	mongoClient, err := mongodb.Connect(context.Background(), cfg.Mongo.URI, cfg.Mongo.ConnectTTL)
	if err != nil {
		logger.Fatal("failed to connect to the audit store", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	auditCollection := mongoClient.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	auditRepo := repositories.NewAuditRepository(auditCollection)
	recorder := services.NewAuditRecorder(auditRepo, redisClient, logger, cfg.Mongo.WriteTTL)

	flusherCtx, stopFlusher := context.WithCancel(context.Background())
	defer stopFlusher()
	go recorder.RunRetryFlusher(flusherCtx, time.Second*30)

	storage, err := filestorage.NewLocalFileStorage(cfg.Upload.BasePath)
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	routes.InitRouter(e, dbConn, recorder, storage, logger)

	logger.Info("server listening", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
