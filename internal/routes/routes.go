package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/services"
	"ebench-backend/pkg/filestorage"
)

// InitRouter mounts every domain router under /api.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, recorder *services.AuditRecorder, storage filestorage.FileStorageInterface, logger *zap.Logger) {
	api := e.Group("/api")

	RUN_ORDER_ROUTER(api, dbConn, recorder, logger)
	RUN_WORKORDER_ROUTER(api, dbConn, recorder, logger)
	RUN_REPORT_ROUTER(api, dbConn, recorder, logger)
	RUN_UPLOAD_ROUTER(api, storage, logger)
}
