package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/controllers"
	"ebench-backend/pkg/filestorage"
)

func RUN_UPLOAD_ROUTER(api *echo.Group, storage filestorage.FileStorageInterface, logger *zap.Logger) {
	uploadCtrl := controllers.NewUploadController(storage, logger)

	api.POST("/upload", uploadCtrl.UploadFile)
}
