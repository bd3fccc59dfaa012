package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/filestorage"
	"ebench-backend/pkg/utils"
)

// UploadController stores attachment binaries and hands back the URL the
// client then binds into a save payload.
type UploadController struct {
	storage filestorage.FileStorageInterface
	logger  *zap.Logger
}

func NewUploadController(storage filestorage.FileStorageInterface, logger *zap.Logger) *UploadController {
	return &UploadController{storage: storage, logger: logger}
}

func (c *UploadController) UploadFile(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "file is required", err, nil),
			c.logger)
	}

	category := ctx.FormValue("category")
	if category == "" {
		category = "misc"
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "failed to read file", err, nil),
			c.logger)
	}
	defer src.Close()

	if err := utils.ValidateAttachment(fileHeader, src); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusUnprocessableEntity, err.Error(), err, nil),
			c.logger)
	}

	fileURL, err := c.storage.Save(fileHeader, category)
	if err != nil {
		c.logger.Error("failed to store uploaded file", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "failed to store file", err, nil),
			c.logger)
	}

	body := map[string]any{
		"category": category,
		"fileName": fileHeader.Filename,
		"url":      fileURL,
	}
	return utils.SuccessResponse(ctx, body, "file uploaded", http.StatusOK)
}
