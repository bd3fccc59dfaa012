package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/dto"
	"ebench-backend/internal/services"
	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/utils"
)

type WorkOrderController struct {
	workOrderService services.WorkOrderServiceInterface
	logger           *zap.Logger
}

func NewWorkOrderController(workOrderService services.WorkOrderServiceInterface, logger *zap.Logger) *WorkOrderController {
	return &WorkOrderController{workOrderService: workOrderService, logger: logger}
}

func (c *WorkOrderController) SaveWorkOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	payload := make(map[string]any)
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}

	res, err := c.workOrderService.Upsert(reqCtx, payload, saveMode(payload), attachmentRefs(payload))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work order saved", http.StatusOK)
}

func (c *WorkOrderController) FindByID(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	uniqueKey := ctx.QueryParam("work_unique")
	if uniqueKey == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "work_unique is required", nil, nil),
			c.logger)
	}

	res, err := c.workOrderService.FindByUnique(reqCtx, uniqueKey)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work order found", http.StatusOK)
}

func (c *WorkOrderController) FindByClerk(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	clerk := ctx.QueryParam("work_clerk")
	if clerk == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "work_clerk is required", nil, nil),
			c.logger)
	}

	res, err := c.workOrderService.FindByClerk(reqCtx, clerk)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work orders found", http.StatusOK)
}

func (c *WorkOrderController) FindByAudit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	auditor := ctx.QueryParam("work_audit")
	if auditor == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "work_audit is required", nil, nil),
			c.logger)
	}

	res, err := c.workOrderService.FindByAuditor(reqCtx, auditor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work orders found", http.StatusOK)
}

func (c *WorkOrderController) FindWithStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	res, err := c.workOrderService.FindByStatus(reqCtx, ctx.QueryParam("status"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work orders found", http.StatusOK)
}

func (c *WorkOrderController) FindAll(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	res, err := c.workOrderService.ListAll(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work orders listed", http.StatusOK)
}

func (c *WorkOrderController) UpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var req dto.UpdateWorkOrderStatusDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.workOrderService.UpdateStatus(reqCtx, req)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "work order status updated", http.StatusOK)
}

func (c *WorkOrderController) UpdateProcess(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var req dto.UpdateProcessDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	affected, err := c.workOrderService.UpdateProcess(reqCtx, req)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]any{"updated": affected}, "work order progress updated", http.StatusOK)
}
