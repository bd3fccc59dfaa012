package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/dto"
	"ebench-backend/internal/entities"
	"ebench-backend/internal/services"
	"ebench-backend/pkg/apperrors"
	"ebench-backend/pkg/constants"
	"ebench-backend/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{orderService: orderService, logger: logger}
}

// saveMode reads the save intent out of the raw payload. Anything other
// than an explicit draft action is a full submit.
func saveMode(payload map[string]any) constants.SaveMode {
	if action, _ := payload["action"].(string); action == constants.ActionSaveDraft {
		return constants.ModeDraft
	}
	return constants.ModeSubmit
}

// attachmentRefs lifts the optional attachments array out of the payload.
// The files themselves went through the upload endpoint already; here we
// only bind the stored references.
func attachmentRefs(payload map[string]any) []entities.AttachmentRef {
	raw, ok := payload["attachments"].([]any)
	if !ok {
		return nil
	}
	refs := make([]entities.AttachmentRef, 0, len(raw))
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		category, _ := rec["category"].(string)
		fileName, _ := rec["fileName"].(string)
		fileURL, _ := rec["url"].(string)
		if fileName == "" && fileURL == "" {
			continue
		}
		refs = append(refs, entities.AttachmentRef{Category: category, FileName: fileName, FileURL: fileURL})
	}
	return refs
}

// SaveOrder is the single upsert entry point: the composite key in the
// payload decides between create and update.
func (c *OrderController) SaveOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	payload := make(map[string]any)
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}

	res, err := c.orderService.Upsert(reqCtx, payload, saveMode(payload), attachmentRefs(payload))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "order saved", http.StatusOK)
}

func (c *OrderController) FindByID(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	uniqueKey := ctx.QueryParam("order_unique")
	if uniqueKey == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "order_unique is required", nil, nil),
			c.logger)
	}

	res, err := c.orderService.FindByUnique(reqCtx, uniqueKey)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "order found", http.StatusOK)
}

func (c *OrderController) FindBySales(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	sales := ctx.QueryParam("sales")
	if sales == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "sales is required", nil, nil),
			c.logger)
	}

	res, err := c.orderService.FindBySales(reqCtx, sales)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "orders found", http.StatusOK)
}

func (c *OrderController) FindByAudit(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	auditor := ctx.QueryParam("audit")
	if auditor == "" {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "audit is required", nil, nil),
			c.logger)
	}

	res, err := c.orderService.FindByAuditor(reqCtx, auditor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "orders found", http.StatusOK)
}

func (c *OrderController) FindWithStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	res, err := c.orderService.FindByStatus(reqCtx, ctx.QueryParam("status"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "orders found", http.StatusOK)
}

func (c *OrderController) FindAll(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	res, err := c.orderService.ListAll(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "orders listed", http.StatusOK)
}

func (c *OrderController) UpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var req dto.UpdateOrderStatusDTO
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.orderService.UpdateStatus(reqCtx, req)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "order status updated", http.StatusOK)
}

func (c *OrderController) DeleteOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	uniqueKey := ctx.Param("id")
	operator := ctx.QueryParam("operator")

	orderNumber, err := c.orderService.Delete(reqCtx, uniqueKey, operator)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]any{"order_id": orderNumber}, "order deleted", http.StatusOK)
}
