package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"ebench-backend/internal/dto"
	"ebench-backend/internal/services"
	"ebench-backend/pkg/utils"
)

type ReportController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewReportController(orderService services.OrderServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{orderService: orderService, logger: logger}
}

// GetOrderReport exports the order book, optionally filtered by status.
// format=xlsx streams a spreadsheet, anything else returns JSON.
func (c *ReportController) GetOrderReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	format := strings.ToLower(ctx.QueryParam("format"))

	var (
		data []dto.OrderDTO
		err  error
	)
	if status := ctx.QueryParam("status"); status != "" {
		data, err = c.orderService.FindByStatus(reqCtx, status)
	} else {
		data, err = c.orderService.ListAll(reqCtx)
	}
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}
	return utils.SuccessResponse(ctx, data, "report generated", http.StatusOK)
}

var reportHeaders = []string{
	"order_id", "order_ver", "customer", "sales", "audit", "orderstatus",
	"productName", "customerPO", "isbn", "dingDanShuLiang", "zongShuLiang",
	"chuHuoRiqiRequired", "chuHuoRiqiPromise", "submittedAt",
}

func orderToReportRow(o dto.OrderDTO) []interface{} {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	num := func(p *int64) interface{} {
		if p == nil {
			return ""
		}
		return *p
	}
	return []interface{}{
		o.OrderID, o.OrderVer, o.Customer, o.Sales, str(o.Audit), o.OrderStatus,
		str(o.ProductName), str(o.CustomerPO), str(o.ISBN),
		num(o.DingDanShuLiang), num(o.ZongShuLiang),
		str(o.ChuHuoRiqiRequired), str(o.ChuHuoRiqiPromise), str(o.SubmittedAt),
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.OrderDTO) error {
	f := excelize.NewFile()
	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "N1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := orderToReportRow(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "E", 18)
	f.SetColWidth(sheet, "G", "I", 24)
	f.SetColWidth(sheet, "L", "N", 20)

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
