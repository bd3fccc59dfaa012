package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/controllers"
	"ebench-backend/internal/repositories"
	"ebench-backend/internal/services"
)

func RUN_REPORT_ROUTER(api *echo.Group, dbConn *pgxpool.Pool, recorder *services.AuditRecorder, logger *zap.Logger) {
	var (
		orderRepository = repositories.NewOrderRepository(dbConn)
		orderService    = services.NewOrderService(orderRepository, recorder, logger)
		reportCtrl      = controllers.NewReportController(orderService, logger)
	)

	api.GET("/report/orders", reportCtrl.GetOrderReport)
}
