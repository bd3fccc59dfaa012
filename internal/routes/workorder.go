package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/controllers"
	"ebench-backend/internal/repositories"
	"ebench-backend/internal/services"
)

func RUN_WORKORDER_ROUTER(api *echo.Group, dbConn *pgxpool.Pool, recorder *services.AuditRecorder, logger *zap.Logger) {
	var (
		workOrderRepository = repositories.NewWorkOrderRepository(dbConn)
		workOrderService    = services.NewWorkOrderService(workOrderRepository, recorder, logger)
		workOrderCtrl       = controllers.NewWorkOrderController(workOrderService, logger)
	)

	g := api.Group("/workOrders")
	g.POST("", workOrderCtrl.SaveWorkOrder)
	g.GET("/findById", workOrderCtrl.FindByID)
	g.GET("/findByClerk", workOrderCtrl.FindByClerk)
	g.GET("/findByAudit", workOrderCtrl.FindByAudit)
	g.GET("/findWithStatus", workOrderCtrl.FindWithStatus)
	g.GET("/all", workOrderCtrl.FindAll)
	g.PUT("/updateStatus", workOrderCtrl.UpdateStatus)
	g.PUT("/updateProcess", workOrderCtrl.UpdateProcess)
}
