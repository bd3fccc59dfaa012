package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ebench-backend/internal/controllers"
	"ebench-backend/internal/repositories"
	"ebench-backend/internal/services"
)

func RUN_ORDER_ROUTER(api *echo.Group, dbConn *pgxpool.Pool, recorder *services.AuditRecorder, logger *zap.Logger) {
	var (
		orderRepository = repositories.NewOrderRepository(dbConn)
		orderService    = services.NewOrderService(orderRepository, recorder, logger)
		orderCtrl       = controllers.NewOrderController(orderService, logger)
	)

	g := api.Group("/orders")
	g.POST("", orderCtrl.SaveOrder)
	g.GET("/findById", orderCtrl.FindByID)
	g.GET("/findBySales", orderCtrl.FindBySales)
	g.GET("/findByAudit", orderCtrl.FindByAudit)
	g.GET("/status", orderCtrl.FindWithStatus)
	g.GET("/all", orderCtrl.FindAll)
	g.PUT("/updateStatus", orderCtrl.UpdateStatus)
	g.DELETE("/:id", orderCtrl.DeleteOrder)
}
