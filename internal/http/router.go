package http

import (
	intconfig "washbay/internal/config"
	"washbay/internal/domain/models"
	"washbay/internal/http/handlers"
	"washbay/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter wires all routes with their middleware chain.
func NewRouter(env intconfig.Env) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	handlers.Configure(env)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())

	handlers.SetRouter(r)

	api := r.Group("/api")

	// Public endpoints.
	api.GET("/health", handlers.Health)
	api.GET("/health/db", handlers.DBCheck)
	api.POST("/auth/login", handlers.Login)

	// Everything else needs a valid token.
	auth := api.Group("")
	auth.Use(middleware.Auth(handlers.JWTSecret()))
	{
		auth.GET("/auth/profile", handlers.Profile)
		auth.POST("/auth/change-password", handlers.ChangePassword)

		auth.GET("/routes", handlers.Routes)
		auth.GET("/search", handlers.Search)

		auth.GET("/customers", handlers.GetCustomers)
		auth.POST("/customers", handlers.CreateCustomer)
		auth.GET("/customers/:id", handlers.GetCustomerByID)
		auth.PUT("/customers/:id", handlers.UpdateCustomer)

		auth.GET("/vehicles", handlers.GetVehicles)
		auth.POST("/vehicles", handlers.CreateVehicle)
		auth.GET("/vehicles/:id", handlers.GetVehicleByID)
		auth.PUT("/vehicles/:id", handlers.UpdateVehicle)

		auth.GET("/services", handlers.GetServices)
		auth.GET("/services/:id", handlers.GetServiceByID)

		auth.GET("/orders", handlers.GetOrders)
		auth.POST("/orders", handlers.CreateOrder)
		auth.GET("/orders/queue", handlers.GetOrderQueue)
		auth.GET("/orders/:id", handlers.GetOrderByID)
		auth.POST("/orders/:id/start", handlers.StartOrder)
		auth.POST("/orders/:id/complete", handlers.CompleteOrder)
		auth.POST("/orders/:id/cancel", handlers.CancelOrder)
		auth.GET("/orders/:id/history", handlers.GetOrderHistory)

		auth.POST("/order-items/:id/complete", handlers.CompleteOrderItem)
		auth.POST("/order-items/:id/cancel", handlers.CancelOrderItem)
		auth.PUT("/order-items/:id/price", handlers.UpdateOrderItemPrice)
		auth.GET("/order-items/:id/assignments", handlers.GetItemAssignments)
		auth.POST("/order-items/:id/assignments", handlers.AssignStaff)
		auth.PUT("/order-items/:id/assignments", handlers.ReassignStaff)
		auth.DELETE("/order-items/:id/assignments/:staffID", handlers.RemoveStaffAssignment)

		auth.GET("/payments", handlers.GetPayments)
		auth.POST("/payments", handlers.RecordPayment)
		auth.GET("/payments/daily", handlers.DailyPayments)
		auth.GET("/payments/:id/receipt", handlers.PaymentReceipt)

		auth.GET("/reports/daily", handlers.DailyReport)
	}

	// Manager-only surface: staff accounts, catalog pricing, refunds.
	manager := auth.Group("")
	manager.Use(middleware.RequireRoles(models.RoleManager))
	{
		manager.GET("/users", handlers.GetUsers)
		manager.POST("/users", handlers.CreateUser)
		manager.GET("/users/:id", handlers.GetUserByID)
		manager.PUT("/users/:id", handlers.UpdateUser)

		manager.POST("/services", handlers.CreateService)
		manager.PUT("/services/:id", handlers.UpdateService)

		manager.POST("/payments/:id/refund", handlers.RefundPayment)
	}

	return r
}
