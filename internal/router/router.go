package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/config"
	"github.com/ikkim/shopstats-backend/internal/app/controller"
	apperrors "github.com/ikkim/shopstats-backend/internal/errors"
	"github.com/ikkim/shopstats-backend/internal/middleware"
)

type Router struct {
	healthController   *controller.HealthController
	customerController *controller.CustomerController
	orderController    *controller.OrderController
	statsController    *controller.StatsController
	config             *config.Config
}

func NewRouter(
	healthController *controller.HealthController,
	customerController *controller.CustomerController,
	orderController *controller.OrderController,
	statsController *controller.StatsController,
	cfg *config.Config,
) *Router {
	return &Router{
		healthController:   healthController,
		customerController: customerController,
		orderController:    orderController,
		statsController:    statsController,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.config.Server.GinMode != "" {
		gin.SetMode(r.config.Server.GinMode)
	}

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(apperrors.Recovered))
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.NoRoute(apperrors.NoRoute)
	router.GET("/health", r.healthController.Health)

	api := router.Group("/api")
	{
		customers := api.Group("/customers")
		{
			customers.GET("", r.customerController.ListCustomers)
			customers.GET("/:id", r.customerController.GetCustomer)
			customers.GET("/:id/orders", r.customerController.GetCustomerOrders)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:order_id", r.orderController.GetOrder)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/overview", r.statsController.Overview)
			stats.GET("/customers", r.statsController.Customers)
			stats.GET("/orders", r.statsController.Orders)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				break
			}
			if origin != "" && origin == allowedOrigin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Add("Vary", "Origin")
				break
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
