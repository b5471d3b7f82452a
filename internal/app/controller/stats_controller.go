package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/internal/app/service"
	apperrors "github.com/ikkim/shopstats-backend/internal/errors"
	"github.com/ikkim/shopstats-backend/internal/middleware"
)

type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// GET /api/stats/overview
func (ctrl *StatsController) Overview(c *gin.Context) {
	stats, err := ctrl.statsService.Overview(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to compute overview stats", err)
		apperrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/stats/customers
func (ctrl *StatsController) Customers(c *gin.Context) {
	stats, err := ctrl.statsService.Customers(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to compute customer stats", err)
		apperrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/stats/orders
func (ctrl *StatsController) Orders(c *gin.Context) {
	stats, err := ctrl.statsService.Orders(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to compute order stats", err)
		apperrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
