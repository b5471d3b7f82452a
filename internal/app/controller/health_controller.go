package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/internal/app/service"
)

type HealthController struct {
	healthService service.HealthService
}

func NewHealthController(healthService service.HealthService) *HealthController {
	return &HealthController{healthService: healthService}
}

// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.healthService.Check(c.Request.Context()))
}
