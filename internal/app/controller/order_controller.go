package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/internal/app/service"
	apperrors "github.com/ikkim/shopstats-backend/internal/errors"
	"github.com/ikkim/shopstats-backend/internal/middleware"
)

const msgOrderNotFound = "Order not found"

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

// ListOrders returns a filtered page of orders joined with their customers
// GET /api/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, err := ctrl.orderService.List(c.Request.Context(), service.OrderListParams{
		Page:   pageRequest(c),
		Status: c.Query("status"),
		UserID: queryID(c, "user_id"),
	})
	if err != nil {
		log.Error("Failed to list orders", err)
		apperrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetOrder returns one order with its customer's contact and location fields
// GET /api/orders/:order_id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := pathID(c, "order_id")
	if !ok {
		apperrors.NotFound(c, msgOrderNotFound)
		return
	}

	order, err := ctrl.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, msgOrderNotFound)
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
