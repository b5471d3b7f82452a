package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/internal/app/service"
	apperrors "github.com/ikkim/shopstats-backend/internal/errors"
	"github.com/ikkim/shopstats-backend/internal/middleware"
)

const msgCustomerNotFound = "Customer not found"

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{
		customerService: customerService,
	}
}

// ListCustomers returns a filtered page of customers
// GET /api/customers
func (ctrl *CustomerController) ListCustomers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, err := ctrl.customerService.List(c.Request.Context(), service.CustomerListParams{
		Page:   pageRequest(c),
		City:   c.Query("city"),
		Gender: c.Query("gender"),
		Search: c.Query("search"),
	})
	if err != nil {
		log.Error("Failed to list customers", err)
		apperrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetCustomer returns one customer with every order embedded
// GET /api/customers/:id
func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id")
	if !ok {
		apperrors.NotFound(c, msgCustomerNotFound)
		return
	}

	customer, err := ctrl.customerService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			apperrors.NotFound(c, msgCustomerNotFound)
			return
		}
		log.Error("Failed to fetch customer", err, map[string]interface{}{
			"customer_id": id,
		})
		apperrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetCustomerOrders returns a sorted page of one customer's orders with analytics
// GET /api/customers/:id/orders
func (ctrl *CustomerController) GetCustomerOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id")
	if !ok {
		apperrors.NotFound(c, msgCustomerNotFound)
		return
	}

	result, err := ctrl.customerService.Orders(c.Request.Context(), id, service.CustomerOrdersParams{
		Page:      pageRequest(c),
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSort):
			apperrors.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrCustomerNotFound):
			apperrors.NotFound(c, msgCustomerNotFound)
		default:
			log.Error("Failed to fetch customer orders", err, map[string]interface{}{
				"customer_id": id,
			})
			apperrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
