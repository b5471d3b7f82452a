package service

import (
	"context"
	"errors"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/app/repository"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderListParams struct {
	Page   PageRequest
	Status string
	// UserID 0 imposes no constraint
	UserID int64
}

type OrderPage struct {
	Orders     []model.OrderListItem `json:"orders"`
	Pagination Pagination            `json:"pagination"`
}

type OrderService interface {
	List(ctx context.Context, params OrderListParams) (*OrderPage, error)
	Get(ctx context.Context, orderID int64) (*model.OrderDetail, error)
}

type orderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) List(ctx context.Context, params OrderListParams) (*OrderPage, error) {
	params.Page = params.Page.normalize()
	logger.Debug("Listing orders", map[string]interface{}{
		"page":     params.Page.Page,
		"per_page": params.Page.PerPage,
		"status":   params.Status,
		"user_id":  params.UserID,
	})

	var filter repository.Filter
	if params.Status != "" {
		filter = filter.And(repository.Equals(repository.OrderStatus, params.Status))
	}
	if params.UserID != 0 {
		filter = filter.And(repository.Equals(repository.OrderUserID, params.UserID))
	}

	var page OrderPage
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		total, err := r.Orders.Count(filter)
		if err != nil {
			return err
		}
		orders, err := r.Orders.List(filter, params.Page.PerPage, params.Page.Offset())
		if err != nil {
			return err
		}
		page = OrderPage{Orders: orders, Pagination: newPagination(params.Page, total)}
		return nil
	})
	if err != nil {
		logger.Error("Failed to list orders", err)
		return nil, err
	}
	return &page, nil
}

func (s *orderService) Get(ctx context.Context, orderID int64) (*model.OrderDetail, error) {
	var order *model.OrderDetail
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		var err error
		order, err = r.Orders.FindByID(orderID)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		logger.Debug("Order not found", map[string]interface{}{
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.Error("Failed to get order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return order, nil
}
