package repository

import (
	"fmt"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	orderListColumns = "orders.order_id, orders.user_id, orders.status, orders.gender, " +
		"orders.created_at, orders.returned_at, orders.shipped_at, orders.delivered_at, orders.num_of_item, " +
		"users.first_name, users.last_name, users.email, users.city"
	orderDetailColumns = orderListColumns + ", users.state, users.country"

	// Inner join: orders whose user_id matches no customer are not returned.
	ordersJoinUsers = "JOIN users ON orders.user_id = users.id"
)

type OrderRepository interface {
	Count(filter Filter) (int64, error)
	List(filter Filter, limit, offset int) ([]model.OrderListItem, error)
	FindByID(orderID int64) (*model.OrderDetail, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Count counts raw order rows, orphans included.
func (r *orderRepository) Count(filter Filter) (int64, error) {
	var total int64
	if err := filter.Apply(r.db.Table("orders")).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err)
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

func (r *orderRepository) List(filter Filter, limit, offset int) ([]model.OrderListItem, error) {
	logger.Debug("Listing orders in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	orders := make([]model.OrderListItem, 0, limit)
	err := filter.Apply(r.db.Table("orders").Select(orderListColumns).Joins(ordersJoinUsers)).
		Order(fmt.Sprintf("%s DESC NULLS LAST", OrderCreatedAt)).
		Order(fmt.Sprintf("%s DESC", OrderID)).
		Limit(limit).
		Offset(offset).
		Scan(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders in database", err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) FindByID(orderID int64) (*model.OrderDetail, error) {
	var order model.OrderDetail
	res := r.db.Table("orders").Select(orderDetailColumns).Joins(ordersJoinUsers).
		Where(fmt.Sprintf("%s = ?", OrderID), orderID).
		Limit(1).
		Scan(&order)
	if res.Error != nil {
		logger.Error("Failed to find order by ID in database", res.Error, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, fmt.Errorf("find order %d: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &order, nil
}
