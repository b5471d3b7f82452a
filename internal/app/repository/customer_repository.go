package repository

import (
	"fmt"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	customerSummaryColumns = "users.id, users.first_name, users.last_name, users.email, users.age, users.gender, " +
		"users.city, users.state, users.country, users.created_at"
	customerDetailColumns = "users.id, users.first_name, users.last_name, users.email, users.age, users.gender, " +
		"users.state, users.street_address, users.postal_code, users.city, users.country, " +
		"users.latitude, users.longitude, users.traffic_source, users.created_at"
	customerOrderColumns = "orders.order_id, orders.status, orders.created_at, orders.returned_at, " +
		"orders.shipped_at, orders.delivered_at, orders.num_of_item"
)

// OrderSort is a validated ordering for per-customer order pages.
type OrderSort struct {
	Column     Column
	Descending bool
}

func (s OrderSort) clause() string {
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s NULLS LAST", s.Column, dir)
}

type CustomerRepository interface {
	Count(filter Filter) (int64, error)
	List(filter Filter, limit, offset int) ([]model.CustomerSummary, error)
	FindByID(id int64) (*model.CustomerDetail, error)
	FindIdentity(id int64) (*model.CustomerIdentity, error)
	FindOrders(customerID int64) ([]model.CustomerOrder, error)
	CountOrders(customerID int64, filter Filter) (int64, error)
	FindOrdersPage(customerID int64, filter Filter, sort OrderSort, limit, offset int) ([]model.CustomerOrder, error)
	StatusBreakdown(customerID int64) ([]model.LabelCount, error)
	TotalItems(customerID int64) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Count(filter Filter) (int64, error) {
	var total int64
	if err := filter.Apply(r.db.Table("users")).Count(&total).Error; err != nil {
		logger.Error("Failed to count customers in database", err)
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return total, nil
}

func (r *customerRepository) List(filter Filter, limit, offset int) ([]model.CustomerSummary, error) {
	logger.Debug("Listing customers in database", map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})

	customers := make([]model.CustomerSummary, 0, limit)
	err := filter.Apply(r.db.Table("users").Select(customerSummaryColumns)).
		Order(fmt.Sprintf("%s DESC NULLS LAST", UserCreatedAt)).
		Order(fmt.Sprintf("%s DESC", UserID)).
		Limit(limit).
		Offset(offset).
		Scan(&customers).Error
	if err != nil {
		logger.Error("Failed to list customers in database", err)
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) FindByID(id int64) (*model.CustomerDetail, error) {
	var customer model.CustomerDetail
	res := r.db.Table("users").Select(customerDetailColumns).
		Where(fmt.Sprintf("%s = ?", UserID), id).
		Limit(1).
		Scan(&customer)
	if res.Error != nil {
		logger.Error("Failed to find customer by ID in database", res.Error, map[string]interface{}{
			"customer_id": id,
		})
		return nil, fmt.Errorf("find customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &customer, nil
}

func (r *customerRepository) FindIdentity(id int64) (*model.CustomerIdentity, error) {
	var row struct {
		ID        int64
		FirstName string
		LastName  string
		Email     string
	}
	res := r.db.Table("users").Select("users.id, users.first_name, users.last_name, users.email").
		Where(fmt.Sprintf("%s = ?", UserID), id).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &model.CustomerIdentity{
		ID:    row.ID,
		Name:  row.FirstName + " " + row.LastName,
		Email: row.Email,
	}, nil
}

func (r *customerRepository) ordersOf(customerID int64) *gorm.DB {
	return r.db.Table("orders").Where(fmt.Sprintf("%s = ?", OrderUserID), customerID)
}

func (r *customerRepository) FindOrders(customerID int64) ([]model.CustomerOrder, error) {
	orders := []model.CustomerOrder{}
	err := r.ordersOf(customerID).Select(customerOrderColumns).
		Order(fmt.Sprintf("%s DESC NULLS LAST", OrderCreatedAt)).
		Order(fmt.Sprintf("%s DESC", OrderID)).
		Scan(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by customer in database", err, map[string]interface{}{
			"customer_id": customerID,
		})
		return nil, fmt.Errorf("find orders of customer %d: %w", customerID, err)
	}
	return orders, nil
}

func (r *customerRepository) CountOrders(customerID int64, filter Filter) (int64, error) {
	var total int64
	if err := filter.Apply(r.ordersOf(customerID)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count orders of customer %d: %w", customerID, err)
	}
	return total, nil
}

func (r *customerRepository) FindOrdersPage(customerID int64, filter Filter, sort OrderSort, limit, offset int) ([]model.CustomerOrder, error) {
	orders := make([]model.CustomerOrder, 0, limit)
	err := filter.Apply(r.ordersOf(customerID).Select(customerOrderColumns)).
		Order(sort.clause()).
		Order(fmt.Sprintf("%s DESC", OrderID)).
		Limit(limit).
		Offset(offset).
		Scan(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("page orders of customer %d: %w", customerID, err)
	}
	return orders, nil
}

func (r *customerRepository) StatusBreakdown(customerID int64) ([]model.LabelCount, error) {
	var rows []model.LabelCount
	err := r.ordersOf(customerID).
		Select(fmt.Sprintf("%s AS label, COUNT(*) AS count", OrderStatus)).
		Group(string(OrderStatus)).
		Order("label").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status breakdown of customer %d: %w", customerID, err)
	}
	return rows, nil
}

func (r *customerRepository) TotalItems(customerID int64) (int64, error) {
	var total int64
	err := r.ordersOf(customerID).
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", OrderNumOfItem)).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("total items of customer %d: %w", customerID, err)
	}
	return total, nil
}
