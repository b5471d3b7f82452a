package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/app/repository"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidSort      = errors.New("invalid sort parameter")
)

// sortable columns of a customer's order page
var customerOrderSorts = map[string]repository.Column{
	"created_at":  repository.OrderCreatedAt,
	"order_id":    repository.OrderID,
	"status":      repository.OrderStatus,
	"num_of_item": repository.OrderNumOfItem,
}

type CustomerListParams struct {
	Page   PageRequest
	City   string
	Gender string
	Search string
}

type CustomerOrdersParams struct {
	Page      PageRequest
	Status    string
	SortBy    string
	SortOrder string
}

type CustomerPage struct {
	Customers  []model.CustomerSummary `json:"customers"`
	Pagination Pagination              `json:"pagination"`
}

type CustomerOrders struct {
	Customer   model.CustomerIdentity `json:"customer"`
	Orders     []model.CustomerOrder  `json:"orders"`
	Pagination Pagination             `json:"pagination"`
	Analytics  model.OrderAnalytics   `json:"analytics"`
}

type CustomerService interface {
	List(ctx context.Context, params CustomerListParams) (*CustomerPage, error)
	Get(ctx context.Context, id int64) (*model.CustomerDetail, error)
	Orders(ctx context.Context, id int64, params CustomerOrdersParams) (*CustomerOrders, error)
}

type customerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) CustomerService {
	return &customerService{db: db}
}

func customerFilter(d repository.Dialect, params CustomerListParams) repository.Filter {
	var filter repository.Filter
	if params.City != "" {
		filter = filter.And(repository.Contains(d, repository.UserCity, params.City))
	}
	if params.Gender != "" {
		filter = filter.And(repository.Equals(repository.UserGender, strings.ToUpper(params.Gender)))
	}
	if params.Search != "" {
		filter = filter.And(repository.AnyOf(
			repository.ContainsFold(d, repository.UserFirstName, params.Search),
			repository.ContainsFold(d, repository.UserLastName, params.Search),
			repository.ContainsFold(d, repository.UserEmail, params.Search),
		))
	}
	return filter
}

func (s *customerService) List(ctx context.Context, params CustomerListParams) (*CustomerPage, error) {
	logger.Debug("Listing customers", map[string]interface{}{
		"page":     params.Page.Page,
		"per_page": params.Page.PerPage,
		"city":     params.City,
		"gender":   params.Gender,
		"search":   params.Search,
	})

	params.Page = params.Page.normalize()
	filter := customerFilter(repository.DialectOf(s.db), params)

	var page CustomerPage
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		total, err := r.Customers.Count(filter)
		if err != nil {
			return err
		}
		customers, err := r.Customers.List(filter, params.Page.PerPage, params.Page.Offset())
		if err != nil {
			return err
		}
		page = CustomerPage{Customers: customers, Pagination: newPagination(params.Page, total)}
		return nil
	})
	if err != nil {
		logger.Error("Failed to list customers", err)
		return nil, err
	}
	return &page, nil
}

func (s *customerService) Get(ctx context.Context, id int64) (*model.CustomerDetail, error) {
	var customer *model.CustomerDetail
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		found, err := r.Customers.FindByID(id)
		if err != nil {
			return err
		}
		orders, err := r.Customers.FindOrders(id)
		if err != nil {
			return err
		}
		found.Orders = orders
		customer = found
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		logger.Debug("Customer not found", map[string]interface{}{
			"customer_id": id,
		})
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		logger.Error("Failed to get customer", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return customer, nil
}

func parseOrderSort(sortBy, sortOrder string) (repository.OrderSort, error) {
	sort := repository.OrderSort{Column: repository.OrderCreatedAt, Descending: true}
	if sortBy != "" {
		col, ok := customerOrderSorts[sortBy]
		if !ok {
			return sort, fmt.Errorf("%w: sort_by %q", ErrInvalidSort, sortBy)
		}
		sort.Column = col
	}
	switch strings.ToUpper(sortOrder) {
	case "", "DESC":
	case "ASC":
		sort.Descending = false
	default:
		return sort, fmt.Errorf("%w: sort_order %q", ErrInvalidSort, sortOrder)
	}
	return sort, nil
}

func (s *customerService) Orders(ctx context.Context, id int64, params CustomerOrdersParams) (*CustomerOrders, error) {
	sort, err := parseOrderSort(params.SortBy, params.SortOrder)
	if err != nil {
		return nil, err
	}

	params.Page = params.Page.normalize()

	var filter repository.Filter
	if params.Status != "" {
		filter = filter.And(repository.Equals(repository.OrderStatus, params.Status))
	}

	var result CustomerOrders
	err = repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		identity, err := r.Customers.FindIdentity(id)
		if err != nil {
			return err
		}
		total, err := r.Customers.CountOrders(id, filter)
		if err != nil {
			return err
		}
		orders, err := r.Customers.FindOrdersPage(id, filter, sort, params.Page.PerPage, params.Page.Offset())
		if err != nil {
			return err
		}
		analytics, err := customerAnalytics(r.Customers, id)
		if err != nil {
			return err
		}
		result = CustomerOrders{
			Customer:   *identity,
			Orders:     orders,
			Pagination: newPagination(params.Page, total),
			Analytics:  *analytics,
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		logger.Error("Failed to list customer orders", err, map[string]interface{}{
			"customer_id": id,
		})
		return nil, err
	}
	return &result, nil
}

// customerAnalytics summarises every order of the customer, regardless of page filters.
func customerAnalytics(repo repository.CustomerRepository, id int64) (*model.OrderAnalytics, error) {
	breakdown, err := repo.StatusBreakdown(id)
	if err != nil {
		return nil, err
	}
	items, err := repo.TotalItems(id)
	if err != nil {
		return nil, err
	}

	analytics := &model.OrderAnalytics{
		StatusBreakdown: labelCounts(breakdown),
		TotalItems:      items,
	}
	for _, row := range breakdown {
		analytics.TotalOrders += row.Count
	}
	analytics.DeliveredOrders = analytics.StatusBreakdown[string(model.OrderStatusDelivered)]
	if analytics.TotalOrders > 0 {
		analytics.DeliveryRate = percentage(analytics.DeliveredOrders, analytics.TotalOrders)
	}
	return analytics, nil
}
