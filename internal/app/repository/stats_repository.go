package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"gorm.io/gorm"
)

// ageGroupExpr assigns each non-null age to exactly one band of model.AgeGroups.
var ageGroupExpr = func() string {
	var b strings.Builder
	b.WriteString("CASE")
	bounds := []int{25, 35, 45, 55, 65}
	for i, upper := range bounds {
		fmt.Fprintf(&b, " WHEN users.age < %d THEN '%s'", upper, model.AgeGroups[i])
	}
	fmt.Fprintf(&b, " ELSE '%s' END", model.AgeGroups[len(model.AgeGroups)-1])
	return b.String()
}()

// StatsRepository runs the fixed aggregate queries behind the statistics
// endpoints and the loader diagnostics. Every method is one read-only query.
type StatsRepository interface {
	CountCustomers() (int64, error)
	CountOrders() (int64, error)
	StatusDistribution() ([]model.LabelCount, error)
	AverageItemsPerOrder() (*float64, error)
	TopCities(limit int) ([]model.CityCount, error)

	GenderDistribution() ([]model.LabelCount, error)
	AgeDistribution() ([]model.AgeBucket, error)
	TrafficSources(limit int) ([]model.TrafficSource, error)
	TopCustomersByOrders(limit int) ([]model.TopCustomer, error)

	MonthlyOrderCounts() ([]model.MonthCount, error)
	MonthlyStatusCounts() ([]model.MonthStatusCount, error)
	CityAverageItems(minOrders int64, limit int) ([]model.CityItems, error)
	AverageDeliveryDays() (*float64, error)

	CountNullEmails() (int64, error)
	CountOrphanOrders() (int64, error)
	SampleCustomers(limit int) ([]model.Customer, error)
	SampleOrders(limit int) ([]model.Order, error)
}

type statsRepository struct {
	db      *gorm.DB
	dialect Dialect
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db, dialect: DialectOf(db)}
}

func (r *statsRepository) count(table string, where ...interface{}) (int64, error) {
	var n int64
	q := r.db.Table(table)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *statsRepository) CountCustomers() (int64, error) {
	return r.count("users")
}

func (r *statsRepository) CountOrders() (int64, error) {
	return r.count("orders")
}

func (r *statsRepository) StatusDistribution() ([]model.LabelCount, error) {
	var rows []model.LabelCount
	err := r.db.Table("orders").
		Select("orders.status AS label, COUNT(*) AS count").
		Group("orders.status").
		Order("label").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) AverageItemsPerOrder() (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.Table("orders").
		Select("AVG(orders.num_of_item)").
		Where("orders.num_of_item IS NOT NULL").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("average items per order: %w", err)
	}
	return nullFloat(avg), nil
}

func (r *statsRepository) TopCities(limit int) ([]model.CityCount, error) {
	rows := []model.CityCount{}
	err := r.db.Table("users").
		Select("users.city AS city, COUNT(*) AS count").
		Group("users.city").
		Order("count DESC").
		Order("city").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top cities: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) GenderDistribution() ([]model.LabelCount, error) {
	var rows []model.LabelCount
	err := r.db.Table("users").
		Select("users.gender AS label, COUNT(*) AS count").
		Where("users.gender IS NOT NULL").
		Group("users.gender").
		Order("label").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gender distribution: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) AgeDistribution() ([]model.AgeBucket, error) {
	var rows []model.AgeBucket
	err := r.db.Table("users").
		Select(ageGroupExpr + " AS age_group, COUNT(*) AS count").
		Where("users.age IS NOT NULL").
		Group("age_group").
		Order("age_group").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("age distribution: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) TrafficSources(limit int) ([]model.TrafficSource, error) {
	rows := []model.TrafficSource{}
	err := r.db.Table("users").
		Select("users.traffic_source AS traffic_source, COUNT(*) AS count").
		Where("users.traffic_source IS NOT NULL").
		Group("users.traffic_source").
		Order("count DESC").
		Order("traffic_source").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("traffic sources: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) TopCustomersByOrders(limit int) ([]model.TopCustomer, error) {
	rows := []model.TopCustomer{}
	err := r.db.Table("users").
		Select("users.first_name, users.last_name, users.email, COUNT(orders.order_id) AS order_count").
		Joins("JOIN orders ON users.id = orders.user_id").
		Group("users.id, users.first_name, users.last_name, users.email").
		Order("order_count DESC").
		Order("users.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) MonthlyOrderCounts() ([]model.MonthCount, error) {
	rows := []model.MonthCount{}
	err := r.db.Table("orders").
		Select(r.dialect.Month(OrderCreatedAt) + " AS month, COUNT(*) AS count").
		Where("orders.created_at IS NOT NULL").
		Group("month").
		Order("month").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly order counts: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) MonthlyStatusCounts() ([]model.MonthStatusCount, error) {
	rows := []model.MonthStatusCount{}
	err := r.db.Table("orders").
		Select(r.dialect.Month(OrderCreatedAt) + " AS month, orders.status AS status, COUNT(*) AS count").
		Where("orders.created_at IS NOT NULL").
		Group("month, orders.status").
		Order("month").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly status counts: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) CityAverageItems(minOrders int64, limit int) ([]model.CityItems, error) {
	rows := []model.CityItems{}
	err := r.db.Table("users").
		Select("users.city AS city, AVG(orders.num_of_item) AS avg_items, COUNT(orders.order_id) AS order_count").
		Joins("JOIN orders ON users.id = orders.user_id").
		Group("users.city").
		Having("COUNT(orders.order_id) > ?", minOrders).
		Order("avg_items DESC").
		Order("city").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("city average items: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) AverageDeliveryDays() (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.Table("orders").
		Select("AVG("+r.dialect.DaysBetween(OrderCreatedAt, "orders.delivered_at")+")").
		Where("orders.status = ?", model.OrderStatusDelivered).
		Where("orders.created_at IS NOT NULL AND orders.delivered_at IS NOT NULL").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("average delivery days: %w", err)
	}
	return nullFloat(avg), nil
}

func (r *statsRepository) CountNullEmails() (int64, error) {
	return r.count("users", "users.email IS NULL")
}

func (r *statsRepository) CountOrphanOrders() (int64, error) {
	var n int64
	err := r.db.Table("orders").
		Joins("LEFT JOIN users ON orders.user_id = users.id").
		Where("users.id IS NULL").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count orphan orders: %w", err)
	}
	return n, nil
}

func (r *statsRepository) SampleCustomers(limit int) ([]model.Customer, error) {
	var rows []model.Customer
	if err := r.db.Order("id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sample customers: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) SampleOrders(limit int) ([]model.Order, error) {
	var rows []model.Order
	if err := r.db.Order("order_id").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sample orders: %w", err)
	}
	return rows, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
