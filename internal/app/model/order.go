package model

import "time"

// OrderStatus is categorical; values come from the source data.
type OrderStatus string

const (
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusReturned   OrderStatus = "Returned"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusProcessing OrderStatus = "Processing"
)

// Order is a row of the orders table. UserID may reference no customer (orphan).
type Order struct {
	OrderID     int64       `gorm:"column:order_id;primaryKey;autoIncrement:false" json:"order_id"`
	UserID      int64       `gorm:"not null;index:idx_orders_user_id" json:"user_id"`
	Status      OrderStatus `gorm:"type:varchar(50);not null;index:idx_orders_status" json:"status"`
	Gender      *string     `gorm:"type:char(1)" json:"gender"`
	CreatedAt   *time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	ReturnedAt  *time.Time  `json:"returned_at"`
	ShippedAt   *time.Time  `json:"shipped_at"`
	DeliveredAt *time.Time  `json:"delivered_at"`
	NumOfItem   *int        `gorm:"column:num_of_item" json:"num_of_item"`
}

func (Order) TableName() string {
	return "orders"
}

// CustomerOrder is an order as embedded under its customer.
type CustomerOrder struct {
	OrderID     int64       `json:"order_id"`
	Status      OrderStatus `json:"status"`
	CreatedAt   *time.Time  `json:"created_at"`
	ReturnedAt  *time.Time  `json:"returned_at"`
	ShippedAt   *time.Time  `json:"shipped_at"`
	DeliveredAt *time.Time  `json:"delivered_at"`
	NumOfItem   *int        `json:"num_of_item"`
}

// OrderListItem is an order joined with the owning customer's contact fields.
type OrderListItem struct {
	OrderID     int64       `json:"order_id"`
	UserID      int64       `json:"user_id"`
	Status      OrderStatus `json:"status"`
	Gender      *string     `json:"gender"`
	CreatedAt   *time.Time  `json:"created_at"`
	ReturnedAt  *time.Time  `json:"returned_at"`
	ShippedAt   *time.Time  `json:"shipped_at"`
	DeliveredAt *time.Time  `json:"delivered_at"`
	NumOfItem   *int        `json:"num_of_item"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	City        *string     `json:"city"`
}

// OrderDetail adds the customer's location to OrderListItem.
type OrderDetail struct {
	OrderListItem
	State   *string `json:"state"`
	Country *string `json:"country"`
}

// OrderAnalytics summarises one customer's orders.
type OrderAnalytics struct {
	TotalOrders     int64            `json:"total_orders"`
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
	DeliveredOrders int64            `json:"delivered_orders"`
	DeliveryRate    float64          `json:"delivery_rate"`
	TotalItems      int64            `json:"total_items"`
}
