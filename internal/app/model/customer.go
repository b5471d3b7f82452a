package model

import "time"

// Customer is a row of the users table. Rows are written once by the loader.
type Customer struct {
	ID            int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FirstName     string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName      string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email         string     `gorm:"type:varchar(255);not null;unique;index:idx_users_email" json:"email"`
	Age           *int       `json:"age"`
	Gender        *string    `gorm:"type:char(1)" json:"gender"`
	State         *string    `gorm:"type:varchar(100)" json:"state"`
	StreetAddress *string    `gorm:"type:text" json:"street_address"`
	PostalCode    *string    `gorm:"type:varchar(20)" json:"postal_code"`
	City          *string    `gorm:"type:varchar(100);index:idx_users_city" json:"city"`
	Country       *string    `gorm:"type:varchar(100)" json:"country"`
	Latitude      *float64   `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude     *float64   `gorm:"type:decimal(11,8)" json:"longitude"`
	TrafficSource *string    `gorm:"type:varchar(50)" json:"traffic_source"`
	CreatedAt     *time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}

func (Customer) TableName() string {
	return "users"
}

// CustomerSummary is the list-endpoint projection of a customer.
type CustomerSummary struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age"`
	Gender    *string    `json:"gender"`
	City      *string    `json:"city"`
	State     *string    `json:"state"`
	Country   *string    `json:"country"`
	CreatedAt *time.Time `json:"created_at"`
}

// CustomerDetail is the full customer record with every order embedded.
type CustomerDetail struct {
	ID            int64           `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Age           *int            `json:"age"`
	Gender        *string         `json:"gender"`
	State         *string         `json:"state"`
	StreetAddress *string         `json:"street_address"`
	PostalCode    *string         `json:"postal_code"`
	City          *string         `json:"city"`
	Country       *string         `json:"country"`
	Latitude      *float64        `json:"latitude"`
	Longitude     *float64        `json:"longitude"`
	TrafficSource *string         `json:"traffic_source"`
	CreatedAt     *time.Time      `json:"created_at"`
	Orders        []CustomerOrder `gorm:"-" json:"orders"`
}

// CustomerIdentity is the short form embedded in per-customer order listings.
type CustomerIdentity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
