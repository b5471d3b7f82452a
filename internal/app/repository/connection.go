package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

// Repositories are the query sets bound to one dedicated connection.
type Repositories struct {
	Customers CustomerRepository
	Orders    OrderRepository
	Stats     StatsRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Customers: NewCustomerRepository(db),
		Orders:    NewOrderRepository(db),
		Stats:     NewStatsRepository(db),
	}
}

// WithConnection checks one connection out of the pool, runs fn with repositories
// bound to it, and returns the connection on every exit path. Queries inside fn
// run sequentially and outside any transaction.
func WithConnection(ctx context.Context, db *gorm.DB, fn func(r *Repositories) error) error {
	if db == nil {
		return fmt.Errorf("database is not initialized")
	}
	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(NewRepositories(conn.Session(&gorm.Session{NewDB: true})))
	})
}
