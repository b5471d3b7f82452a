package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func at(year int, month time.Month, d, hour int) *time.Time {
	t := time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
	return &t
}

func setupServiceDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func customer(id int64, first, last, gender string) model.Customer {
	return model.Customer{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s@example.com", first, last),
		Gender:    ptr(gender),
		CreatedAt: at(2023, 1, int(id), 0),
	}
}

// seedOrphanScenario loads customers 1..3 and orders 1..4, order 4 pointing at user 99.
func seedOrphanScenario(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	customers := []model.Customer{
		customer(1, "Ada", "Lovelace", "F"),
		customer(2, "Alan", "Turing", "M"),
		customer(3, "Grace", "Hopper", "F"),
	}
	customers[0].Age = ptr(36)
	customers[0].City = ptr("London")
	customers[1].Age = ptr(41)
	customers[1].City = ptr("Manchester")
	customers[2].Age = ptr(85)
	customers[2].City = ptr("New York")
	require.NoError(t, gdb.Create(&customers).Error)

	orders := []model.Order{
		{OrderID: 1, UserID: 1, Status: model.OrderStatusDelivered, CreatedAt: at(2024, 1, 1, 0), DeliveredAt: at(2024, 1, 3, 0), NumOfItem: ptr(2)},
		{OrderID: 2, UserID: 1, Status: model.OrderStatusShipped, CreatedAt: at(2024, 1, 5, 0), NumOfItem: ptr(1)},
		{OrderID: 3, UserID: 2, Status: model.OrderStatusDelivered, CreatedAt: at(2024, 2, 1, 0), DeliveredAt: at(2024, 2, 2, 0), NumOfItem: ptr(4)},
		{OrderID: 4, UserID: 99, Status: model.OrderStatusCancelled, CreatedAt: at(2024, 2, 3, 0), NumOfItem: ptr(1)},
	}
	require.NoError(t, gdb.Create(&orders).Error)
}
