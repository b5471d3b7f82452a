package repository

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

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func setupRepositoryTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func newCustomer(id int64, first, last string) model.Customer {
	return model.Customer{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     fmt.Sprintf("%s.%s%d@example.com", first, last, id),
	}
}

func insertCustomers(t *testing.T, gdb *gorm.DB, customers ...model.Customer) {
	t.Helper()
	require.NoError(t, gdb.Create(&customers).Error)
}

func insertOrders(t *testing.T, gdb *gorm.DB, orders ...model.Order) {
	t.Helper()
	require.NoError(t, gdb.Create(&orders).Error)
}
