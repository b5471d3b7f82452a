package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

func setupControllerDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	gin.SetMode(gin.TestMode)
	return testDB
}

// seedStore loads five female and three male customers; customers 1..3 own orders 1..3
// and order 4 references the missing user 99.
func seedStore(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	customers := make([]model.Customer, 0, 8)
	for i := 1; i <= 8; i++ {
		gender := "F"
		if i > 5 {
			gender = "M"
		}
		created := time.Date(2023, 3, i, 9, 0, 0, 0, time.UTC)
		customers = append(customers, model.Customer{
			ID:        int64(i),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Email:     fmt.Sprintf("customer%d@example.com", i),
			Age:       ptr(20 + 5*i),
			Gender:    ptr(gender),
			City:      ptr("Springfield"),
			CreatedAt: &created,
		})
	}
	require.NoError(t, gdb.Create(&customers).Error)

	created := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	orders := []model.Order{
		{OrderID: 1, UserID: 1, Status: model.OrderStatusDelivered, CreatedAt: &created, NumOfItem: ptr(1)},
		{OrderID: 2, UserID: 2, Status: model.OrderStatusShipped, NumOfItem: ptr(2)},
		{OrderID: 3, UserID: 3, Status: model.OrderStatusDelivered, NumOfItem: ptr(3)},
		{OrderID: 4, UserID: 99, Status: model.OrderStatusReturned, NumOfItem: ptr(2)},
	}
	require.NoError(t, gdb.Create(&orders).Error)
}

func get(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}
