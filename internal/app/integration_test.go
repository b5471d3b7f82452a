package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/shopstats-backend/config"
	"github.com/ikkim/shopstats-backend/internal/app/controller"
	"github.com/ikkim/shopstats-backend/internal/app/service"
	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/ikkim/shopstats-backend/internal/ingest"
	"github.com/ikkim/shopstats-backend/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usersCSV = `id,first_name,last_name,email,age,gender,state,city,country,traffic_source,created_at
1,Ada,Lovelace,ada@example.com,36,F,Greater London,London,United Kingdom,Search,2023-01-01 10:00:00+00:00
2,Alan,Turing,alan@example.com,41,M,Greater Manchester,Manchester,United Kingdom,Email,2023-01-02 10:00:00+00:00
3,Grace,Hopper,grace@example.com,85,F,New York,New York,United States,Search,2023-01-03 10:00:00+00:00
`
	ordersCSV = `order_id,user_id,status,gender,created_at,returned_at,shipped_at,delivered_at,num_of_item
1,1,Delivered,F,2023-01-01 00:00:00+00:00,,2023-01-02 00:00:00+00:00,2023-01-03 00:00:00+00:00,2
2,1,Shipped,F,2023-01-05 00:00:00+00:00,,2023-01-06 00:00:00+00:00,,1
3,2,Delivered,M,2023-02-01 00:00:00+00:00,,,2023-02-02 00:00:00+00:00,4
4,99,Cancelled,M,2023-02-03 00:00:00+00:00,,,,1
`
)

type TestServer struct {
	Router *gin.Engine
}

// setupIntegrationTest loads the CSV fixtures through the loader and serves the
// resulting store through the full router.
func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	dir := t.TempDir()
	users := filepath.Join(dir, "users.csv")
	orders := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(users, []byte(usersCSV), 0o600))
	require.NoError(t, os.WriteFile(orders, []byte(ordersCSV), 0o600))

	_, err = ingest.NewLoader(testDB, ingest.NewSourceReader(nil)).Run(context.Background(), ingest.Options{
		UsersSource:  users,
		OrdersSource: orders,
	})
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	r := router.NewRouter(
		controller.NewHealthController(service.NewHealthService(testDB, "")),
		controller.NewCustomerController(service.NewCustomerService(testDB)),
		controller.NewOrderController(service.NewOrderService(testDB)),
		controller.NewStatsController(service.NewStatsService(testDB)),
		cfg,
	)
	return &TestServer{Router: r.Setup()}
}

func (s *TestServer) get(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestIntegration_LoadedStore(t *testing.T) {
	server := setupIntegrationTest(t)

	t.Run("health", func(t *testing.T) {
		code, body := server.get(t, "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
	})

	t.Run("customers newest first", func(t *testing.T) {
		code, body := server.get(t, "/api/customers")
		require.Equal(t, http.StatusOK, code)
		customers := body["customers"].([]interface{})
		require.Len(t, customers, 3)
		assert.Equal(t, float64(3), customers[0].(map[string]interface{})["id"])
		assert.Equal(t, float64(3), body["pagination"].(map[string]interface{})["total"])
	})

	t.Run("customer detail embeds orders", func(t *testing.T) {
		code, body := server.get(t, "/api/customers/1")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Ada", body["first_name"])
		orders := body["orders"].([]interface{})
		require.Len(t, orders, 2)
		assert.Equal(t, float64(2), orders[0].(map[string]interface{})["order_id"])
	})

	t.Run("customer orders filtered with unfiltered analytics", func(t *testing.T) {
		code, body := server.get(t, "/api/customers/1/orders?status=Delivered")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["orders"], 1)
		assert.Equal(t, float64(1), body["pagination"].(map[string]interface{})["total"])

		analytics := body["analytics"].(map[string]interface{})
		assert.Equal(t, float64(2), analytics["total_orders"])
		assert.Equal(t, float64(1), analytics["delivered_orders"])
		assert.Equal(t, float64(50), analytics["delivery_rate"])
		assert.Equal(t, float64(3), analytics["total_items"])
	})

	t.Run("orphan order counted but not listed", func(t *testing.T) {
		code, body := server.get(t, "/api/orders")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["orders"], 3)
		assert.Equal(t, float64(4), body["pagination"].(map[string]interface{})["total"])

		code, body = server.get(t, "/api/orders/4")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Order not found", body["error"])
	})

	t.Run("orders by user", func(t *testing.T) {
		code, body := server.get(t, "/api/orders?user_id=2")
		require.Equal(t, http.StatusOK, code)
		orders := body["orders"].([]interface{})
		require.Len(t, orders, 1)
		assert.Equal(t, "Alan", orders[0].(map[string]interface{})["first_name"])
	})

	t.Run("overview", func(t *testing.T) {
		code, body := server.get(t, "/api/stats/overview")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(3), body["total_customers"])
		assert.Equal(t, float64(4), body["total_orders"])
		assert.Equal(t, float64(2), body["average_items_per_order"])
		assert.Equal(t, map[string]interface{}{"Cancelled": float64(1), "Delivered": float64(2), "Shipped": float64(1)},
			body["status_distribution"])
	})

	t.Run("customer stats", func(t *testing.T) {
		code, body := server.get(t, "/api/stats/customers")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, map[string]interface{}{"F": float64(2), "M": float64(1)}, body["gender_distribution"])
		top := body["top_customers"].([]interface{})
		require.Len(t, top, 2)
		assert.Equal(t, "ada@example.com", top[0].(map[string]interface{})["email"])
	})

	t.Run("order stats", func(t *testing.T) {
		code, body := server.get(t, "/api/stats/orders")
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(1.5), body["average_delivery_days"])
		assert.Len(t, body["monthly_trends"], 2)
		assert.Empty(t, body["city_stats"])
	})
}
