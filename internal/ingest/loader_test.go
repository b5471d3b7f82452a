package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Run(t *testing.T) {
	gdb := setupIngestDB(t)
	dir := t.TempDir()
	opts := Options{
		UsersSource:  writeSource(t, dir, "users.csv", usersCSV),
		OrdersSource: writeSource(t, dir, "orders.csv", ordersCSV),
	}

	report, err := NewLoader(gdb, NewSourceReader(nil)).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.UsersLoaded)
	assert.Equal(t, int64(4), report.OrdersLoaded)
	assert.Equal(t, 0, report.CoercedOrderValues)

	v := report.Verification
	require.NotNil(t, v)
	assert.Equal(t, int64(3), v.Users)
	assert.Equal(t, int64(4), v.Orders)
	assert.Equal(t, int64(0), v.NullEmails)
	assert.Equal(t, int64(1), v.OrphanOrders)
	assert.Len(t, v.SampleUsers, 3)
	assert.Len(t, v.SampleOrders, 4)
	assert.Equal(t, []model.LabelCount{
		{Label: "Cancelled", Count: 1},
		{Label: "Delivered", Count: 2},
		{Label: "Shipped", Count: 1},
	}, v.StatusDistribution)

	a := report.Analysis
	require.NotNil(t, a)
	require.Len(t, a.TopCities, 3)
	assert.Equal(t, "London", *a.TopCities[0].City)
	assert.Equal(t, []StatusShare{
		{Status: "Cancelled", Count: 1, Percentage: 25},
		{Status: "Delivered", Count: 2, Percentage: 50},
		{Status: "Shipped", Count: 1, Percentage: 25},
	}, a.StatusShares)
	require.NotNil(t, a.AverageItems)
	assert.InDelta(t, 2.0, *a.AverageItems, 1e-9)

	var alan model.Customer
	require.NoError(t, gdb.First(&alan, 2).Error)
	assert.Equal(t, 41, *alan.Age)
	assert.Equal(t, "2023-01-02T11:30:00Z", alan.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
}

func TestLoader_RunIsIdempotent(t *testing.T) {
	gdb := setupIngestDB(t)
	dir := t.TempDir()
	opts := Options{
		UsersSource:  writeSource(t, dir, "users.csv", usersCSV),
		OrdersSource: writeSource(t, dir, "orders.csv", ordersCSV),
		BatchSize:    2,
	}
	loader := NewLoader(gdb, NewSourceReader(nil))

	first, err := loader.Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := loader.Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.UsersLoaded, second.UsersLoaded)
	assert.Equal(t, first.OrdersLoaded, second.OrdersLoaded)
	assert.Equal(t, first.Verification.Users, second.Verification.Users)
	assert.Equal(t, first.Verification.Orders, second.Verification.Orders)
	assert.Equal(t, first.Analysis, second.Analysis)
}

func TestLoader_RunStopsAtFailingStage(t *testing.T) {
	gdb := setupIngestDB(t)
	dir := t.TempDir()
	users := writeSource(t, dir, "users.csv", usersCSV)
	badOrders := writeSource(t, dir, "orders.csv", "order_id,user_id,status\n1,abc,Delivered\n")

	report, err := NewLoader(gdb, NewSourceReader(nil)).Run(context.Background(), Options{
		UsersSource:  users,
		OrdersSource: badOrders,
	})

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr), "got %v", err)
	assert.Equal(t, StageReadOrders, stageErr.Stage)
	var rowErr *RowError
	assert.True(t, errors.As(err, &rowErr))

	assert.Equal(t, int64(3), report.UsersLoaded, "earlier stages stay committed")
	assert.Nil(t, report.Verification)

	var n int64
	require.NoError(t, gdb.Model(&model.Customer{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

func TestLoader_RunRejectsDuplicateEmail(t *testing.T) {
	gdb := setupIngestDB(t)
	dir := t.TempDir()
	users := writeSource(t, dir, "users.csv",
		"id,first_name,last_name,email,created_at\n1,Ada,Lovelace,same@example.com,\n2,Alan,Turing,same@example.com,\n")
	orders := writeSource(t, dir, "orders.csv", ordersCSV)

	_, err := NewLoader(gdb, NewSourceReader(nil)).Run(context.Background(), Options{UsersSource: users, OrdersSource: orders})
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageLoadUsers, stageErr.Stage)

	var n int64
	require.NoError(t, gdb.Model(&model.Customer{}).Count(&n).Error)
	assert.Equal(t, int64(0), n, "failed batch is rolled back")
}

func TestLoader_SkipAnalysis(t *testing.T) {
	gdb := setupIngestDB(t)
	dir := t.TempDir()
	report, err := NewLoader(gdb, NewSourceReader(nil)).Run(context.Background(), Options{
		UsersSource:  writeSource(t, dir, "users.csv", usersCSV),
		OrdersSource: writeSource(t, dir, "orders.csv", ordersCSV),
		SkipAnalysis: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, report.Verification)
	assert.Nil(t, report.Analysis)
}

func TestLoadOrders_Batches(t *testing.T) {
	gdb := setupIngestDB(t)
	orders := make([]model.Order, 0, 7)
	for i := int64(1); i <= 7; i++ {
		orders = append(orders, model.Order{OrderID: i, UserID: 1, Status: model.OrderStatusShipped})
	}

	n, err := LoadOrders(context.Background(), gdb, orders, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = LoadOrders(context.Background(), gdb, orders[:2], 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var count int64
	require.NoError(t, gdb.Model(&model.Order{}).Count(&count).Error)
	assert.Equal(t, int64(2), count, "previous contents are replaced")
}

func TestAnalyze_EmptyStore(t *testing.T) {
	a, err := Analyze(context.Background(), setupIngestDB(t))
	require.NoError(t, err)
	assert.Empty(t, a.TopCities)
	assert.Empty(t, a.StatusShares)
	assert.Nil(t, a.AverageItems)
}
