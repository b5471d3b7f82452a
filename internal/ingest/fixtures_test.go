package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	usersCSV = `id,first_name,last_name,email,age,gender,state,street_address,postal_code,city,country,latitude,longitude,traffic_source,created_at
1,Ada,Lovelace,ada@example.com,36,F,Greater London,12 St James Sq,SW1Y,London,United Kingdom,51.5074,-0.1278,Search,2023-01-01 10:00:00+00:00
2,Alan,Turing,alan@example.com,41.0,M,Greater Manchester,1 Oxford Rd,M13,Manchester,United Kingdom,53.4808,-2.2426,Email,2023-01-02 11:30:00 UTC
3,Grace,Hopper,grace@example.com,85,F,New York,,10001,New York,United States,,,Organic,2023-01-03
`
	ordersCSV = `order_id,user_id,status,gender,created_at,returned_at,shipped_at,delivered_at,num_of_item
1,1,Delivered,F,2023-01-01 00:00:00+00:00,,2023-01-02 00:00:00+00:00,2023-01-03 00:00:00+00:00,2
2,1,Shipped,F,2023-01-05 00:00:00+00:00,,2023-01-06 00:00:00+00:00,,1
3,2,Delivered,M,2023-02-01 00:00:00+00:00,,,2023-02-02 00:00:00+00:00,4
4,99,Cancelled,M,2023-02-03 00:00:00+00:00,,,,1
`
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func setupIngestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func sheetOf(t *testing.T, records ...[]string) *Sheet {
	t.Helper()
	sheet, err := newSheet("test.csv", records)
	require.NoError(t, err)
	return sheet
}
