package db

import (
	"fmt"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

// SchemaIndexes lists the secondary indexes every store must carry.
var SchemaIndexes = []struct {
	Model interface{}
	Name  string
}{
	{&model.Customer{}, "idx_users_email"},
	{&model.Customer{}, "idx_users_city"},
	{&model.Order{}, "idx_orders_user_id"},
	{&model.Order{}, "idx_orders_status"},
}

// EnsureSchema creates the users and orders tables and their indexes when absent.
// Existing tables are left untouched; there is no column migration.
func EnsureSchema(gdb *gorm.DB) error {
	logger.Info("Ensuring database schema...")

	migrator := gdb.Migrator()
	for _, m := range []interface{}{&model.Customer{}, &model.Order{}} {
		if migrator.HasTable(m) {
			continue
		}
		if err := migrator.CreateTable(m); err != nil {
			logger.Error("Failed to create table", err)
			return fmt.Errorf("create table: %w", err)
		}
	}

	created := 0
	for _, idx := range SchemaIndexes {
		if migrator.HasIndex(idx.Model, idx.Name) {
			continue
		}
		if err := migrator.CreateIndex(idx.Model, idx.Name); err != nil {
			logger.Error("Failed to create index", err, map[string]interface{}{
				"index": idx.Name,
			})
			return fmt.Errorf("create index %s: %w", idx.Name, err)
		}
		created++
	}

	logger.Info("Database schema ready", map[string]interface{}{
		"tables":          2,
		"indexes_created": created,
	})
	return nil
}
