package db

import (
	"errors"
	"fmt"
	"os"

	"github.com/ikkim/shopstats-backend/config"
	appLogger "github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ErrStoreNotFound means the sqlite file has not been created by a load yet.
var ErrStoreNotFound = errors.New("database file not found")

// Open connects to the configured store without touching the package-level handle
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	default:
		dialector = sqlite.Open(cfg.DSN())
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent), // Use silent mode, we'll use our own logger
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// single writer; readers still get their own connection per request
		sqlDB.SetMaxOpenConns(8)
		sqlDB.SetMaxIdleConns(2)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	return gdb, nil
}

// OpenExisting opens a store that a load has already created, read-only. A
// missing sqlite file is ErrStoreNotFound and is left uncreated.
func OpenExisting(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	readOnly := *cfg
	readOnly.ReadOnly = true
	if readOnly.Driver == config.DriverSQLite {
		if _, err := os.Stat(readOnly.Path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, readOnly.Path)
		}
	}
	return Open(&readOnly)
}

// Initialize opens the existing store read-only and keeps it as the process-wide handle
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"driver":   cfg.Driver,
		"path":     cfg.Path,
		"host":     cfg.Host,
		"database": cfg.DBName,
	})

	gdb, err := OpenExisting(cfg)
	if err != nil {
		return err
	}
	DB = gdb

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"driver": cfg.Driver,
	})
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
