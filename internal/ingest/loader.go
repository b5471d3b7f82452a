package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

const DefaultBatchSize = 1000

// Pipeline stages, in order.
const (
	StageCreateSchema = "create schema"
	StageReadUsers    = "read users"
	StageLoadUsers    = "load users"
	StageReadOrders   = "read orders"
	StageLoadOrders   = "load orders"
	StageVerify       = "verify"
	StageAnalysis     = "analysis"
)

// StageError names the pipeline stage that failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

type Options struct {
	UsersSource  string
	OrdersSource string
	BatchSize    int
	SkipAnalysis bool
}

// Loader replaces the store's contents with two tabular sources.
type Loader struct {
	db      *gorm.DB
	sources *SourceReader
}

func NewLoader(gdb *gorm.DB, sources *SourceReader) *Loader {
	return &Loader{db: gdb, sources: sources}
}

// Run executes every stage in order and stops at the first failure. Tables and
// rows committed by earlier stages are left in place.
func (l *Loader) Run(ctx context.Context, opts Options) (*Report, error) {
	started := time.Now()
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	report := &Report{UsersSource: opts.UsersSource, OrdersSource: opts.OrdersSource}

	logger.Info("Starting ingestion", map[string]interface{}{
		"users_source":  opts.UsersSource,
		"orders_source": opts.OrdersSource,
		"batch_size":    batchSize,
	})

	if err := CreateSchema(l.db.WithContext(ctx)); err != nil {
		return report, &StageError{Stage: StageCreateSchema, Err: err}
	}

	userSheet, err := l.sources.Read(ctx, opts.UsersSource)
	if err != nil {
		return report, &StageError{Stage: StageReadUsers, Err: err}
	}
	customers, err := ParseCustomers(userSheet)
	if err != nil {
		return report, &StageError{Stage: StageReadUsers, Err: err}
	}
	if report.UsersLoaded, err = LoadCustomers(ctx, l.db, customers, batchSize); err != nil {
		return report, &StageError{Stage: StageLoadUsers, Err: err}
	}

	orderSheet, err := l.sources.Read(ctx, opts.OrdersSource)
	if err != nil {
		return report, &StageError{Stage: StageReadOrders, Err: err}
	}
	orders, coerced, err := ParseOrders(orderSheet)
	if err != nil {
		return report, &StageError{Stage: StageReadOrders, Err: err}
	}
	report.CoercedOrderValues = coerced
	if coerced > 0 {
		logger.Warn("Unparsable order values stored as null", map[string]interface{}{
			"source": opts.OrdersSource,
			"count":  coerced,
		})
	}
	if report.OrdersLoaded, err = LoadOrders(ctx, l.db, orders, batchSize); err != nil {
		return report, &StageError{Stage: StageLoadOrders, Err: err}
	}

	if report.Verification, err = Verify(ctx, l.db); err != nil {
		return report, &StageError{Stage: StageVerify, Err: err}
	}

	if !opts.SkipAnalysis {
		if report.Analysis, err = Analyze(ctx, l.db); err != nil {
			return report, &StageError{Stage: StageAnalysis, Err: err}
		}
	}

	report.Duration = time.Since(started)
	logger.Info("Ingestion completed", map[string]interface{}{
		"users":       report.UsersLoaded,
		"orders":      report.OrdersLoaded,
		"duration_ms": report.Duration.Milliseconds(),
	})
	return report, nil
}

// CreateSchema creates both tables and their indexes when absent.
func CreateSchema(gdb *gorm.DB) error {
	return db.EnsureSchema(gdb)
}

// LoadCustomers deletes every customer and inserts rows in one transaction.
func LoadCustomers(ctx context.Context, gdb *gorm.DB, rows []model.Customer, batchSize int) (int64, error) {
	return replaceAll(ctx, gdb, &model.Customer{}, rows, batchSize)
}

// LoadOrders deletes every order and inserts rows in one transaction.
func LoadOrders(ctx context.Context, gdb *gorm.DB, rows []model.Order, batchSize int) (int64, error) {
	return replaceAll(ctx, gdb, &model.Order{}, rows, batchSize)
}

func replaceAll[T any](ctx context.Context, gdb *gorm.DB, table *T, rows []T, batchSize int) (int64, error) {
	var inserted int64
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		res := tx.CreateInBatches(&rows, batchSize)
		if res.Error != nil {
			return fmt.Errorf("failed to insert rows: %w", res.Error)
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
