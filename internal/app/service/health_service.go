package service

import (
	"context"
	"os"
	"time"

	"github.com/ikkim/shopstats-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	DatabaseConnected = "connected"
	DatabaseNotFound  = "not found"
)

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

type HealthService interface {
	Check(ctx context.Context) HealthStatus
}

type healthService struct {
	db *gorm.DB
	// sqlite file that must exist; empty for server stores and in-memory databases
	storePath string
	now       func() time.Time
}

func NewHealthService(db *gorm.DB, storePath string) HealthService {
	return &healthService{db: db, storePath: storePath, now: time.Now}
}

func (s *healthService) Check(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Timestamp: s.now().Format(time.RFC3339),
		Database:  s.database(ctx),
	}
}

func (s *healthService) database(ctx context.Context) string {
	if s.storePath != "" {
		if _, err := os.Stat(s.storePath); err != nil {
			return DatabaseNotFound
		}
	}
	if s.db == nil {
		return DatabaseNotFound
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return DatabaseNotFound
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Warn("Database ping failed", map[string]interface{}{
			"error": err.Error(),
		})
		return DatabaseNotFound
	}
	return DatabaseConnected
}
