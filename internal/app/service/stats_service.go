package service

import (
	"context"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/app/repository"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	topCitiesLimit         = 5
	topTrafficSourcesLimit = 10
	topCustomersLimit      = 10
	cityStatsLimit         = 10
	// cities need strictly more joined orders than this to appear in city stats
	cityStatsMinOrders = 10
)

type StatsService interface {
	Overview(ctx context.Context) (*model.OverviewStats, error)
	Customers(ctx context.Context) (*model.CustomerStats, error)
	Orders(ctx context.Context) (*model.OrderStats, error)
}

type statsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) StatsService {
	return &statsService{db: db}
}

func (s *statsService) Overview(ctx context.Context) (*model.OverviewStats, error) {
	var stats model.OverviewStats
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		var err error
		if stats.TotalCustomers, err = r.Stats.CountCustomers(); err != nil {
			return err
		}
		if stats.TotalOrders, err = r.Stats.CountOrders(); err != nil {
			return err
		}
		statuses, err := r.Stats.StatusDistribution()
		if err != nil {
			return err
		}
		stats.StatusDistribution = labelCounts(statuses)

		avg, err := r.Stats.AverageItemsPerOrder()
		if err != nil {
			return err
		}
		if avg != nil {
			stats.AverageItemsPerOrder = round(*avg, 2)
		}

		stats.TopCities, err = r.Stats.TopCities(topCitiesLimit)
		return err
	})
	if err != nil {
		logger.Error("Failed to compute overview stats", err)
		return nil, err
	}
	return &stats, nil
}

func (s *statsService) Customers(ctx context.Context) (*model.CustomerStats, error) {
	var stats model.CustomerStats
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		genders, err := r.Stats.GenderDistribution()
		if err != nil {
			return err
		}
		stats.GenderDistribution = labelCounts(genders)

		buckets, err := r.Stats.AgeDistribution()
		if err != nil {
			return err
		}
		stats.AgeDistribution = fillAgeGroups(buckets)

		if stats.TrafficSources, err = r.Stats.TrafficSources(topTrafficSourcesLimit); err != nil {
			return err
		}
		stats.TopCustomers, err = r.Stats.TopCustomersByOrders(topCustomersLimit)
		return err
	})
	if err != nil {
		logger.Error("Failed to compute customer stats", err)
		return nil, err
	}
	return &stats, nil
}

func (s *statsService) Orders(ctx context.Context) (*model.OrderStats, error) {
	var stats model.OrderStats
	err := repository.WithConnection(ctx, s.db, func(r *repository.Repositories) error {
		var err error
		if stats.MonthlyTrends, err = r.Stats.MonthlyOrderCounts(); err != nil {
			return err
		}
		if stats.CompletionByMonth, err = r.Stats.MonthlyStatusCounts(); err != nil {
			return err
		}
		if stats.CityStats, err = r.Stats.CityAverageItems(cityStatsMinOrders, cityStatsLimit); err != nil {
			return err
		}

		days, err := r.Stats.AverageDeliveryDays()
		if err != nil {
			return err
		}
		if days != nil {
			rounded := round(*days, 1)
			stats.AverageDeliveryDays = &rounded
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to compute order stats", err)
		return nil, err
	}
	return &stats, nil
}

// fillAgeGroups returns every band of model.AgeGroups in order, zero counts included.
func fillAgeGroups(rows []model.AgeBucket) []model.AgeBucket {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.AgeGroup] = row.Count
	}
	buckets := make([]model.AgeBucket, 0, len(model.AgeGroups))
	for _, group := range model.AgeGroups {
		buckets = append(buckets, model.AgeBucket{AgeGroup: group, Count: counts[group]})
	}
	return buckets
}

func labelCounts(rows []model.LabelCount) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.Label] = row.Count
	}
	return m
}

func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// percentage is part/whole*100 rounded to two decimals.
func percentage(part, whole int64) float64 {
	f, _ := decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(whole), 2).
		Float64()
	return f
}
