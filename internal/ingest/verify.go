package ingest

import (
	"context"

	"github.com/ikkim/shopstats-backend/internal/app/model"
	"github.com/ikkim/shopstats-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	sampleSize    = 5
	topCitiesSize = 5
)

// Verification is the post-load diagnostic. Anomalies are reported, never raised.
type Verification struct {
	Users              int64
	Orders             int64
	SampleUsers        []model.Customer
	SampleOrders       []model.Order
	NullEmails         int64
	OrphanOrders       int64
	StatusDistribution []model.LabelCount
}

type StatusShare struct {
	Status     string
	Count      int64
	Percentage float64
}

type Analysis struct {
	TopCities    []model.CityCount
	StatusShares []StatusShare
	AverageItems *float64
}

func Verify(ctx context.Context, gdb *gorm.DB) (*Verification, error) {
	var v Verification
	err := repository.WithConnection(ctx, gdb, func(r *repository.Repositories) error {
		var err error
		if v.Users, err = r.Stats.CountCustomers(); err != nil {
			return err
		}
		if v.Orders, err = r.Stats.CountOrders(); err != nil {
			return err
		}
		if v.SampleUsers, err = r.Stats.SampleCustomers(sampleSize); err != nil {
			return err
		}
		if v.SampleOrders, err = r.Stats.SampleOrders(sampleSize); err != nil {
			return err
		}
		if v.NullEmails, err = r.Stats.CountNullEmails(); err != nil {
			return err
		}
		if v.OrphanOrders, err = r.Stats.CountOrphanOrders(); err != nil {
			return err
		}
		v.StatusDistribution, err = r.Stats.StatusDistribution()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func Analyze(ctx context.Context, gdb *gorm.DB) (*Analysis, error) {
	var a Analysis
	err := repository.WithConnection(ctx, gdb, func(r *repository.Repositories) error {
		var err error
		if a.TopCities, err = r.Stats.TopCities(topCitiesSize); err != nil {
			return err
		}
		total, err := r.Stats.CountOrders()
		if err != nil {
			return err
		}
		statuses, err := r.Stats.StatusDistribution()
		if err != nil {
			return err
		}
		a.StatusShares = statusShares(statuses, total)
		a.AverageItems, err = r.Stats.AverageItemsPerOrder()
		return err
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func statusShares(rows []model.LabelCount, total int64) []StatusShare {
	shares := make([]StatusShare, 0, len(rows))
	for _, row := range rows {
		share := StatusShare{Status: row.Label, Count: row.Count}
		if total > 0 {
			share.Percentage, _ = decimal.NewFromInt(row.Count).
				Mul(decimal.NewFromInt(100)).
				DivRound(decimal.NewFromInt(total), 2).
				Float64()
		}
		shares = append(shares, share)
	}
	return shares
}
