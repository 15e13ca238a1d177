// Package db
package db

import (
	"context"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
)

// Scan is the persisted summary of one detection pass.
type Scan struct {
	ID               string
	Exchange         string
	Bridge           string
	StartedAt        time.Time
	Duration         time.Duration
	PairCount        int
	EntryCount       int
	OpportunityCount int
	BestNetPct       float64
}

// BucketStat is one row of the hour/day aggregation.
type BucketStat struct {
	Bucket     time.Time
	Count      int
	BestNetPct float64
	AvgNetPct  float64
}

// Storage is the interface for all persistent storage.
type Storage interface {
	SaveScan(ctx context.Context, s Scan) error
	SaveOpportunities(ctx context.Context, scanID string, opps []market.Opportunity) error
	GetScans(ctx context.Context, start, end time.Time) ([]Scan, error)
	GetOpportunities(ctx context.Context, scanID string) ([]market.Opportunity, error)
	GetOpportunityStats(ctx context.Context, bucket string, start, end time.Time) ([]BucketStat, error)
	Close() error
}
