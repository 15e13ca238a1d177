package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
)

// MemoryStorage keeps scans and opportunities in process memory. Used by
// tests and by db-less runs.
type MemoryStorage struct {
	mu sync.RWMutex

	scans map[string]Scan

	// Opportunities in rank order, keyed by scan ID.
	opportunities map[string][]market.Opportunity
}

func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		scans:         make(map[string]Scan),
		opportunities: make(map[string][]market.Opportunity),
	}
}

func (m *MemoryStorage) Close() error { return nil }

func (m *MemoryStorage) SaveScan(ctx context.Context, s Scan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.scans[s.ID]; !exists {
		m.scans[s.ID] = s
	}
	return nil
}

func (m *MemoryStorage) SaveOpportunities(ctx context.Context, scanID string, opps []market.Opportunity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opportunities[scanID] = append(m.opportunities[scanID], opps...)
	return nil
}

func (m *MemoryStorage) GetScans(ctx context.Context, start, end time.Time) ([]Scan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var scans []Scan
	for _, s := range m.scans {
		if !s.StartedAt.Before(start) && s.StartedAt.Before(end) {
			scans = append(scans, s)
		}
	}
	sort.Slice(scans, func(i, j int) bool { return scans[i].StartedAt.Before(scans[j].StartedAt) })
	return scans, nil
}

func (m *MemoryStorage) GetOpportunities(ctx context.Context, scanID string) ([]market.Opportunity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opps := m.opportunities[scanID]
	out := make([]market.Opportunity, len(opps))
	copy(out, opps)
	return out, nil
}

func (m *MemoryStorage) GetOpportunityStats(ctx context.Context, bucket string, start, end time.Time) ([]BucketStat, error) {
	var trunc func(time.Time) time.Time
	switch bucket {
	case "hour":
		trunc = func(t time.Time) time.Time { return t.UTC().Truncate(time.Hour) }
	case "day":
		trunc = func(t time.Time) time.Time {
			u := t.UTC()
			return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		}
	default:
		return nil, fmt.Errorf("unsupported bucket: %s", bucket)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	type acc struct {
		count int
		best  float64
		sum   float64
	}
	buckets := make(map[time.Time]*acc)
	for id, s := range m.scans {
		if s.StartedAt.Before(start) || !s.StartedAt.Before(end) {
			continue
		}
		key := trunc(s.StartedAt)
		for _, o := range m.opportunities[id] {
			a, ok := buckets[key]
			if !ok {
				a = &acc{best: o.NetPct}
				buckets[key] = a
			}
			if o.NetPct > a.best {
				a.best = o.NetPct
			}
			a.count++
			a.sum += o.NetPct
		}
	}

	stats := make([]BucketStat, 0, len(buckets))
	for key, a := range buckets {
		stats = append(stats, BucketStat{
			Bucket:     key,
			Count:      a.count,
			BestNetPct: a.best,
			AvgNetPct:  a.sum / float64(a.count),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Bucket.Before(stats[j].Bucket) })
	return stats, nil
}
