package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/lib/pq"
)

// Transaction context key
type txKey struct{}

// WithTransaction adds a transaction to the context
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTransaction retrieves a transaction from context, or returns nil if not present
func GetTransaction(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(connStr string, maxOpen, maxIdle int) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) GetDB() *sql.DB {
	return p.db
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// executeWithTransaction executes a function with proper transaction management.
// If a transaction exists in context, it uses that. Otherwise, it creates a new one.
func (p *Postgres) executeWithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if tx := GetTransaction(ctx); tx != nil {
		return fn(tx)
	}

	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if fnErr := fn(tx); fnErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction rollback failed: %w (original error: %v)", rbErr, fnErr)
		}
		return fnErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("transaction commit failed: %w", commitErr)
	}

	return nil
}

// queryWithTransaction executes a query using transaction from context if available
func (p *Postgres) queryWithTransaction(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx := GetTransaction(ctx); tx != nil {
		return tx.QueryContext(ctx, query, args...)
	}
	return p.db.QueryContext(ctx, query, args...)
}

func (p *Postgres) SaveScan(ctx context.Context, s Scan) error {
	return p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO scans (id, exchange, bridge, started_at, duration_ms, pair_count, entry_count, opportunity_count, best_net_pct)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Exchange, s.Bridge, s.StartedAt, s.Duration.Milliseconds(),
			s.PairCount, s.EntryCount, s.OpportunityCount, s.BestNetPct)
		if err != nil {
			return fmt.Errorf("failed to save scan %s: %w", s.ID, err)
		}
		return nil
	})
}

func (p *Postgres) SaveOpportunities(ctx context.Context, scanID string, opps []market.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	return p.executeWithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO opportunities (scan_id, rank, type, assets, bridge, direction, legs, rate, gross_pct, fee_pct, net_pct, max_volume_local, expected_profit, bottleneck_leg)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`)
		if err != nil {
			return fmt.Errorf("failed to prepare opportunity insert: %w", err)
		}
		defer stmt.Close()

		for rank, o := range opps {
			legs, err := json.Marshal(o.Legs)
			if err != nil {
				return fmt.Errorf("failed to marshal legs for scan %s rank %d: %w", scanID, rank, err)
			}
			_, err = stmt.ExecContext(ctx, scanID, rank, string(o.Type), pq.StringArray(o.Assets),
				o.Bridge, string(o.Direction), legs, o.Rate, o.GrossPct, o.FeePct, o.NetPct,
				o.MaxVolumeLocal, o.ExpectedProfit, o.BottleneckLeg)
			if err != nil {
				return fmt.Errorf("failed to save opportunity for scan %s rank %d: %w", scanID, rank, err)
			}
		}
		return nil
	})
}

func (p *Postgres) GetScans(ctx context.Context, start, end time.Time) ([]Scan, error) {
	rows, err := p.queryWithTransaction(ctx, `
	SELECT id, exchange, bridge, started_at, duration_ms, pair_count, entry_count, opportunity_count, best_net_pct
	FROM scans
	WHERE started_at >= $1 AND started_at < $2
	ORDER BY started_at`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var s Scan
		var durationMs int64
		if err := rows.Scan(&s.ID, &s.Exchange, &s.Bridge, &s.StartedAt, &durationMs,
			&s.PairCount, &s.EntryCount, &s.OpportunityCount, &s.BestNetPct); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.Duration = time.Duration(durationMs) * time.Millisecond
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

func (p *Postgres) GetOpportunities(ctx context.Context, scanID string) ([]market.Opportunity, error) {
	rows, err := p.queryWithTransaction(ctx, `
	SELECT type, assets, bridge, direction, legs, rate, gross_pct, fee_pct, net_pct, max_volume_local, expected_profit, bottleneck_leg
	FROM opportunities
	WHERE scan_id = $1
	ORDER BY rank`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	var opps []market.Opportunity
	for rows.Next() {
		var o market.Opportunity
		var typ, direction string
		var assets pq.StringArray
		var legs []byte
		if err := rows.Scan(&typ, &assets, &o.Bridge, &direction, &legs, &o.Rate,
			&o.GrossPct, &o.FeePct, &o.NetPct, &o.MaxVolumeLocal, &o.ExpectedProfit, &o.BottleneckLeg); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := json.Unmarshal(legs, &o.Legs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal legs: %w", err)
		}
		o.Type = market.OpportunityType(typ)
		o.Direction = market.Direction(direction)
		o.Assets = []string(assets)
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

func (p *Postgres) GetOpportunityStats(ctx context.Context, bucket string, start, end time.Time) ([]BucketStat, error) {
	if bucket != "hour" && bucket != "day" {
		return nil, fmt.Errorf("unsupported bucket: %s", bucket)
	}

	rows, err := p.queryWithTransaction(ctx, `
	SELECT date_trunc($1, s.started_at) AS bucket, count(o.id), max(o.net_pct), avg(o.net_pct)
	FROM opportunities o
	JOIN scans s ON s.id = o.scan_id
	WHERE s.started_at >= $2 AND s.started_at < $3
	GROUP BY bucket
	ORDER BY bucket`, bucket, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunity stats: %w", err)
	}
	defer rows.Close()

	var stats []BucketStat
	for rows.Next() {
		var b BucketStat
		if err := rows.Scan(&b.Bucket, &b.Count, &b.BestNetPct, &b.AvgNetPct); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stats = append(stats, b)
	}
	return stats, rows.Err()
}
