// Package report
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/db"
)

const barWidth = 40

// Build renders an hour or day breakdown of stored opportunities as a plain
// text table with a bar per bucket scaled by count.
func Build(ctx context.Context, storage db.Storage, bucket string, start, end time.Time) (string, error) {
	stats, err := storage.GetOpportunityStats(ctx, bucket, start, end)
	if err != nil {
		return "", fmt.Errorf("loading stats: %w", err)
	}
	if len(stats) == 0 {
		return "no opportunities recorded in the selected window\n", nil
	}

	maxCount := 0
	for _, s := range stats {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}

	layout := "2006-01-02 15:04"
	if bucket == "day" {
		layout = "2006-01-02"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-16s %8s %10s %10s\n", "bucket", "count", "best net%", "avg net%")
	for _, s := range stats {
		bar := strings.Repeat("#", s.Count*barWidth/maxCount)
		fmt.Fprintf(&b, "%-16s %8d %10.3f %10.3f %s\n",
			s.Bucket.UTC().Format(layout), s.Count, s.BestNetPct, s.AvgNetPct, bar)
	}
	return b.String(), nil
}
