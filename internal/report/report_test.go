package report

import (
	"context"
	"testing"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/db"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHourly(t *testing.T) {
	ctx := context.Background()
	storage := db.NewMemory()

	h1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	h2 := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	require.NoError(t, storage.SaveScan(ctx, db.Scan{ID: "s1", StartedAt: h1}))
	require.NoError(t, storage.SaveScan(ctx, db.Scan{ID: "s2", StartedAt: h2}))
	require.NoError(t, storage.SaveOpportunities(ctx, "s1", []market.Opportunity{
		{NetPct: 2.0}, {NetPct: 1.0},
	}))
	require.NoError(t, storage.SaveOpportunities(ctx, "s2", []market.Opportunity{
		{NetPct: 0.5},
	}))

	out, err := Build(ctx, storage, "hour", h1.Add(-time.Hour), h2.Add(time.Hour))
	require.NoError(t, err)

	assert.Contains(t, out, "2024-05-01 10:00")
	assert.Contains(t, out, "2024-05-01 11:00")
	assert.Contains(t, out, "2.000")
	assert.Contains(t, out, "1.500")
	assert.Contains(t, out, "#")
}

func TestBuildEmptyWindow(t *testing.T) {
	ctx := context.Background()
	out, err := Build(ctx, db.NewMemory(), "hour", time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "no opportunities recorded")
}

func TestBuildUnsupportedBucket(t *testing.T) {
	_, err := Build(context.Background(), db.NewMemory(), "week", time.Now().Add(-time.Hour), time.Now())
	assert.Error(t, err)
}
