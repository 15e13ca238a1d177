package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNobitexFetchSnapshot(t *testing.T) {
	body := `{
		"status": "ok",
		"BTCIRT": {"lastUpdate": 1714557600, "bids": [["990", "10"], ["980", "5"]], "asks": [["1000", "10"]]},
		"USDTIRT": {"bids": [["990", "1000"]], "asks": [["1000", "1000"]]}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/orderbook/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	ex := NewNobitexExchangeWithURL(srv.URL)
	snapshot, err := ex.FetchSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot, 2, "status key must be skipped")
	btc, ok := snapshot["BTCIRT"]
	require.True(t, ok)
	require.Len(t, btc.Bids, 2)
	assert.Equal(t, [2]string{"990", "10"}, btc.Bids[0])
	assert.Equal(t, [2]string{"1000", "10"}, btc.Asks[0])
}

func TestNobitexFetchSnapshotMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["not", "a", "mapping"]`))
	}))
	defer srv.Close()

	ex := NewNobitexExchangeWithURL(srv.URL)
	_, err := ex.FetchSnapshot(context.Background())
	require.Error(t, err)
}

func TestNobitexFetchSnapshotCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ex := NewNobitexExchangeWithURL("http://127.0.0.1:0")
	_, err := ex.FetchSnapshot(ctx)
	require.Error(t, err)
}
