package pumpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pumpscope/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL:    server.URL,
		Timeout:    5 * time.Second,
		Retries:    3,
		RetryDelay: time.Millisecond,
	}, zap.NewNop())
}

func TestTokenData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/testmint", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("sync"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"mint":           "testmint",
			"name":           "Test Token",
			"symbol":         "TST",
			"description":    "a test token",
			"image_uri":      "https://example.com/t.png",
			"twitter":        "https://x.com/test",
			"raydium_pool":   "PoolAddr111",
			"market_cap":     42.5,
			"usd_market_cap": 6100.0,
		})
	}))

	data, err := client.TokenData(context.Background(), "testmint")
	require.NoError(t, err)

	assert.Equal(t, "testmint", data.Mint)
	assert.Equal(t, "Test Token", data.Name)
	assert.Equal(t, "TST", data.Symbol)
	assert.Equal(t, "https://example.com/t.png", data.ImageURI)
	assert.Equal(t, "PoolAddr111", data.RaydiumPool)
	assert.InDelta(t, 42.5, data.MarketCap, 1e-9)
	assert.InDelta(t, 6100.0, data.USDMarketCap, 1e-9)
}

func TestTradeCount(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades/count/testmint", r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("minimumSize"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("1234"))
	}))

	count, err := client.TradeCount(context.Background(), "testmint")
	require.NoError(t, err)
	assert.Equal(t, 1234, count)
}

func TestTradesPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades/all/testmint", r.URL.Path)
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
		assert.Equal(t, "400", r.URL.Query().Get("offset"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"slot":         339000001,
				"user":         "WalletA",
				"username":     "trader_a",
				"token_amount": 1_000_000_000,
				"sol_amount":   2_000_000_000,
				"is_buy":       true,
				"signature":    "sigA",
				"timestamp":    1756000000,
			},
			{
				"slot":       339000001,
				"user":       "WalletB",
				"sol_amount": 500_000_000,
				"is_buy":     false,
			},
		})
	}))

	trades, err := client.Trades(context.Background(), "testmint", 200, 400)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, uint64(339000001), trades[0].Slot)
	assert.Equal(t, "WalletA", trades[0].User)
	assert.Equal(t, "trader_a", trades[0].Username)
	assert.Equal(t, uint64(1_000_000_000), trades[0].TokenAmount)
	assert.True(t, trades[0].IsBuy)
	assert.False(t, trades[1].IsBuy)
}

func TestClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.TokenData(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, domain.CodeUpstreamUnavailable, domain.CodeOf(err))
	// 4xx must not be retried.
	assert.Equal(t, int32(1), calls.Load())
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("7"))
	}))

	count, err := client.TradeCount(context.Background(), "testmint")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	_, err := client.TradeCount(context.Background(), "testmint")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, int32(3), calls.Load())
}

func TestConfigDefaults(t *testing.T) {
	client := NewClient(Config{}, zap.NewNop())
	assert.Equal(t, 3, client.retries)
	assert.Equal(t, 500*time.Millisecond, client.retryDelay)
}
