package bundle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pumpscope/internal/pumpapi"
)

type fakeSource struct {
	trades  []pumpapi.Trade
	failAt  map[int]error // keyed by offset
	mu      sync.Mutex
	offsets []int
}

func (f *fakeSource) TradeCount(_ context.Context, _ string) (int, error) {
	return len(f.trades), nil
}

func (f *fakeSource) Trades(_ context.Context, _ string, limit, offset int) ([]pumpapi.Trade, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	f.mu.Unlock()

	if err := f.failAt[offset]; err != nil {
		return nil, err
	}
	if offset >= len(f.trades) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.trades) {
		end = len(f.trades)
	}
	return f.trades[offset:end], nil
}

func newTestAnalyzer(source TradeSource) *Analyzer {
	return NewAnalyzer(source, zap.NewNop())
}

func buy(slot uint64, user string, tokens, lamports uint64) pumpapi.Trade {
	return pumpapi.Trade{Slot: slot, User: user, TokenAmount: tokens, SolAmount: lamports, IsBuy: true}
}

func sell(slot uint64, user string, tokens, lamports uint64) pumpapi.Trade {
	return pumpapi.Trade{Slot: slot, User: user, TokenAmount: tokens, SolAmount: lamports, IsBuy: false}
}

func TestAnalyzeGroupsTradesBySlot(t *testing.T) {
	source := &fakeSource{trades: []pumpapi.Trade{
		buy(1, "alice", 100, 1_000_000_000),
		buy(1, "bob", 200, 2_000_000_000),
		buy(2, "carol", 300, 3_000_000_000),
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalTrades)
	// Slot 2 has a single trade: ordinary activity, not a bundle.
	require.Len(t, result.Bundles, 1)
	assert.Equal(t, uint64(1), result.Bundles[0].Slot)
	assert.Len(t, result.Bundles[0].Trades, 2)
	assert.Equal(t, 2, result.Bundles[0].UniqueWallets)
	assert.Equal(t, uint64(300), result.Bundles[0].TotalTokenAmount)
	assert.InDelta(t, 3.0, result.Bundles[0].TotalSolAmount, 1e-9)
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		name        string
		buys, total int
		want        string
	}{
		{"all buys", 3, 3, CategorySnipers},
		{"mostly buys", 3, 4, CategoryRegularBuyers},
		{"mostly sells", 1, 4, CategorySellers},
		{"even split", 2, 4, CategoryMixed},
		{"exactly 70 percent", 7, 10, CategoryMixed},
		{"exactly 30 percent", 3, 10, CategoryMixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, categorize(tc.buys, tc.total))
		})
	}
}

func TestAnalyzeAssignsCategories(t *testing.T) {
	source := &fakeSource{trades: []pumpapi.Trade{
		// slot 10: all buys
		buy(10, "a", 1, 10), buy(10, "b", 1, 10), buy(10, "c", 1, 10),
		// slot 20: 3 buys 1 sell
		buy(20, "a", 1, 20), buy(20, "b", 1, 20), buy(20, "c", 1, 20), sell(20, "d", 1, 20),
		// slot 30: 1 buy 3 sells
		buy(30, "a", 1, 30), sell(30, "b", 1, 30), sell(30, "c", 1, 30), sell(30, "d", 1, 30),
		// slot 40: 2 buys 2 sells
		buy(40, "a", 1, 40), buy(40, "b", 1, 40), sell(40, "c", 1, 40), sell(40, "d", 1, 40),
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	require.Len(t, result.Bundles, 4)

	bySlot := make(map[uint64]Bundle)
	for _, b := range result.Bundles {
		bySlot[b.Slot] = b
	}
	assert.Equal(t, CategorySnipers, bySlot[10].Category)
	assert.Equal(t, CategoryRegularBuyers, bySlot[20].Category)
	assert.Equal(t, CategorySellers, bySlot[30].Category)
	assert.Equal(t, CategoryMixed, bySlot[40].Category)
}

func TestWalletSummaryReplaysFullHistory(t *testing.T) {
	// alice builds her position in slot 1 (not a bundle), then sells in
	// the slot-5 bundle. Her summary must reflect the earlier buy.
	source := &fakeSource{trades: []pumpapi.Trade{
		{Slot: 1, User: "alice", Username: "alice_sol", TokenAmount: 1000, SolAmount: 10, IsBuy: true},
		sell(5, "alice", 400, 5),
		buy(5, "bob", 50, 5),
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	require.Len(t, result.Bundles, 1)

	summary, ok := result.Bundles[0].WalletSummaries["alice"]
	require.True(t, ok)
	assert.Equal(t, uint64(1000), summary.TotalBought)
	assert.Equal(t, uint64(400), summary.TotalSold)
	assert.Equal(t, uint64(600), summary.CurrentBalance)
	assert.Equal(t, "alice_sol", summary.Username)
}

func TestWalletSummaryBalanceNeverNegative(t *testing.T) {
	// Selling more than ever bought (inconsistent source data) clamps
	// the balance at zero.
	source := &fakeSource{trades: []pumpapi.Trade{
		sell(5, "alice", 500, 5),
		sell(5, "alice", 300, 3),
		buy(5, "bob", 100, 1),
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	require.Len(t, result.Bundles, 1)

	summary := result.Bundles[0].WalletSummaries["alice"]
	assert.Equal(t, uint64(0), summary.CurrentBalance)
	assert.Equal(t, uint64(800), summary.TotalSold)
	assert.Equal(t, uint64(0), summary.TotalBought)
}

func TestHoldingAmountSumsClampedBalances(t *testing.T) {
	source := &fakeSource{trades: []pumpapi.Trade{
		buy(5, "alice", 1000, 5),
		sell(5, "bob", 500, 5), // bob never bought: clamped to 0
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	require.Len(t, result.Bundles, 1)

	assert.Equal(t, uint64(1000), result.Bundles[0].HoldingAmount)
}

func TestSupplyPercentageFormatting(t *testing.T) {
	// 10^13 raw tokens is exactly 1% of the 10^15 total supply.
	source := &fakeSource{trades: []pumpapi.Trade{
		buy(5, "alice", 5_000_000_000_000, 5),
		buy(5, "bob", 5_000_000_000_000, 5),
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	require.Len(t, result.Bundles, 1)

	assert.Equal(t, "1.0000", result.Bundles[0].SupplyPercentage)
	assert.Equal(t, "1.0000", result.Bundles[0].HoldingPercentage)
}

func TestBundlesSortedBySolVolumeDescending(t *testing.T) {
	source := &fakeSource{trades: []pumpapi.Trade{
		buy(1, "a", 1, 1_000_000_000), buy(1, "b", 1, 1_000_000_000),
		buy(2, "a", 1, 9_000_000_000), buy(2, "b", 1, 1_000_000_000),
		buy(3, "a", 1, 2_000_000_000), buy(3, "b", 1, 3_000_000_000),
	}}

	result, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	require.Len(t, result.Bundles, 3)

	assert.Equal(t, uint64(2), result.Bundles[0].Slot)
	assert.Equal(t, uint64(3), result.Bundles[1].Slot)
	assert.Equal(t, uint64(1), result.Bundles[2].Slot)
}

func TestFetchAllTradesPaginates(t *testing.T) {
	trades := make([]pumpapi.Trade, 450)
	for i := range trades {
		trades[i] = buy(uint64(1000+i), "w", 1, 1)
	}
	source := &fakeSource{trades: trades}

	analyzer := newTestAnalyzer(source)
	result, err := analyzer.Analyze(context.Background(), "mint")
	require.NoError(t, err)

	assert.Equal(t, 450, result.TotalTrades)
	assert.ElementsMatch(t, []int{0, 200, 400}, source.offsets)
}

func TestPageFailureAbortsAnalysis(t *testing.T) {
	trades := make([]pumpapi.Trade, 450)
	for i := range trades {
		trades[i] = buy(uint64(1000+i), "w", 1, 1)
	}
	pageErr := errors.New("status 502 from /trades/all/mint")
	source := &fakeSource{trades: trades, failAt: map[int]error{200: pageErr}}

	_, err := newTestAnalyzer(source).Analyze(context.Background(), "mint")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pageErr))
}

func TestAnalyzeEmptyHistory(t *testing.T) {
	result, err := newTestAnalyzer(&fakeSource{}).Analyze(context.Background(), "mint")
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalTrades)
	assert.Empty(t, result.Bundles)
}
