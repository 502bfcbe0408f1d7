package bundle

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pumpscope/internal/pumpapi"
	"pumpscope/internal/pumpfun"
)

// DefaultPageSize is the trade-history page size used for pagination.
const DefaultPageSize = 200

// TradeSource is the trade-history surface the analyzer consumes.
type TradeSource interface {
	TradeCount(ctx context.Context, mint string) (int, error)
	Trades(ctx context.Context, mint string, limit, offset int) ([]pumpapi.Trade, error)
}

// Analyzer groups a token's trade history into same-slot bundles and
// reconstructs the position of every wallet involved.
type Analyzer struct {
	source   TradeSource
	pageSize int
	logger   *zap.Logger
}

// NewAnalyzer creates an analyzer over a trade source.
func NewAnalyzer(source TradeSource, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		source:   source,
		pageSize: DefaultPageSize,
		logger:   logger.Named("bundle"),
	}
}

// SetPageSize overrides the trade-history page size.
func (a *Analyzer) SetPageSize(n int) {
	if n > 0 {
		a.pageSize = n
	}
}

// Analyze fetches the complete trade history for a mint and produces the
// bundle report. Any upstream failure aborts the whole analysis; no
// partial report is produced from incomplete data.
func (a *Analyzer) Analyze(ctx context.Context, mint string) (*Result, error) {
	trades, err := a.fetchAllTrades(ctx, mint)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Fetched trade history",
		zap.String("mint", mint),
		zap.Int("trades", len(trades)))

	bySlot := groupBySlot(trades)
	byWallet := indexByWallet(trades)

	bundles := make([]Bundle, 0)
	for slot, slotTrades := range bySlot {
		// Single-trade slots are ordinary activity, not bundles.
		if len(slotTrades) < 2 {
			continue
		}
		bundles = append(bundles, buildBundle(slot, slotTrades, byWallet))
	}

	sort.Slice(bundles, func(i, j int) bool {
		if bundles[i].TotalSolAmount != bundles[j].TotalSolAmount {
			return bundles[i].TotalSolAmount > bundles[j].TotalSolAmount
		}
		return bundles[i].Slot < bundles[j].Slot
	})

	return &Result{
		Mint:        mint,
		TotalTrades: len(trades),
		Bundles:     bundles,
	}, nil
}

// fetchAllTrades paginates the full history. The page count is known
// upfront from the count endpoint, so all page requests fire
// concurrently; pages are reassembled in page order.
func (a *Analyzer) fetchAllTrades(ctx context.Context, mint string) ([]pumpapi.Trade, error) {
	total, err := a.source.TradeCount(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trade count: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	pageCount := (total + a.pageSize - 1) / a.pageSize
	pages := make([][]pumpapi.Trade, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			page, err := a.source.Trades(gctx, mint, a.pageSize, i*a.pageSize)
			if err != nil {
				return fmt.Errorf("failed to fetch trades page %d: %w", i, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trades := make([]pumpapi.Trade, 0, total)
	for _, page := range pages {
		trades = append(trades, page...)
	}
	return trades, nil
}

func groupBySlot(trades []pumpapi.Trade) map[uint64][]pumpapi.Trade {
	bySlot := make(map[uint64][]pumpapi.Trade)
	for _, t := range trades {
		bySlot[t.Slot] = append(bySlot[t.Slot], t)
	}
	return bySlot
}

// indexByWallet builds one per-wallet trade index in a single pass, so
// bundle wallet summaries don't rescan the whole history per wallet.
// Per-wallet order matches the API's history order.
func indexByWallet(trades []pumpapi.Trade) map[string][]pumpapi.Trade {
	byWallet := make(map[string][]pumpapi.Trade)
	for _, t := range trades {
		byWallet[t.User] = append(byWallet[t.User], t)
	}
	return byWallet
}

func buildBundle(slot uint64, slotTrades []pumpapi.Trade, byWallet map[string][]pumpapi.Trade) Bundle {
	var (
		totalTokenAmount uint64
		totalSolLamports uint64
		buys             int
	)
	wallets := make(map[string]struct{})
	for _, t := range slotTrades {
		totalTokenAmount += t.TokenAmount
		totalSolLamports += t.SolAmount
		if t.IsBuy {
			buys++
		}
		wallets[t.User] = struct{}{}
	}

	summaries := make(map[string]WalletSummary, len(wallets))
	var holdingAmount uint64
	for wallet := range wallets {
		summary := replayWallet(byWallet[wallet])
		summaries[wallet] = summary
		holdingAmount += summary.CurrentBalance
	}

	return Bundle{
		Slot:              slot,
		UniqueWallets:     len(wallets),
		Trades:            slotTrades,
		TotalTokenAmount:  totalTokenAmount,
		TotalSolAmount:    float64(totalSolLamports) / 1e9,
		SupplyPercentage:  supplyPercent(totalTokenAmount),
		HoldingAmount:     holdingAmount,
		HoldingPercentage: supplyPercent(holdingAmount),
		Category:          categorize(buys, len(slotTrades)),
		WalletSummaries:   summaries,
	}
}

// replayWallet accumulates a wallet's full trade history into a position
// summary. A net-negative balance from inconsistent source data is
// clamped to zero, never surfaced as negative.
func replayWallet(trades []pumpapi.Trade) WalletSummary {
	var (
		balance     int64
		totalBought uint64
		totalSold   uint64
		username    string
	)
	for _, t := range trades {
		if t.Username != "" {
			username = t.Username
		}
		if t.IsBuy {
			balance += int64(t.TokenAmount)
			totalBought += t.TokenAmount
		} else {
			balance -= int64(t.TokenAmount)
			totalSold += t.TokenAmount
		}
	}
	if balance < 0 {
		balance = 0
	}
	return WalletSummary{
		CurrentBalance: uint64(balance),
		TotalBought:    totalBought,
		TotalSold:      totalSold,
		Username:       username,
	}
}

func categorize(buys, total int) string {
	ratio := float64(buys) / float64(total)
	switch {
	case ratio == 1:
		return CategorySnipers
	case ratio > 0.7:
		return CategoryRegularBuyers
	case ratio < 0.3:
		return CategorySellers
	default:
		return CategoryMixed
	}
}

// supplyPercent formats amount/TotalSupply as a 4-decimal percentage
// string. Supply here is the protocol-wide constant, not the per-account
// tokenTotalSupply field.
func supplyPercent(amount uint64) string {
	return decimal.NewFromUint64(amount).
		Div(decimal.NewFromUint64(pumpfun.TotalSupply)).
		Mul(decimal.NewFromInt(100)).
		StringFixed(4)
}
