package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"pumpscope/internal/bundle"
	"pumpscope/internal/pumpfun"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00E5FF"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7280")).Width(16)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ECEFF4"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2AFFAA"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB500"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4BCC8"))
)

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func formatPrice(price float64) string {
	if price == 0 {
		return warnStyle.Render("unavailable (0)")
	}
	return strconv.FormatFloat(price, 'f', -1, 64) + " SOL"
}

func renderPrice(q *pumpfun.PriceQuote) string {
	var b strings.Builder
	title := q.Symbol
	if title == "" {
		title = q.Mint
	}
	b.WriteString(titleStyle.Render(title) + " " + dimStyle.Render(q.Name) + "\n")
	b.WriteString(row("Price", formatPrice(q.PriceSOL)) + "\n")
	b.WriteString(row("Mint", q.Mint) + "\n")
	b.WriteString(row("Curve", q.CurveAddress) + "\n")
	if q.MarketCap > 0 {
		b.WriteString(row("Market cap", fmt.Sprintf("%.4f SOL ($%.2f)", q.MarketCap, q.USDMarketCap)) + "\n")
	}
	if q.IsRaydiumPool {
		b.WriteString(row("Raydium pool", q.RaydiumPoolAddress) + "\n")
	}
	if q.Twitter != "" {
		b.WriteString(row("Twitter", q.Twitter) + "\n")
	}
	if q.Website != "" {
		b.WriteString(row("Website", q.Website) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCurve(r *pumpfun.CurveReport) string {
	var b strings.Builder
	b.WriteString(renderPrice(&r.PriceQuote) + "\n")
	b.WriteString(row("Progress", fmt.Sprintf("%.2f%%", r.BondingProgress*100)) + "\n")
	if r.Complete {
		b.WriteString(row("Status", goodStyle.Render("graduated")) + "\n")
	} else {
		b.WriteString(row("Status", "on bonding curve") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBundles(res *bundle.Result, top int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bundle analysis") + " " + dimStyle.Render(res.Mint) + "\n")
	b.WriteString(row("Total trades", strconv.Itoa(res.TotalTrades)) + "\n")
	b.WriteString(row("Bundles", strconv.Itoa(len(res.Bundles))) + "\n")

	if len(res.Bundles) == 0 {
		return b.String() + dimStyle.Render("no multi-trade slots found")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers("SLOT", "TRADES", "WALLETS", "SOL", "SUPPLY %", "HELD %", "CATEGORY")

	shown := res.Bundles
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}
	for _, bd := range shown {
		t.Row(
			strconv.FormatUint(bd.Slot, 10),
			strconv.Itoa(len(bd.Trades)),
			strconv.Itoa(bd.UniqueWallets),
			fmt.Sprintf("%.4f", bd.TotalSolAmount),
			bd.SupplyPercentage,
			bd.HoldingPercentage,
			bd.Category,
		)
	}
	b.WriteString(t.String())

	if len(res.Bundles) > len(shown) {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("… %d more bundles", len(res.Bundles)-len(shown))))
	}
	return b.String()
}
