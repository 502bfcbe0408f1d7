package bundle

import (
	"pumpscope/internal/pumpapi"
)

// Behavioral categories assigned from the buy ratio of a bundle.
const (
	CategorySnipers       = "Snipers"
	CategoryRegularBuyers = "Regular Buyers"
	CategorySellers       = "Sellers"
	CategoryMixed         = "Mixed Activity"
)

// WalletSummary is a wallet's position reconstructed by replaying its
// entire trade history for the token, not just the bundle's slot.
type WalletSummary struct {
	CurrentBalance uint64 `json:"currentBalance"`
	TotalBought    uint64 `json:"totalBought"`
	TotalSold      uint64 `json:"totalSold"`
	Username       string `json:"username,omitempty"`
}

// Bundle is a group of two or more trades that executed in the same slot.
type Bundle struct {
	Slot              uint64                   `json:"slot"`
	UniqueWallets     int                      `json:"uniqueWallets"`
	Trades            []pumpapi.Trade          `json:"trades"`
	TotalTokenAmount  uint64                   `json:"totalTokenAmount"`
	TotalSolAmount    float64                  `json:"totalSolAmount"`
	SupplyPercentage  string                   `json:"supplyPercentage"`
	HoldingAmount     uint64                   `json:"holdingAmount"`
	HoldingPercentage string                   `json:"holdingPercentage"`
	Category          string                   `json:"category"`
	WalletSummaries   map[string]WalletSummary `json:"walletSummaries"`
}

// Result is a full bundle analysis for one token, bundles ordered by SOL
// volume descending.
type Result struct {
	Mint        string   `json:"mint"`
	TotalTrades int      `json:"totalTrades"`
	Bundles     []Bundle `json:"bundles"`
}
