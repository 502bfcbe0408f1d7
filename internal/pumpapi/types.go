package pumpapi

// TokenData is the off-chain token record served by the frontend API.
// Field names follow the wire format.
type TokenData struct {
	Mint                   string  `json:"mint"`
	Name                   string  `json:"name"`
	Symbol                 string  `json:"symbol"`
	Description            string  `json:"description"`
	ImageURI               string  `json:"image_uri"`
	MetadataURI            string  `json:"metadata_uri"`
	Twitter                string  `json:"twitter,omitempty"`
	Telegram               string  `json:"telegram,omitempty"`
	Website                string  `json:"website,omitempty"`
	BondingCurve           string  `json:"bonding_curve"`
	AssociatedBondingCurve string  `json:"associated_bonding_curve"`
	Creator                string  `json:"creator"`
	CreatedTimestamp       int64   `json:"created_timestamp"`
	RaydiumPool            string  `json:"raydium_pool"`
	Complete               bool    `json:"complete"`
	VirtualSolReserves     uint64  `json:"virtual_sol_reserves"`
	VirtualTokenReserves   uint64  `json:"virtual_token_reserves"`
	TotalSupply            uint64  `json:"total_supply"`
	MarketCap              float64 `json:"market_cap"`
	USDMarketCap           float64 `json:"usd_market_cap"`
}

// Trade is one historical fill from the trade-history index. Ordering
// within a slot is whatever the API returns.
type Trade struct {
	Slot        uint64 `json:"slot"`
	User        string `json:"user"`
	Username    string `json:"username,omitempty"`
	TokenAmount uint64 `json:"token_amount"`
	SolAmount   uint64 `json:"sol_amount"`
	IsBuy       bool   `json:"is_buy"`
	Signature   string `json:"signature"`
	Timestamp   int64  `json:"timestamp"`
}
