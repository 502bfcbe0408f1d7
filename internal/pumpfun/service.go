package pumpfun

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"pumpscope/internal/blockchain/solbc"
	"pumpscope/internal/domain"
	"pumpscope/internal/pumpapi"
)

// MetadataFetcher supplies off-chain token metadata by mint.
type MetadataFetcher interface {
	TokenData(ctx context.Context, mint string) (*pumpapi.TokenData, error)
}

// PriceQuote is the merged price response for one token.
type PriceQuote struct {
	PriceSOL     float64 `json:"priceSOL"`
	Mint         string  `json:"mint"`
	CurveAddress string  `json:"curveAddress"`

	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURI    string `json:"imageUri,omitempty"`

	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Website  string `json:"website,omitempty"`

	IsRaydiumPool      bool    `json:"isRaydiumPool"`
	RaydiumPoolAddress string  `json:"raydiumPoolAddress,omitempty"`
	MarketCap          float64 `json:"marketCap,omitempty"`
	USDMarketCap       float64 `json:"usdMarketCap,omitempty"`
}

// CurveReport extends the price quote with bonding progress and the
// graduation flag.
type CurveReport struct {
	BondingProgress float64 `json:"bondingProgress"`
	Complete        bool    `json:"complete"`
	PriceQuote
}

// Service combines decoded on-chain curve state with off-chain metadata.
type Service struct {
	chain  solbc.AccountFetcher
	meta   MetadataFetcher
	logger *zap.Logger
}

// NewService wires the chain client and metadata API into a curve service.
func NewService(chain solbc.AccountFetcher, meta MetadataFetcher, logger *zap.Logger) *Service {
	return &Service{
		chain:  chain,
		meta:   meta,
		logger: logger.Named("pumpfun"),
	}
}

// GetPrice returns the current spot price for a token together with its
// metadata. A price that cannot be computed because the curve has zero
// reserves (transient right after creation) is reported as 0, not as an
// error; price is advisory display data.
func (s *Service) GetPrice(ctx context.Context, mint string) (*PriceQuote, error) {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint address: %w", err)
	}

	tokenData, err := s.meta.TokenData(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}

	state, curveAddr, err := s.fetchCurveState(ctx, mintKey)
	if err != nil {
		return nil, err
	}

	quote := buildQuote(mint, curveAddr, tokenData)
	quote.PriceSOL = s.priceOrZero(state, mint)
	return quote, nil
}

// GetBondingCurve returns bonding progress, graduation state and price
// for a token, merged with its metadata.
func (s *Service) GetBondingCurve(ctx context.Context, mint string) (*CurveReport, error) {
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint address: %w", err)
	}

	tokenData, err := s.meta.TokenData(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token metadata: %w", err)
	}

	state, curveAddr, err := s.fetchCurveState(ctx, mintKey)
	if err != nil {
		return nil, err
	}

	report := &CurveReport{
		BondingProgress: CalculateBondingProgress(state.RealTokenReserves),
		Complete:        state.Complete,
		PriceQuote:      *buildQuote(mint, curveAddr, tokenData),
	}
	report.PriceSOL = s.priceOrZero(state, mint)
	return report, nil
}

// fetchCurveState derives the curve PDA, fetches the account and decodes
// it. All failures here are hard failures.
func (s *Service) fetchCurveState(ctx context.Context, mint solana.PublicKey) (*CurveState, solana.PublicKey, error) {
	curveAddr, err := DeriveCurveAddress(mint)
	if err != nil {
		return nil, solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve: %w", err)
	}

	s.logger.Debug("Fetching curve state",
		zap.String("mint", mint.String()),
		zap.String("curve_address", curveAddr.String()))

	data, err := s.chain.GetAccountData(ctx, curveAddr)
	if err != nil {
		if errors.Is(err, solbc.ErrAccountNotFound) {
			return nil, solana.PublicKey{}, domain.Wrap(domain.ErrAccountNotFound, err)
		}
		return nil, solana.PublicKey{}, fmt.Errorf("failed to get curve account: %w", err)
	}

	state, err := DecodeCurveState(data)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	return state, curveAddr, nil
}

// priceOrZero computes the spot price, mapping InvalidReserves to 0.
func (s *Service) priceOrZero(state *CurveState, mint string) float64 {
	price, err := CalculateCurvePrice(state.VirtualSolReserves, state.VirtualTokenReserves)
	if err != nil {
		s.logger.Warn("Failed to calculate curve price, reporting zero",
			zap.String("mint", mint),
			zap.Uint64("virtual_sol_reserves", state.VirtualSolReserves),
			zap.Uint64("virtual_token_reserves", state.VirtualTokenReserves),
			zap.Error(err))
		return 0
	}
	return price
}

func buildQuote(mint string, curveAddr solana.PublicKey, data *pumpapi.TokenData) *PriceQuote {
	return &PriceQuote{
		Mint:               mint,
		CurveAddress:       curveAddr.String(),
		Name:               data.Name,
		Symbol:             data.Symbol,
		Description:        data.Description,
		ImageURI:           data.ImageURI,
		Twitter:            data.Twitter,
		Telegram:           data.Telegram,
		Website:            data.Website,
		IsRaydiumPool:      data.RaydiumPool != "",
		RaydiumPoolAddress: data.RaydiumPool,
		MarketCap:          data.MarketCap,
		USDMarketCap:       data.USDMarketCap,
	}
}
