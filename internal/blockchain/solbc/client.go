// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// ErrAccountNotFound is returned when no account exists at the requested
// address.
var ErrAccountNotFound = errors.New("account not found")

// IsAccountNotFoundError checks whether an error is a "not found"
func IsAccountNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAccountNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// AccountFetcher is the read-only chain surface the curve service consumes.
type AccountFetcher interface {
	GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error)
}

// Client is a thin adapter over solana-go's RPC client.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// NewClient creates a new client from an RPC URL, with the logger injected.
func NewClient(rpcURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("solbc-client"),
	}
}

// GetAccountData fetches the raw bytes of an on-chain account.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.rpc.GetAccountInfo(ctx, pubkey)
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		if IsAccountNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, ErrAccountNotFound
	}
	return result.Value.Data.GetBinary(), nil
}

// Client implements the AccountFetcher interface.
var _ AccountFetcher = (*Client)(nil)
