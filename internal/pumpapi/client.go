package pumpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"pumpscope/internal/domain"
)

// DefaultBaseURL is the public frontend API endpoint.
const DefaultBaseURL = "https://frontend-api.pump.fun"

// Config holds the HTTP client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  int // requests per minute, 0 disables limiting
	Retries    int
	RetryDelay time.Duration
}

// Client is a typed client for the Pump.fun frontend API.
type Client struct {
	http       *resty.Client
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewClient creates a new API client with rate limiting and request
// logging wired through resty middleware.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	log := logger.Named("pumpapi")

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	if cfg.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(float64(cfg.RateLimit)/60), 1)
		httpClient.AddRequestMiddleware(func(c *resty.Client, r *resty.Request) error {
			limiterCtx, cancel := context.WithTimeout(r.Context(), cfg.Timeout)
			defer cancel()

			if err := limiter.Wait(limiterCtx); err != nil {
				log.Warn("Rate limiter wait failed", zap.Error(err))
				return err
			}
			log.Debug("Outgoing request", zap.String("url", r.URL))
			return nil
		})
	}

	httpClient.AddResponseMiddleware(func(c *resty.Client, resp *resty.Response) error {
		if resp.StatusCode() >= 400 {
			log.Warn("HTTP request failed",
				zap.Int("status", resp.StatusCode()),
				zap.String("url", resp.Request.URL))
		}
		return nil
	})

	return &Client{
		http:       httpClient,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
		logger:     log,
	}
}

// TokenData fetches off-chain token metadata by mint.
func (c *Client) TokenData(ctx context.Context, mint string) (*TokenData, error) {
	var data TokenData
	query := map[string]string{"sync": "true"}
	if err := c.get(ctx, fmt.Sprintf("/coins/%s", mint), query, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// TradeCount returns the total number of recorded trades for a mint.
func (c *Client) TradeCount(ctx context.Context, mint string) (int, error) {
	var count int
	query := map[string]string{"minimumSize": "0"}
	if err := c.get(ctx, fmt.Sprintf("/trades/count/%s", mint), query, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// Trades fetches one page of trade history for a mint.
func (c *Client) Trades(ctx context.Context, mint string, limit, offset int) ([]Trade, error) {
	var trades []Trade
	query := map[string]string{
		"limit":       fmt.Sprintf("%d", limit),
		"offset":      fmt.Sprintf("%d", offset),
		"minimumSize": "0",
	}
	if err := c.get(ctx, fmt.Sprintf("/trades/all/%s", mint), query, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// get issues a GET with fixed-delay retry. Network errors and 5xx are
// retried; 4xx responses are permanent.
func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	op := func() (struct{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			SetResult(out).
			Get(path)
		if err != nil {
			return struct{}{}, err
		}
		if resp.StatusCode() >= 500 {
			return struct{}{}, fmt.Errorf("status %d from %s", resp.StatusCode(), path)
		}
		if resp.StatusCode() >= 400 {
			return struct{}{}, backoff.Permanent(fmt.Errorf("status %d from %s", resp.StatusCode(), path))
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryDelay)),
		backoff.WithMaxTries(uint(c.retries)),
	)
	if err != nil {
		return domain.Wrap(domain.ErrUpstreamUnavailable, err)
	}
	return nil
}
