package yahoo

import (
	"time"

	"earnscope/internal/marketdata/throttle"
	"earnscope/pkg/config"
	"earnscope/pkg/httputil"
	"earnscope/pkg/logger"
)

// Client handles communication with the public Yahoo Finance API.
// It serves as the primary free source for prices, option chains and
// earnings dates. No credentials are needed, so it is always enabled.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *throttle.Limiter
}

// NewClient creates a new Yahoo Finance client. minInterval spaces
// outbound calls; Yahoo tolerates the generic default.
func NewClient(cfg config.YahooConfig, log *logger.Logger, minInterval time.Duration) *Client {
	return &Client{
		httpClient: httputil.New(log, 20*time.Second),
		logger:     log,
		baseURL:    cfg.BaseURL,
		limiter:    throttle.New(minInterval),
	}
}

// Name returns the source tag for this provider.
func (c *Client) Name() string { return "yahoo" }

// Enabled always holds: the API is public.
func (c *Client) Enabled() bool { return true }
