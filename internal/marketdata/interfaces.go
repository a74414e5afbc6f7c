package marketdata

import "context"

// PriceSource supplies a spot price for a symbol.
type PriceSource interface {
	// Name returns the source tag recorded on quotes.
	Name() string

	// GetPrice returns the current price. ErrNoData means the provider
	// answered but has nothing for this symbol.
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// OptionsChainSource supplies option expirations and chains.
type OptionsChainSource interface {
	Name() string

	// GetExpirations returns up to max expiration dates as YYYY-MM-DD
	// strings in ascending order.
	GetExpirations(ctx context.Context, symbol string, max int) ([]string, error)

	// GetChain returns the full chain for one expiration.
	GetChain(ctx context.Context, symbol, expiration string) (*Chain, error)
}
