package marketdata

// Quote is the result of one orchestrated price lookup. Source names
// the provider (or "cache"/"none") that answered.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Source string  `json:"source"`
	Cached bool    `json:"cached"`
}

// Contract is a single option contract row from a provider chain.
type Contract struct {
	Strike            float64 `json:"strike"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	LastPrice         float64 `json:"last_price"`
	ImpliedVolatility float64 `json:"implied_volatility"`
}

// Mid returns the bid/ask midpoint, falling back to the last trade
// when the book is one-sided or empty.
func (c Contract) Mid() float64 {
	if c.Bid > 0 && c.Ask > 0 {
		return (c.Bid + c.Ask) / 2
	}
	return c.LastPrice
}

// Chain is a full option chain for one symbol and expiration.
type Chain struct {
	Symbol     string     `json:"symbol"`
	Expiration string     `json:"expiration"`
	Calls      []Contract `json:"calls"`
	Puts       []Contract `json:"puts"`
}

// ATMStrike returns the strike closest to spot among the calls, or
// among the puts when no calls exist. Returns 0 for an empty chain.
func (ch *Chain) ATMStrike(spot float64) float64 {
	contracts := ch.Calls
	if len(contracts) == 0 {
		contracts = ch.Puts
	}

	best := 0.0
	bestDist := -1.0
	for _, c := range contracts {
		dist := c.Strike - spot
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best = c.Strike
			bestDist = dist
		}
	}
	return best
}
