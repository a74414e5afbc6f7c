package quality

import "math"

// OptionType distinguishes the two sides of a chain.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// CallPrice returns the Black-Scholes price of a European call.
// S is spot, K strike, T time to expiry in years, r the risk-free
// rate, sigma the volatility. T <= 0 degenerates to intrinsic value;
// the closed form is never evaluated there.
func CallPrice(S, K, T, r, sigma float64) float64 {
	if T <= 0 {
		return math.Max(S-K, 0)
	}
	if sigma <= 0 {
		return math.Max(S-K*math.Exp(-r*T), 0)
	}

	d1 := (math.Log(S/K) + (r+sigma*sigma/2)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	return S*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
}

// PutPrice returns the Black-Scholes price of a European put.
// T <= 0 degenerates to intrinsic value.
func PutPrice(S, K, T, r, sigma float64) float64 {
	if T <= 0 {
		return math.Max(K-S, 0)
	}
	if sigma <= 0 {
		return math.Max(K*math.Exp(-r*T)-S, 0)
	}

	d1 := (math.Log(S/K) + (r+sigma*sigma/2)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	return K*math.Exp(-r*T)*normCDF(-d2) - S*normCDF(-d1)
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
