package quality

import "math"

// DefaultRiskFreeRate is used when callers have no better rate.
const DefaultRiskFreeRate = 0.02

const (
	// Plausibility bounds for implied volatility. Readings outside
	// this band are treated as corrupted provider data.
	MinPlausibleIV = 0.05
	MaxPlausibleIV = 5.00

	// Bisection bracket and convergence parameters for the IV solve.
	solverLow     = 0.001
	solverHigh    = 10.0
	solverTol     = 1e-6
	solverMaxIter = 100

	// Observed prices below this are noise, not a solvable input.
	minObservedPrice = 0.01
)

// EstimateIVFromPrice solves for the volatility at which the
// Black-Scholes model reproduces an observed option price. Returns
// (iv, true) on success. Every failure mode — implausible inputs, no
// sign change in the bracket, non-convergence, a converged result
// outside the plausible band — yields (0, false) and never an error:
// the caller treats "no estimate" as a normal outcome.
func EstimateIVFromPrice(observedPrice, S, K, T, r float64, optType OptionType) (float64, bool) {
	if observedPrice < minObservedPrice || T <= 0 || T > 1 {
		return 0, false
	}
	if S <= 0 || K <= 0 {
		return 0, false
	}

	price := func(sigma float64) float64 {
		if optType == Put {
			return PutPrice(S, K, T, r, sigma)
		}
		return CallPrice(S, K, T, r, sigma)
	}

	lo, hi := solverLow, solverHigh
	fLo := price(lo) - observedPrice
	fHi := price(hi) - observedPrice

	// The model price is monotone in sigma; without a sign change the
	// observed price is outside the reachable range.
	if fLo*fHi > 0 {
		return 0, false
	}

	var mid float64
	for i := 0; i < solverMaxIter; i++ {
		mid = (lo + hi) / 2
		fMid := price(mid) - observedPrice

		if math.Abs(fMid) < solverTol || (hi-lo)/2 < solverTol {
			break
		}

		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo = mid
			fLo = fMid
		}
	}

	if math.IsNaN(mid) || mid < MinPlausibleIV || mid > MaxPlausibleIV {
		return 0, false
	}

	return mid, true
}
