package mathutil

// Bessel series constants
const (
	// Terms are accumulated until they fall below this fraction of the sum.
	besselSeriesEpsilon = 1e-17
	// Upper bound on series terms; I₀(x) for the β range used by Kaiser
	// windows converges well before this.
	besselMaxTerms = 500
)

// Kaiser window formula constants (Kaiser & Schafer)
const (
	kaiserAttHigh   = 50.0 // High attenuation threshold (dB)
	kaiserAttMedium = 21.0 // Medium attenuation threshold (dB)

	kaiserBetaHighCoeff = 0.1102
	kaiserBetaHighShift = 8.7

	kaiserBetaMediumCoeff1 = 0.5842
	kaiserBetaMediumPower  = 0.4
	kaiserBetaMediumCoeff2 = 0.07886
)

// halfDivisor is the divisor for halving values.
const halfDivisor = 2.0
