// Package predictor implements the two stateful predictors NEAC's block
// codec cascades per channel: a fixed second-order Polynomial predictor
// and an adaptive Sign-Sign LMS filter.
package predictor

// polynomialShift is the fixed shift constant k in Q(x, k) = (x*(2^k-1))>>k.
const polynomialShift = 4

// Polynomial is a fixed second-order predictor over the two most recently
// reconstructed samples. The zero value is ready to use.
type Polynomial struct {
	p1, p2 int32
}

// q computes (x * (2^k - 1)) >> k in 32-bit signed arithmetic. Go's >> on
// a signed operand is already an arithmetic (sign-extending) shift, so no
// extra care is needed here beyond using a signed type throughout.
func q(x int32, k uint) int32 {
	mask := int32(1)<<k - 1
	return (x * mask) >> k
}

// Predict returns the predicted next sample from the current state.
func (p *Polynomial) Predict() int32 {
	return 2*q(p.p1, polynomialShift) - q(p.p2, polynomialShift-1)
}

// Update advances the predictor's history with a reconstructed sample.
func (p *Polynomial) Update(sample int32) {
	p.p2 = p.p1
	p.p1 = sample
}

// Reset clears the predictor's history to zero.
func (p *Polynomial) Reset() {
	p.p1 = 0
	p.p2 = 0
}
