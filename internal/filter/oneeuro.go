// Package filter provides adaptive signal smoothing for the Kathakali head tracking system.
package filter

import "math"

// Default One-Euro coefficients for the power-saving preset.
const (
	// DefaultMinCutoff is the minimum cutoff frequency in Hz.
	DefaultMinCutoff = 1.5
	// DefaultBeta is the speed coefficient that raises the cutoff with signal velocity.
	DefaultBeta = 0.03
	// DefaultDCutoff is the cutoff frequency for the derivative filter in Hz.
	DefaultDCutoff = 1.0
	// DefaultFreq is the assumed sampling frequency in Hz.
	DefaultFreq = 60.0
)

// OneEuro is a One-Euro adaptive low-pass filter for a single scalar signal.
// The cutoff frequency scales with the smoothed derivative of the signal, so
// slow movement is heavily smoothed while fast movement stays responsive.
//
// An instance is stateful and not safe for concurrent use; create one filter
// per tracked axis.
type OneEuro struct {
	minCutoff float64
	beta      float64
	dCutoff   float64
	freq      float64

	prevX   float64
	prevDX  float64
	primed  bool
	dPrimed bool
}

// NewOneEuro creates a One-Euro filter with the given coefficients.
// Non-positive values fall back to the package defaults.
func NewOneEuro(minCutoff, beta, dCutoff, freq float64) *OneEuro {
	if minCutoff <= 0 {
		minCutoff = DefaultMinCutoff
	}
	if beta <= 0 {
		beta = DefaultBeta
	}
	if dCutoff <= 0 {
		dCutoff = DefaultDCutoff
	}
	if freq <= 0 {
		freq = DefaultFreq
	}
	return &OneEuro{
		minCutoff: minCutoff,
		beta:      beta,
		dCutoff:   dCutoff,
		freq:      freq,
	}
}

// Coefficients returns the filter's configured coefficients.
func (f *OneEuro) Coefficients() (minCutoff, beta, dCutoff, freq float64) {
	return f.minCutoff, f.beta, f.dCutoff, f.freq
}

// alpha computes the exponential blending coefficient for a cutoff frequency.
func (f *OneEuro) alpha(cutoff float64) float64 {
	tau := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / f.freq
	return 1.0 / (1.0 + tau/dt)
}

// Filter applies the filter to the next sample and returns the smoothed value.
// The first sample of a fresh filter is returned unchanged.
func (f *OneEuro) Filter(x float64) float64 {
	var dx float64
	if f.primed {
		dx = (x - f.prevX) * f.freq
	}

	smoothDX := dx
	if f.dPrimed {
		alphaD := f.alpha(f.dCutoff)
		smoothDX = alphaD*dx + (1-alphaD)*f.prevDX
	}

	cutoff := f.minCutoff + f.beta*math.Abs(smoothDX)

	smoothX := x
	if f.primed {
		a := f.alpha(cutoff)
		smoothX = a*x + (1-a)*f.prevX
	}

	f.prevX = smoothX
	f.prevDX = smoothDX
	f.primed = true
	f.dPrimed = true

	return smoothX
}

// Reset clears the filter state so the next sample passes through unchanged.
func (f *OneEuro) Reset() {
	f.prevX = 0
	f.prevDX = 0
	f.primed = false
	f.dPrimed = false
}
