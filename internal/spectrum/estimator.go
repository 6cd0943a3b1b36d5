// Package spectrum estimates the dominant frequency component of a sample
// window via a real-input FFT.
package spectrum

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Magnitudes at or below this are treated as numerical noise rather than a
// real spectral peak. After DC removal a constant window leaves only
// rounding residue, orders of magnitude below any real signal.
const noiseFloor = 1e-9

// Estimator computes the dominant frequency of fixed-length windows sampled
// at a fixed rate. It reuses its FFT plan and scratch buffers, so a single
// Estimator must not be shared between goroutines.
type Estimator struct {
	fft     *fourier.FFT
	rate    float64
	scratch []float64
	coeffs  []complex128
}

// New returns an Estimator for windows of length n sampled at rate Hz.
func New(n int, rate float64) *Estimator {
	if n <= 0 {
		panic("spectrum: window length must be positive")
	}
	if rate <= 0 {
		panic("spectrum: sampling rate must be positive")
	}
	return &Estimator{
		fft:     fourier.NewFFT(n),
		rate:    rate,
		scratch: make([]float64, n),
		coeffs:  make([]complex128, n/2+1),
	}
}

// Dominant returns the dominant frequency of the window in Hz. The window
// length must match the length the Estimator was built for.
//
// The window mean is subtracted first so a DC bias does not mask the
// signal. The search runs over the non-negative frequency bins [0, n/2),
// exploiting real-input symmetry. A window with no spectral content above
// the noise floor (e.g. a constant window) yields 0 Hz.
func (e *Estimator) Dominant(window []float64) float64 {
	n := len(e.scratch)
	if len(window) != n {
		panic("spectrum: window length mismatch")
	}

	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(n)
	for i, v := range window {
		e.scratch[i] = v - mean
	}

	coeffs := e.fft.Coefficients(e.coeffs, e.scratch)

	peak := 0
	peakMag := 0.0
	for i := 0; i < n/2; i++ {
		if mag := cmplx.Abs(coeffs[i]); mag > peakMag {
			peak = i
			peakMag = mag
		}
	}

	if peakMag <= noiseFloor {
		return 0
	}

	return math.Abs(e.fft.Freq(peak) * e.rate)
}

// BinWidth returns the frequency resolution of the estimate in Hz.
func (e *Estimator) BinWidth() float64 {
	return e.rate / float64(len(e.scratch))
}
