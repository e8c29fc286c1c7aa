package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/stepsim/internal/response"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// PowerSpectrum zero-pads data to a power of two and returns the magnitudes
// of the non-negative frequency bins.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the largest non-DC bin of
// the output with its mean removed. Zero for traces too short to resolve a
// frequency or with no oscillation.
func DominantFrequency(tr *response.Trace) float64 {
	n := tr.Len()
	if n < 4 {
		return 0
	}
	dt := tr.T[1] - tr.T[0]
	if dt <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range tr.Y {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range tr.Y {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower && !math.IsInf(ps[i], 0) {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}

	padded := nextPow2(n)
	return float64(maxIdx) / (float64(padded) * dt)
}
