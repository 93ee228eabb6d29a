// Package dsp implements the numeric filter engine: stateless
// transformations over sample arrays. All filters preserve array length
// and never touch timestamps; callers reuse the source signal's
// timestamp array verbatim.
//
// The low-pass filter is a cascaded single-pole IIR approximation: the
// whole pass is repeated `order` times, each pass consuming the previous
// pass's output. That cascading (rather than a true N-th order design)
// is the behavioral contract downstream consumers depend on.
package dsp

import (
	"fmt"
	"math"

	models "signal-studio/database/models_pkg"
)

// Gain scales every sample by a constant factor.
func Gain(samples []float64, gain float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s * gain
	}
	return out
}

// LowPass runs `order` cascaded single-pole low-pass stages at the given
// cutoff frequency. Each stage uses the recurrence
//
//	y[0] = x[0]
//	y[i] = y[i-1] + α·(x[i] − y[i-1]),  α = dt/(rc+dt),  rc = 1/(2π·cutoff)
func LowPass(samples []float64, sampleRate, cutoff float64, order int) []float64 {
	out := append([]float64(nil), samples...)
	if order < 1 {
		order = 1
	}
	for pass := 0; pass < order; pass++ {
		out = lowPassStage(out, sampleRate, cutoff)
	}
	return out
}

func lowPassStage(samples []float64, sampleRate, cutoff float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}

	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)

	out[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		out[i] = out[i-1] + alpha*(samples[i]-out[i-1])
	}
	return out
}

// HighPass is the complement of LowPass at the same cutoff and order:
// output[i] = input[i] − lowpass(input)[i].
func HighPass(samples []float64, sampleRate, cutoff float64, order int) []float64 {
	low := LowPass(samples, sampleRate, cutoff, order)
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s - low[i]
	}
	return out
}

// BandPass applies a high-pass at lowCutoff first, then low-passes the
// result at highCutoff, both with the same order. The ordering is part
// of the contract and must not be swapped.
func BandPass(samples []float64, sampleRate, lowCutoff, highCutoff float64, order int) []float64 {
	high := HighPass(samples, sampleRate, lowCutoff, order)
	return LowPass(high, sampleRate, highCutoff, order)
}

// Apply dispatches on the operation tag and runs the matching filter.
// Params are assumed validated; a missing required field here means the
// caller skipped validation and gets an error, not a default.
func Apply(samples []float64, sampleRate float64, p models.ProcessingParams) ([]float64, error) {
	switch p.Operation {
	case models.OpGain:
		if p.Gain == nil {
			return nil, fmt.Errorf("Apply: gain operation without gain factor")
		}
		return Gain(samples, *p.Gain), nil
	case models.OpLowPass:
		if p.CutoffFrequency == nil {
			return nil, fmt.Errorf("Apply: lowpass operation without cutoff frequency")
		}
		return LowPass(samples, sampleRate, *p.CutoffFrequency, p.ResolvedOrder()), nil
	case models.OpHighPass:
		if p.CutoffFrequency == nil {
			return nil, fmt.Errorf("Apply: highpass operation without cutoff frequency")
		}
		return HighPass(samples, sampleRate, *p.CutoffFrequency, p.ResolvedOrder()), nil
	case models.OpBandPass:
		if p.LowCutoff == nil || p.HighCutoff == nil {
			return nil, fmt.Errorf("Apply: bandpass operation without both cutoffs")
		}
		return BandPass(samples, sampleRate, *p.LowCutoff, *p.HighCutoff, p.ResolvedOrder()), nil
	default:
		return nil, fmt.Errorf("Apply: unknown operation %q", p.Operation)
	}
}
