// Package generator synthesizes waveforms from closed-form formulas.
// It is a pure leaf: no storage, no state beyond the noise RNG seed.
package generator

import (
	"fmt"
	"math"
	"math/rand"

	models "signal-studio/database/models_pkg"
)

// Generate produces the sample and timestamp arrays for the requested
// waveform. Timestamps are seconds from the start of the signal at the
// configured sample rate. Parameters are assumed validated; a zero
// sample count (duration too short for one sample) is returned as an
// error rather than an empty signal.
func Generate(signalType models.SignalType, p models.GenerationParams) (samples, timestamps []float64, err error) {
	n := int(p.Duration * p.SampleRate)
	if n <= 0 {
		return nil, nil, fmt.Errorf("Generate: duration %gs at %g Hz yields no samples", p.Duration, p.SampleRate)
	}

	samples = make([]float64, n)
	timestamps = make([]float64, n)
	dt := 1.0 / p.SampleRate

	for i := 0; i < n; i++ {
		timestamps[i] = float64(i) * dt
	}

	switch signalType {
	case models.SignalSine:
		for i, t := range timestamps {
			samples[i] = p.Amplitude * math.Sin(2*math.Pi*p.Frequency*t+p.Phase)
		}
	case models.SignalSquare:
		for i, t := range timestamps {
			if math.Sin(2*math.Pi*p.Frequency*t+p.Phase) >= 0 {
				samples[i] = p.Amplitude
			} else {
				samples[i] = -p.Amplitude
			}
		}
	case models.SignalSawtooth:
		for i, t := range timestamps {
			// Phase-shifted fractional cycle position mapped to [-A, A).
			cycles := p.Frequency*t + p.Phase/(2*math.Pi)
			frac := cycles - math.Floor(cycles)
			samples[i] = p.Amplitude * (2*frac - 1)
		}
	case models.SignalNoise:
		for i := range samples {
			samples[i] = p.Amplitude * (2*rand.Float64() - 1)
		}
	default:
		return nil, nil, fmt.Errorf("Generate: unknown signal type %q", signalType)
	}

	return samples, timestamps, nil
}
