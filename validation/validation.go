// Package validation holds the pure parameter checks that gate signal
// generation and processing. Every check collects all violated rules
// rather than short-circuiting on the first, so callers can present the
// complete list at once.
package validation

import (
	"fmt"
	"math"

	models "signal-studio/database/models_pkg"
)

// Result is the outcome of a validation pass.
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

func resultFor(errs []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateGeneration checks waveform generation parameters. Frequency,
// amplitude, duration and sample rate must be positive; phase stays in
// [-2π, 2π]; the sample rate must satisfy Nyquist for the requested
// frequency.
func ValidateGeneration(p models.GenerationParams) Result {
	var errs []string

	if p.Frequency <= 0 {
		errs = append(errs, fmt.Sprintf("frequency must be positive, got %g", p.Frequency))
	}
	if p.Amplitude <= 0 {
		errs = append(errs, fmt.Sprintf("amplitude must be positive, got %g", p.Amplitude))
	}
	if p.Duration <= 0 {
		errs = append(errs, fmt.Sprintf("duration must be positive, got %g", p.Duration))
	}
	if p.SampleRate <= 0 {
		errs = append(errs, fmt.Sprintf("sampleRate must be positive, got %g", p.SampleRate))
	}
	if p.Phase < -2*math.Pi || p.Phase > 2*math.Pi {
		errs = append(errs, fmt.Sprintf("phase must be within [-2π, 2π], got %g", p.Phase))
	}
	if p.Frequency > 0 && p.SampleRate > 0 && p.SampleRate < 2*p.Frequency {
		errs = append(errs, fmt.Sprintf("sampleRate %g violates Nyquist for frequency %g (need at least %g)",
			p.SampleRate, p.Frequency, 2*p.Frequency))
	}

	return resultFor(errs)
}

// ValidateProcessing checks the structural requirements of processing
// parameters: the operation tag is known and every field that operation
// requires is present and in range. It cannot check cutoffs against the
// target signal's sample rate; that is ValidateAgainstSignal's job.
func ValidateProcessing(p models.ProcessingParams) Result {
	var errs []string

	if !p.Operation.Valid() {
		errs = append(errs, fmt.Sprintf("unknown operation %q", p.Operation))
		return resultFor(errs)
	}

	switch p.Operation {
	case models.OpLowPass, models.OpHighPass:
		if p.CutoffFrequency == nil {
			errs = append(errs, fmt.Sprintf("%s requires cutoffFrequency", p.Operation))
		} else if *p.CutoffFrequency <= 0 {
			errs = append(errs, fmt.Sprintf("cutoffFrequency must be positive, got %g", *p.CutoffFrequency))
		}
	case models.OpBandPass:
		if p.LowCutoff == nil {
			errs = append(errs, "bandpass requires lowCutoff")
		} else if *p.LowCutoff <= 0 {
			errs = append(errs, fmt.Sprintf("lowCutoff must be positive, got %g", *p.LowCutoff))
		}
		if p.HighCutoff == nil {
			errs = append(errs, "bandpass requires highCutoff")
		} else if *p.HighCutoff <= 0 {
			errs = append(errs, fmt.Sprintf("highCutoff must be positive, got %g", *p.HighCutoff))
		}
		if p.LowCutoff != nil && p.HighCutoff != nil && *p.LowCutoff >= *p.HighCutoff {
			errs = append(errs, fmt.Sprintf("lowCutoff %g must be below highCutoff %g", *p.LowCutoff, *p.HighCutoff))
		}
	case models.OpGain:
		if p.Gain == nil {
			errs = append(errs, "gain operation requires gain")
		} else if *p.Gain <= 0 {
			errs = append(errs, fmt.Sprintf("gain must be positive, got %g", *p.Gain))
		}
	}

	if p.Order != nil && *p.Order <= 0 {
		errs = append(errs, fmt.Sprintf("order must be positive when given, got %d", *p.Order))
	}

	return resultFor(errs)
}

// ValidateAgainstSignal runs the second validation stage: every cutoff
// must stay below the Nyquist frequency (sampleRate / 2) of the signal
// being processed.
func ValidateAgainstSignal(p models.ProcessingParams, sampleRate float64) Result {
	var errs []string
	nyquist := sampleRate / 2

	check := func(name string, v *float64) {
		if v != nil && *v >= nyquist {
			errs = append(errs, fmt.Sprintf("%s %g must be below the Nyquist frequency %g", name, *v, nyquist))
		}
	}

	switch p.Operation {
	case models.OpLowPass, models.OpHighPass:
		check("cutoffFrequency", p.CutoffFrequency)
	case models.OpBandPass:
		check("lowCutoff", p.LowCutoff)
		check("highCutoff", p.HighCutoff)
	}

	return resultFor(errs)
}
