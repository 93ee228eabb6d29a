package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "signal-studio/database/models_pkg"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func validGeneration() models.GenerationParams {
	return models.GenerationParams{
		Frequency:  1000,
		Amplitude:  1.0,
		Phase:      0,
		Duration:   0.1,
		SampleRate: 44100,
	}
}

func TestValidateGenerationAccepts(t *testing.T) {
	res := ValidateGeneration(validGeneration())
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestValidateGenerationRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.GenerationParams)
		mention string
	}{
		{"zero frequency", func(p *models.GenerationParams) { p.Frequency = 0 }, "frequency"},
		{"negative amplitude", func(p *models.GenerationParams) { p.Amplitude = -1 }, "amplitude"},
		{"zero duration", func(p *models.GenerationParams) { p.Duration = 0 }, "duration"},
		{"negative sample rate", func(p *models.GenerationParams) { p.SampleRate = -44100 }, "sampleRate"},
		{"phase above 2π", func(p *models.GenerationParams) { p.Phase = 2*math.Pi + 0.01 }, "phase"},
		{"phase below -2π", func(p *models.GenerationParams) { p.Phase = -2*math.Pi - 0.01 }, "phase"},
		{"nyquist violation", func(p *models.GenerationParams) { p.SampleRate = 1500 }, "Nyquist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validGeneration()
			tt.mutate(&p)
			res := ValidateGeneration(p)
			require.False(t, res.IsValid)
			found := false
			for _, e := range res.Errors {
				if strings.Contains(e, tt.mention) {
					found = true
				}
			}
			assert.True(t, found, "expected an error mentioning %q, got %v", tt.mention, res.Errors)
		})
	}
}

func TestValidateGenerationCollectsAllViolations(t *testing.T) {
	res := ValidateGeneration(models.GenerationParams{
		Frequency:  -1,
		Amplitude:  0,
		Phase:      10,
		Duration:   -5,
		SampleRate: 0,
	})
	require.False(t, res.IsValid)
	// Every violated rule is reported, not just the first.
	assert.GreaterOrEqual(t, len(res.Errors), 5)
}

func TestValidateProcessingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		params  models.ProcessingParams
		valid   bool
		mention string
	}{
		{
			name:   "lowpass ok",
			params: models.ProcessingParams{Operation: models.OpLowPass, CutoffFrequency: floatPtr(500)},
			valid:  true,
		},
		{
			name:    "lowpass missing cutoff",
			params:  models.ProcessingParams{Operation: models.OpLowPass},
			mention: "cutoffFrequency",
		},
		{
			name:    "highpass negative cutoff",
			params:  models.ProcessingParams{Operation: models.OpHighPass, CutoffFrequency: floatPtr(-3)},
			mention: "cutoffFrequency",
		},
		{
			name:   "bandpass ok",
			params: models.ProcessingParams{Operation: models.OpBandPass, LowCutoff: floatPtr(100), HighCutoff: floatPtr(400)},
			valid:  true,
		},
		{
			name:    "bandpass missing both cutoffs",
			params:  models.ProcessingParams{Operation: models.OpBandPass},
			mention: "lowCutoff",
		},
		{
			name:    "bandpass inverted cutoffs",
			params:  models.ProcessingParams{Operation: models.OpBandPass, LowCutoff: floatPtr(400), HighCutoff: floatPtr(100)},
			mention: "below",
		},
		{
			name:   "gain ok",
			params: models.ProcessingParams{Operation: models.OpGain, Gain: floatPtr(2)},
			valid:  true,
		},
		{
			name:    "gain missing factor",
			params:  models.ProcessingParams{Operation: models.OpGain},
			mention: "gain",
		},
		{
			name:    "gain zero",
			params:  models.ProcessingParams{Operation: models.OpGain, Gain: floatPtr(0)},
			mention: "gain",
		},
		{
			name:    "negative order",
			params:  models.ProcessingParams{Operation: models.OpLowPass, CutoffFrequency: floatPtr(500), Order: intPtr(-2)},
			mention: "order",
		},
		{
			name:    "unknown operation",
			params:  models.ProcessingParams{Operation: "fft"},
			mention: "unknown operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateProcessing(tt.params)
			if tt.valid {
				assert.True(t, res.IsValid, "errors: %v", res.Errors)
				return
			}
			require.False(t, res.IsValid)
			found := false
			for _, e := range res.Errors {
				if strings.Contains(e, tt.mention) {
					found = true
				}
			}
			assert.True(t, found, "expected an error mentioning %q, got %v", tt.mention, res.Errors)
		})
	}
}

func TestValidateProcessingBandpassCollectsBothMissing(t *testing.T) {
	res := ValidateProcessing(models.ProcessingParams{Operation: models.OpBandPass})
	require.False(t, res.IsValid)
	assert.Len(t, res.Errors, 2, "both missing cutoffs must be reported")
}

func TestValidateAgainstSignalNyquist(t *testing.T) {
	const sampleRate = 44100.0
	nyquist := sampleRate / 2

	tests := []struct {
		name   string
		params models.ProcessingParams
		valid  bool
	}{
		{
			name:   "cutoff below nyquist",
			params: models.ProcessingParams{Operation: models.OpLowPass, CutoffFrequency: floatPtr(nyquist - 1)},
			valid:  true,
		},
		{
			name:   "cutoff at nyquist",
			params: models.ProcessingParams{Operation: models.OpLowPass, CutoffFrequency: floatPtr(nyquist)},
			valid:  false,
		},
		{
			name:   "highpass cutoff above nyquist",
			params: models.ProcessingParams{Operation: models.OpHighPass, CutoffFrequency: floatPtr(nyquist + 500)},
			valid:  false,
		},
		{
			name:   "bandpass high cutoff at nyquist",
			params: models.ProcessingParams{Operation: models.OpBandPass, LowCutoff: floatPtr(100), HighCutoff: floatPtr(nyquist)},
			valid:  false,
		},
		{
			name:   "gain never checks cutoffs",
			params: models.ProcessingParams{Operation: models.OpGain, Gain: floatPtr(2)},
			valid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateAgainstSignal(tt.params, sampleRate)
			assert.Equal(t, tt.valid, res.IsValid, "errors: %v", res.Errors)
		})
	}
}
