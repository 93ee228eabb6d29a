package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "signal-studio/database/models_pkg"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestGainScalesExactly(t *testing.T) {
	in := []float64{0, 1, -2.5, 3.75, 1e-9}
	out := Gain(in, 2.0)

	require.Len(t, out, len(in))
	for i, v := range in {
		assert.Equal(t, v*2.0, out[i], "sample %d", i)
	}
	// Input untouched
	assert.Equal(t, []float64{0, 1, -2.5, 3.75, 1e-9}, in)
}

func TestLowPassImpulseDecay(t *testing.T) {
	// For a step-down input [1,0,0,...] the recurrence collapses to a
	// geometric decay: y[i] = (1-α)^i.
	const sampleRate, cutoff = 10.0, 1.0
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)

	in := []float64{1, 0, 0, 0, 0}
	out := LowPass(in, sampleRate, cutoff, 1)

	require.Len(t, out, len(in))
	for i := range out {
		assert.InDelta(t, math.Pow(1-alpha, float64(i)), out[i], 1e-12, "sample %d", i)
	}
}

func TestLowPassFirstSampleSeedsState(t *testing.T) {
	in := []float64{3.5, 3.5, 3.5}
	out := LowPass(in, 100, 5, 1)

	// y[0] = x[0] and a constant input passes through unchanged.
	for i, v := range out {
		assert.InDelta(t, 3.5, v, 1e-12, "sample %d", i)
	}
}

func TestLowPassCascadesWholePasses(t *testing.T) {
	in := []float64{1, -1, 1, -1, 1, -1, 1, -1}

	twice := LowPass(LowPass(in, 100, 5, 1), 100, 5, 1)
	order2 := LowPass(in, 100, 5, 2)

	assert.Equal(t, twice, order2, "order 2 must equal two chained single passes")
}

func TestHighPassIsComplementOfLowPass(t *testing.T) {
	in := []float64{0.3, 1.2, -0.7, 2.4, 0.0, -1.1}
	low := LowPass(in, 100, 8, 2)
	high := HighPass(in, 100, 8, 2)

	require.Len(t, high, len(in))
	for i := range in {
		assert.InDelta(t, in[i], low[i]+high[i], 1e-12, "sample %d", i)
	}
}

func TestBandPassOrderOfOperations(t *testing.T) {
	in := []float64{1, 0.5, -0.25, 0.8, -1.4, 0.2, 0.9, -0.6}

	want := LowPass(HighPass(in, 200, 5, 1), 200, 40, 1)
	got := BandPass(in, 200, 5, 40, 1)
	assert.Equal(t, want, got, "bandpass must high-pass first, then low-pass the result")

	swapped := HighPass(LowPass(in, 200, 40, 1), 200, 5, 1)
	assert.NotEqual(t, swapped, got, "swapping the stages must change the output")
}

func TestFiltersPreserveLength(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17} {
		in := make([]float64, n)
		for i := range in {
			in[i] = float64(i)
		}

		assert.Len(t, Gain(in, 3), n)
		assert.Len(t, LowPass(in, 100, 10, 3), n)
		assert.Len(t, HighPass(in, 100, 10, 3), n)
		assert.Len(t, BandPass(in, 100, 5, 20, 3), n)
	}
}

func TestApplyDispatch(t *testing.T) {
	in := []float64{1, 2, 3}

	tests := []struct {
		name    string
		params  models.ProcessingParams
		want    []float64
		wantErr bool
	}{
		{
			name:   "gain",
			params: models.ProcessingParams{Operation: models.OpGain, Gain: floatPtr(10)},
			want:   []float64{10, 20, 30},
		},
		{
			name:   "lowpass",
			params: models.ProcessingParams{Operation: models.OpLowPass, CutoffFrequency: floatPtr(10), Order: intPtr(2)},
			want:   LowPass(in, 100, 10, 2),
		},
		{
			name:   "highpass defaults order to 1",
			params: models.ProcessingParams{Operation: models.OpHighPass, CutoffFrequency: floatPtr(10)},
			want:   HighPass(in, 100, 10, 1),
		},
		{
			name:   "bandpass",
			params: models.ProcessingParams{Operation: models.OpBandPass, LowCutoff: floatPtr(5), HighCutoff: floatPtr(20)},
			want:   BandPass(in, 100, 5, 20, 1),
		},
		{
			name:    "gain without factor",
			params:  models.ProcessingParams{Operation: models.OpGain},
			wantErr: true,
		},
		{
			name:    "lowpass without cutoff",
			params:  models.ProcessingParams{Operation: models.OpLowPass},
			wantErr: true,
		},
		{
			name:    "bandpass missing high cutoff",
			params:  models.ProcessingParams{Operation: models.OpBandPass, LowCutoff: floatPtr(5)},
			wantErr: true,
		},
		{
			name:    "unknown operation",
			params:  models.ProcessingParams{Operation: "resample"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(in, 100, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
