// Package processing implements the signal processor: the pipeline
// that turns a stored signal plus processing parameters into a new,
// persisted derived signal. The original signal is never mutated as an
// observable side effect of any Process call, successful or not.
package processing

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	models "signal-studio/database/models_pkg"
	"signal-studio/dsp"
	"signal-studio/sigerrors"
	"signal-studio/signalstore"
	"signal-studio/validation"
)

// Processor runs processing requests against the persistence
// coordinator. It holds no mutable state; concurrent Process calls on
// any mix of signal ids are safe, each producing an independent
// uniquely-id'd derived signal.
type Processor struct {
	store *signalstore.Coordinator
}

// New creates a processor over the persistence coordinator.
func New(store *signalstore.Coordinator) *Processor {
	return &Processor{store: store}
}

// Process applies a filter operation to a stored signal and persists
// the result as a new derived signal.
//
// Pipeline: structural validation, load original, Nyquist validation
// against the original's sample rate, run the filter engine, persist
// the derived signal (fresh id, parent reference, timestamps reused
// from the original), then re-read the original and assert it is
// unchanged. That final check is defense in depth: its failure means a
// persistence bug, surfaced as an IntegrityViolationError rather than
// a user error.
func (p *Processor) Process(ctx context.Context, signalID string, params models.ProcessingParams) (*models.CompleteSignal, error) {
	if res := validation.ValidateProcessing(params); !res.IsValid {
		return nil, sigerrors.NewInvalidParameters(res.Errors)
	}

	original, err := p.store.GetCompleteSignal(ctx, signalID)
	if err != nil {
		return nil, err
	}

	sampleRate := original.GenerationParams.SampleRate
	if res := validation.ValidateAgainstSignal(params, sampleRate); !res.IsValid {
		return nil, sigerrors.NewInvalidParameters(res.Errors)
	}

	// Snapshot the original arrays before anything touches them so the
	// post-persist assertion compares against true pre-call state.
	beforeSamples := append([]float64(nil), original.Samples...)
	beforeTimestamps := append([]float64(nil), original.Timestamps...)

	output, err := dsp.Apply(original.Samples, sampleRate, params)
	if err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	paramsCopy := params
	derived := &models.CompleteSignal{
		ID:               uuid.NewString(),
		SignalType:       original.SignalType,
		Samples:          output,
		Timestamps:       append([]float64(nil), original.Timestamps...),
		GenerationParams: original.GenerationParams,
		CreatedAt:        time.Now(),
		OriginalSignalID: signalID,
		ProcessingParams: &paramsCopy,
	}

	if err := p.store.SaveCompleteSignal(ctx, derived); err != nil {
		return nil, err
	}

	// Re-read only after SaveCompleteSignal has returned, so the check
	// observes settled writes and cannot false-positive on reordering.
	if err := p.verifyOriginalUnchanged(ctx, signalID, beforeSamples, beforeTimestamps); err != nil {
		return nil, err
	}

	return derived, nil
}

func (p *Processor) verifyOriginalUnchanged(ctx context.Context, signalID string, samples, timestamps []float64) error {
	after, err := p.store.GetCompleteSignal(ctx, signalID)
	if err != nil {
		return fmt.Errorf("Process: original re-read failed: %w", err)
	}

	if !float64sEqual(after.Samples, samples) || !float64sEqual(after.Timestamps, timestamps) {
		detail := fmt.Sprintf("original signal %s changed during processing (%d→%d samples)",
			signalID, len(samples), len(after.Samples))
		log.Printf("🚨 %s", detail)
		return sigerrors.NewIntegrityViolation("original-mutated", detail)
	}
	return nil
}

// float64sEqual compares exactly, not within tolerance: the original
// must match its pre-call state value for value.
func float64sEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
