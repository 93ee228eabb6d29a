// Package signalstore coordinates the two storage engines behind one
// signal read/write API. Descriptive metadata lives in Postgres, bulk
// sample payloads in Redis; the coordinator is the sole writer of
// signal records and guarantees callers never observe a half-written
// signal.
//
// True cross-store atomicity does not exist here and the coordinator
// does not pretend it does. Writes go samples-first, metadata-second:
// the metadata row is the commit point, so a failed second write leaves
// an invisible sample orphan (reported as a failure to the caller) that
// the background SweepOrphans pass reconciles later.
package signalstore

import (
	"context"
	"fmt"
	"log"
	"sync"

	models "signal-studio/database/models_pkg"
	"signal-studio/retry"
	"signal-studio/sigerrors"
)

// MetadataStore is the descriptive-record capability consumed by the
// coordinator, implemented by database/signals.Repository.
type MetadataStore interface {
	SaveMeta(ctx context.Context, meta *models.SignalMeta) error
	GetMeta(ctx context.Context, id string) (*models.SignalMeta, error)
	ListRecent(ctx context.Context, limit int) ([]models.SignalMeta, error)
	HasDerived(ctx context.Context, id string) (bool, error)
	DeleteMeta(ctx context.Context, id string) error
	ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// SampleStore is the bulk-payload capability consumed by the
// coordinator, implemented by samplestore.Store.
type SampleStore interface {
	WriteSamples(ctx context.Context, id, tag string, samples, timestamps []float64) error
	ReadSamples(ctx context.Context, id string) (samples, timestamps []float64, err error)
	DeleteSamples(ctx context.Context, id string) error
	ListIDs(ctx context.Context) ([]string, error)
}

// Coordinator composes the metadata and sample stores into one signal
// persistence API.
type Coordinator struct {
	meta     MetadataStore
	samples  SampleStore
	retryCfg retry.Config

	// ids seen orphaned on the previous sweep; an id is only reclaimed
	// after showing up orphaned twice, so an in-flight save (samples
	// written, metadata not yet committed) survives one sweep boundary.
	sweepMu      sync.Mutex
	prevOrphaned map[string]bool
}

// New creates a coordinator over the two store adapters.
func New(meta MetadataStore, samples SampleStore, retryCfg retry.Config) *Coordinator {
	return &Coordinator{
		meta:         meta,
		samples:      samples,
		retryCfg:     retryCfg,
		prevOrphaned: make(map[string]bool),
	}
}

// SaveCompleteSignal writes a signal to both stores. The call succeeds
// only when both writes land; on any failure the signal is not
// persisted from the caller's point of view. Writes are never retried
// here: retrying a dual-store write risks an inconsistent double-write.
func (c *Coordinator) SaveCompleteSignal(ctx context.Context, sig *models.CompleteSignal) error {
	if sig.ID == "" {
		return sigerrors.NewInvalidParameters([]string{"signal id must not be empty"})
	}
	if len(sig.Samples) != len(sig.Timestamps) {
		return sigerrors.NewIntegrityViolation("sample-timestamp-parity",
			fmt.Sprintf("signal %s has %d samples but %d timestamps", sig.ID, len(sig.Samples), len(sig.Timestamps)))
	}
	if sig.IsDerived() && sig.OriginalSignalID == sig.ID {
		return sigerrors.NewIntegrityViolation("self-reference",
			fmt.Sprintf("signal %s lists itself as its original", sig.ID))
	}

	if err := c.samples.WriteSamples(ctx, sig.ID, string(sig.SignalType), sig.Samples, sig.Timestamps); err != nil {
		return fmt.Errorf("SaveCompleteSignal: %w", err)
	}

	if err := c.meta.SaveMeta(ctx, metaFromSignal(sig)); err != nil {
		// The sample payload is now an orphan. It is invisible (nothing
		// resolves without metadata) and the sweep reclaims it.
		log.Printf("⚠️  metadata write failed for signal %s, sample payload orphaned: %v", sig.ID, err)
		return fmt.Errorf("SaveCompleteSignal: %w", err)
	}

	return nil
}

// GetCompleteSignal reads a signal from both stores and merges the
// result. A missing metadata row is a NotFoundError; a metadata row
// whose sample payload is missing or the wrong shape is an
// IntegrityViolationError, never a silent empty-array substitution.
// Both reads are idempotent and retried with bounded backoff.
func (c *Coordinator) GetCompleteSignal(ctx context.Context, id string) (*models.CompleteSignal, error) {
	var meta *models.SignalMeta
	err := retry.Do(ctx, c.retryCfg, func() error {
		var err error
		meta, err = c.meta.GetMeta(ctx, id)
		if sigerrors.IsNotFound(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var samples, timestamps []float64
	err = retry.Do(ctx, c.retryCfg, func() error {
		var err error
		samples, timestamps, err = c.samples.ReadSamples(ctx, id)
		if sigerrors.IsNotFound(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if sigerrors.IsNotFound(err) {
		detail := fmt.Sprintf("signal %s has metadata but no recoverable samples", id)
		log.Printf("🚨 %s", detail)
		return nil, sigerrors.NewIntegrityViolation("samples-missing", detail)
	}
	if err != nil {
		return nil, err
	}

	if len(samples) != meta.SampleCount || len(samples) != len(timestamps) {
		detail := fmt.Sprintf("signal %s expects %d samples, payload has %d samples / %d timestamps",
			id, meta.SampleCount, len(samples), len(timestamps))
		log.Printf("🚨 %s", detail)
		return nil, sigerrors.NewIntegrityViolation("sample-count-mismatch", detail)
	}

	return signalFromMeta(meta, samples, timestamps), nil
}

// ListRecent returns up to limit metadata records, most recently
// created first. Bulk payloads are not loaded; the listing backs the
// signal-history view and must not pull unbounded sample data.
func (c *Coordinator) ListRecent(ctx context.Context, limit int) ([]models.SignalMeta, error) {
	var metas []models.SignalMeta
	err := retry.Do(ctx, c.retryCfg, func() error {
		var err error
		metas, err = c.meta.ListRecent(ctx, limit)
		return err
	})
	return metas, err
}

// DeleteSignal removes a signal from both stores. An original that
// still has derived signals pointing at it is never deleted; the call
// fails with an IntegrityViolationError instead of breaking the
// children's parent references.
//
// Metadata goes first so the signal disappears atomically from the
// caller's view; a leftover sample payload is reclaimed by the sweep.
func (c *Coordinator) DeleteSignal(ctx context.Context, id string) error {
	if _, err := c.meta.GetMeta(ctx, id); err != nil {
		return err
	}

	hasChildren, err := c.meta.HasDerived(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return sigerrors.NewIntegrityViolation("live-children",
			fmt.Sprintf("signal %s still has derived signals and cannot be deleted", id))
	}

	if err := c.meta.DeleteMeta(ctx, id); err != nil {
		return fmt.Errorf("DeleteSignal: %w", err)
	}
	if err := c.samples.DeleteSamples(ctx, id); err != nil {
		log.Printf("⚠️  sample delete failed for %s, payload orphaned: %v", id, err)
		// Metadata is gone so the signal no longer exists for callers;
		// the orphaned payload is the sweep's problem, not theirs.
		return nil
	}
	return nil
}

// SweepOrphans reclaims sample payloads whose metadata write never
// landed. An id is deleted only after being observed orphaned on two
// consecutive sweeps, which keeps the sweep from racing an in-flight
// SaveCompleteSignal. Returns the number of payloads reclaimed.
func (c *Coordinator) SweepOrphans(ctx context.Context) (int, error) {
	ids, err := c.samples.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("SweepOrphans: %w", err)
	}
	if len(ids) == 0 {
		c.sweepMu.Lock()
		c.prevOrphaned = make(map[string]bool)
		c.sweepMu.Unlock()
		return 0, nil
	}

	present, err := c.meta.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("SweepOrphans: %w", err)
	}

	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()

	orphaned := make(map[string]bool)
	reclaimed := 0
	for _, id := range ids {
		if present[id] {
			continue
		}
		if !c.prevOrphaned[id] {
			orphaned[id] = true // first sighting, give the writer a chance
			continue
		}
		if err := c.samples.DeleteSamples(ctx, id); err != nil {
			log.Printf("⚠️  orphan sweep could not delete %s: %v", id, err)
			orphaned[id] = true
			continue
		}
		log.Printf("🧹 reclaimed orphaned sample payload %s", id)
		reclaimed++
	}
	c.prevOrphaned = orphaned

	return reclaimed, nil
}

// metaFromSignal flattens a complete signal into its metadata row.
func metaFromSignal(sig *models.CompleteSignal) *models.SignalMeta {
	meta := &models.SignalMeta{
		ID:          sig.ID,
		SignalType:  string(sig.SignalType),
		SampleCount: len(sig.Samples),
		Frequency:   sig.GenerationParams.Frequency,
		Amplitude:   sig.GenerationParams.Amplitude,
		Phase:       sig.GenerationParams.Phase,
		Duration:    sig.GenerationParams.Duration,
		SampleRate:  sig.GenerationParams.SampleRate,
		CreatedAt:   sig.CreatedAt,
	}
	if sig.IsDerived() {
		parent := sig.OriginalSignalID
		meta.OriginalSignalID = &parent
		if p := sig.ProcessingParams; p != nil {
			op := string(p.Operation)
			meta.Operation = &op
			meta.CutoffFrequency = p.CutoffFrequency
			meta.LowCutoff = p.LowCutoff
			meta.HighCutoff = p.HighCutoff
			meta.FilterOrder = p.Order
			meta.GainFactor = p.Gain
		}
	}
	return meta
}

// signalFromMeta merges a metadata row with its bulk payload. The
// result carries derived-signal fields only when the row has a parent
// reference.
func signalFromMeta(meta *models.SignalMeta, samples, timestamps []float64) *models.CompleteSignal {
	sig := &models.CompleteSignal{
		ID:         meta.ID,
		SignalType: models.SignalType(meta.SignalType),
		Samples:    samples,
		Timestamps: timestamps,
		GenerationParams: models.GenerationParams{
			Frequency:  meta.Frequency,
			Amplitude:  meta.Amplitude,
			Phase:      meta.Phase,
			Duration:   meta.Duration,
			SampleRate: meta.SampleRate,
		},
		CreatedAt: meta.CreatedAt,
	}
	if meta.IsDerived() {
		sig.OriginalSignalID = *meta.OriginalSignalID
		sig.ProcessingParams = meta.ProcessingParams()
	}
	return sig
}
