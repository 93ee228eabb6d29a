// Package testutil provides in-memory fakes for the two store
// capabilities so unit tests run without Postgres or Redis.
package testutil

import (
	"context"
	"sort"
	"sync"

	models "signal-studio/database/models_pkg"
	"signal-studio/sigerrors"
)

// FakeMetadataStore is an in-memory metadata store. Set the per-op
// error fields to simulate store failures.
type FakeMetadataStore struct {
	mu   sync.Mutex
	rows map[string]models.SignalMeta

	SaveErr   error
	GetErr    error
	ListErr   error
	DeleteErr error
}

// NewFakeMetadataStore creates an empty fake metadata store.
func NewFakeMetadataStore() *FakeMetadataStore {
	return &FakeMetadataStore{rows: make(map[string]models.SignalMeta)}
}

// SaveMeta stores a copy of the row.
func (f *FakeMetadataStore) SaveMeta(_ context.Context, meta *models.SignalMeta) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[meta.ID] = *meta
	return nil
}

// GetMeta returns a copy of the row or NotFound.
func (f *FakeMetadataStore) GetMeta(_ context.Context, id string) (*models.SignalMeta, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, sigerrors.NewNotFound("signal", id)
	}
	return &row, nil
}

// ListRecent returns rows ordered most recently created first.
func (f *FakeMetadataStore) ListRecent(_ context.Context, limit int) ([]models.SignalMeta, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.SignalMeta, 0, len(f.rows))
	for _, row := range f.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// HasDerived reports whether any row references id as its original.
func (f *FakeMetadataStore) HasDerived(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.OriginalSignalID != nil && *row.OriginalSignalID == id {
			return true, nil
		}
	}
	return false, nil
}

// DeleteMeta removes a row.
func (f *FakeMetadataStore) DeleteMeta(_ context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

// ExistingIDs reports which of the ids have a row.
func (f *FakeMetadataStore) ExistingIDs(_ context.Context, ids []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := f.rows[id]; ok {
			present[id] = true
		}
	}
	return present, nil
}

// Has reports whether a row exists, for test assertions.
func (f *FakeMetadataStore) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[id]
	return ok
}

// samplePayload is one stored bulk entry.
type samplePayload struct {
	tag        string
	samples    []float64
	timestamps []float64
}

// FakeSampleStore is an in-memory sample store.
type FakeSampleStore struct {
	mu       sync.Mutex
	payloads map[string]samplePayload

	WriteErr  error
	ReadErr   error
	DeleteErr error

	// MutateOnWrite, when set, corrupts an existing payload on every
	// write. Used to exercise the original-unchanged assertion.
	MutateOnWrite func(store *FakeSampleStore)
}

// NewFakeSampleStore creates an empty fake sample store.
func NewFakeSampleStore() *FakeSampleStore {
	return &FakeSampleStore{payloads: make(map[string]samplePayload)}
}

// WriteSamples stores copies of the arrays.
func (f *FakeSampleStore) WriteSamples(_ context.Context, id, tag string, samples, timestamps []float64) error {
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.mu.Lock()
	f.payloads[id] = samplePayload{
		tag:        tag,
		samples:    append([]float64(nil), samples...),
		timestamps: append([]float64(nil), timestamps...),
	}
	f.mu.Unlock()
	if f.MutateOnWrite != nil {
		f.MutateOnWrite(f)
	}
	return nil
}

// ReadSamples returns copies of the stored arrays or NotFound.
func (f *FakeSampleStore) ReadSamples(_ context.Context, id string) ([]float64, []float64, error) {
	if f.ReadErr != nil {
		return nil, nil, f.ReadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payloads[id]
	if !ok {
		return nil, nil, sigerrors.NewNotFound("samples", id)
	}
	return append([]float64(nil), p.samples...), append([]float64(nil), p.timestamps...), nil
}

// DeleteSamples removes a payload.
func (f *FakeSampleStore) DeleteSamples(_ context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payloads, id)
	return nil
}

// ListIDs returns every stored id.
func (f *FakeSampleStore) ListIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.payloads))
	for id := range f.payloads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Has reports whether a payload exists, for test assertions.
func (f *FakeSampleStore) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.payloads[id]
	return ok
}

// Corrupt overwrites the stored samples for id, for integrity tests.
func (f *FakeSampleStore) Corrupt(id string, samples []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.payloads[id]
	p.samples = append([]float64(nil), samples...)
	f.payloads[id] = p
}

// FakeEventStore is an in-memory trigger event store.
type FakeEventStore struct {
	mu     sync.Mutex
	events []models.TriggerEvent
	nextID int64

	cfgThreshold float64
	cfgEnabled   bool
	cfgSaved     bool

	AppendErr error
	ReadErr   error
}

// NewFakeEventStore creates an empty fake event store.
func NewFakeEventStore() *FakeEventStore {
	return &FakeEventStore{nextID: 1}
}

// AppendEvent assigns the next insertion id and stores the event.
func (f *FakeEventStore) AppendEvent(_ context.Context, event *models.TriggerEvent) error {
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = f.nextID
	f.nextID++
	f.events = append(f.events, *event)
	return nil
}

// RecentEvents returns events most recent timestamp first; equal
// timestamps keep insertion order, matching the real repository's
// ORDER BY.
func (f *FakeEventStore) RecentEvents(_ context.Context, limit int) ([]models.TriggerEvent, error) {
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]models.TriggerEvent(nil), f.events...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ClearEvents removes every event.
func (f *FakeEventStore) ClearEvents(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
	return nil
}

// SaveConfig stores the configuration blob.
func (f *FakeEventStore) SaveConfig(_ context.Context, threshold float64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfgThreshold = threshold
	f.cfgEnabled = enabled
	f.cfgSaved = true
	return nil
}

// LoadConfig returns the stored configuration blob, if any.
func (f *FakeEventStore) LoadConfig(_ context.Context) (float64, bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfgThreshold, f.cfgEnabled, f.cfgSaved, nil
}

// EventCount returns the number of stored events, for assertions.
func (f *FakeEventStore) EventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
