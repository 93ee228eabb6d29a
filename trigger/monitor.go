// Package trigger implements the threshold monitor: a stateful
// comparator that records a durable event whenever a checked value
// strictly exceeds the configured threshold.
package trigger

import (
	"context"
	"sync"
	"time"

	models "signal-studio/database/models_pkg"
	"signal-studio/sigerrors"
)

// EventStore is the persistence capability the monitor needs: event
// append plus ordered range read plus bulk clear, and the single
// current configuration blob. Implemented by database/triggers.Repository.
type EventStore interface {
	AppendEvent(ctx context.Context, event *models.TriggerEvent) error
	RecentEvents(ctx context.Context, limit int) ([]models.TriggerEvent, error)
	ClearEvents(ctx context.Context) error
	SaveConfig(ctx context.Context, threshold float64, enabled bool) error
	LoadConfig(ctx context.Context) (threshold float64, enabled, ok bool, err error)
}

// Monitor holds the single live trigger configuration and writes events
// through the store. The configuration is in-memory and guarded by a
// mutex: a process restart brings the monitor back Unconfigured even
// though Configure persists a copy (RestoreConfig re-loads it on
// demand; the wiring layer deliberately does not call it — see the
// repository design notes).
type Monitor struct {
	store EventStore

	mu         sync.Mutex
	configured bool
	threshold  float64
	enabled    bool

	// notify, when set, receives every persisted event. Used to fan
	// events out to realtime subscribers; never blocks CheckValue.
	notify func(models.TriggerEvent)
}

// NewMonitor creates an unconfigured monitor over the event store.
func NewMonitor(store EventStore) *Monitor {
	return &Monitor{store: store}
}

// SetNotify installs the fan-out hook for newly persisted events.
func (m *Monitor) SetNotify(fn func(models.TriggerEvent)) {
	m.mu.Lock()
	m.notify = fn
	m.mu.Unlock()
}

// Configure replaces the current configuration wholesale. It is
// idempotent and always last-write-wins; concurrent calls serialize on
// the monitor's lock so CheckValue can never observe a torn config.
// The configuration is also persisted, still under the lock, so the
// stored blob always matches whichever call won in memory.
func (m *Monitor) Configure(ctx context.Context, threshold float64, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configured = true
	m.threshold = threshold
	m.enabled = enabled
	return m.store.SaveConfig(ctx, threshold, enabled)
}

// RestoreConfig loads the persisted configuration into the live one.
// Returns false when nothing was ever persisted.
func (m *Monitor) RestoreConfig(ctx context.Context) (bool, error) {
	threshold, enabled, ok, err := m.store.LoadConfig(ctx)
	if err != nil || !ok {
		return false, err
	}

	m.mu.Lock()
	m.configured = true
	m.threshold = threshold
	m.enabled = enabled
	m.mu.Unlock()
	return true, nil
}

// Config returns the current threshold, enabled flag, and whether the
// monitor has been configured at all.
func (m *Monitor) Config() (threshold float64, enabled, configured bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold, m.enabled, m.configured
}

// CheckValue compares a value against the configuration. It returns
// nil (no event, no write) when the monitor is disabled or the value
// does not strictly exceed the threshold — a value exactly equal to
// the threshold never triggers. Otherwise it persists and returns a
// new event carrying the threshold copied at this moment.
func (m *Monitor) CheckValue(ctx context.Context, value float64) (*models.TriggerEvent, error) {
	m.mu.Lock()
	if !m.configured {
		m.mu.Unlock()
		return nil, sigerrors.NewInvalidParameters([]string{"trigger is not configured"})
	}
	threshold := m.threshold
	enabled := m.enabled
	notify := m.notify
	m.mu.Unlock()

	if !enabled || value <= threshold {
		return nil, nil
	}

	event := &models.TriggerEvent{
		Value:     value,
		Threshold: threshold,
		Timestamp: time.Now(),
	}
	// The store write runs outside the lock; only the config snapshot
	// needs mutual exclusion.
	if err := m.store.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	if notify != nil {
		notify(*event)
	}
	return event, nil
}

// GetEvents returns up to limit events, most recent timestamp first,
// ties broken by insertion order.
func (m *Monitor) GetEvents(ctx context.Context, limit int) ([]models.TriggerEvent, error) {
	return m.store.RecentEvents(ctx, limit)
}

// ClearEvents removes every recorded event. Individual deletion does
// not exist; this is the only removal path.
func (m *Monitor) ClearEvents(ctx context.Context) error {
	return m.store.ClearEvents(ctx)
}
