package trigger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "signal-studio/database/models_pkg"
	"signal-studio/sigerrors"
	"signal-studio/testutil"
)

func newMonitor() (*Monitor, *testutil.FakeEventStore) {
	store := testutil.NewFakeEventStore()
	return NewMonitor(store), store
}

func TestCheckValueUnconfigured(t *testing.T) {
	m, store := newMonitor()

	_, err := m.CheckValue(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, sigerrors.IsInvalidParameters(err))
	assert.Equal(t, 0, store.EventCount())
}

func TestCheckValueBoundary(t *testing.T) {
	m, store := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 5.0, true))

	tests := []struct {
		name     string
		value    float64
		triggers bool
	}{
		{"below threshold", 4.9, false},
		{"exactly at threshold", 5.0, false},
		{"just above threshold", 5.0 + 1e-9, true},
		{"well above threshold", 5.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := store.EventCount()
			event, err := m.CheckValue(ctx, tt.value)
			require.NoError(t, err)

			if !tt.triggers {
				assert.Nil(t, event)
				assert.Equal(t, before, store.EventCount(), "no persistence write on a non-trigger")
				return
			}
			require.NotNil(t, event)
			assert.Equal(t, tt.value, event.Value)
			assert.Equal(t, 5.0, event.Threshold)
			assert.Equal(t, before+1, store.EventCount())
		})
	}
}

func TestCheckValueDisabled(t *testing.T) {
	m, store := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 5.0, false))

	event, err := m.CheckValue(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, event)
	assert.Equal(t, 0, store.EventCount())
}

func TestEventCarriesThresholdAtTriggerTime(t *testing.T) {
	m, _ := newMonitor()
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, 5.0, true))
	event, err := m.CheckValue(ctx, 6.0)
	require.NoError(t, err)
	require.NotNil(t, event)

	// Reconfigure; the stored event keeps the old threshold copy.
	require.NoError(t, m.Configure(ctx, 100.0, true))
	events, err := m.GetEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 5.0, events[0].Threshold)
}

func TestConfigureOverwritesWholesale(t *testing.T) {
	m, _ := newMonitor()
	ctx := context.Background()

	require.NoError(t, m.Configure(ctx, 5.0, true))
	require.NoError(t, m.Configure(ctx, 7.5, false))

	threshold, enabled, configured := m.Config()
	assert.True(t, configured)
	assert.Equal(t, 7.5, threshold)
	assert.False(t, enabled)
}

func TestGetEventsOrdering(t *testing.T) {
	m, store := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 0, true))

	// Insert with explicit timestamps to pin the ordering contract.
	base := time.Now()
	for i, v := range []float64{1, 2, 3} {
		require.NoError(t, store.AppendEvent(ctx, &models.TriggerEvent{
			Value:     v,
			Threshold: 0,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	events, err := m.GetEvents(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 3.0, events[0].Value, "most recent first")
	assert.Equal(t, 2.0, events[1].Value)
	assert.Equal(t, 1.0, events[2].Value)
}

func TestGetEventsTiesBrokenByInsertionOrder(t *testing.T) {
	m, store := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 0, true))

	ts := time.Now()
	for _, v := range []float64{1, 2, 3} {
		require.NoError(t, store.AppendEvent(ctx, &models.TriggerEvent{Value: v, Timestamp: ts}))
	}

	events, err := m.GetEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	// Same timestamp: insertion order is preserved, earliest first.
	assert.Equal(t, 1.0, events[0].Value)
	assert.Equal(t, 2.0, events[1].Value)
	assert.Equal(t, 3.0, events[2].Value)
}

func TestGetEventsLimit(t *testing.T) {
	m, _ := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 0, true))

	for i := 1; i <= 5; i++ {
		_, err := m.CheckValue(ctx, float64(i))
		require.NoError(t, err)
	}

	events, err := m.GetEvents(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestClearEvents(t *testing.T) {
	m, store := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 0, true))

	_, err := m.CheckValue(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, store.EventCount())

	require.NoError(t, m.ClearEvents(ctx))
	assert.Equal(t, 0, store.EventCount())
}

func TestRestoreConfig(t *testing.T) {
	store := testutil.NewFakeEventStore()

	first := NewMonitor(store)
	require.NoError(t, first.Configure(context.Background(), 9.5, true))

	// A fresh monitor (process restart) starts Unconfigured.
	second := NewMonitor(store)
	_, _, configured := second.Config()
	assert.False(t, configured)

	ok, err := second.RestoreConfig(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	threshold, enabled, configured := second.Config()
	assert.True(t, configured)
	assert.Equal(t, 9.5, threshold)
	assert.True(t, enabled)
}

func TestRestoreConfigWithoutPersistedBlob(t *testing.T) {
	m, _ := newMonitor()

	ok, err := m.RestoreConfig(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	_, _, configured := m.Config()
	assert.False(t, configured)
}

func TestNotifyReceivesPersistedEvents(t *testing.T) {
	m, _ := newMonitor()
	ctx := context.Background()

	var mu sync.Mutex
	var got []models.TriggerEvent
	m.SetNotify(func(e models.TriggerEvent) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	})

	require.NoError(t, m.Configure(ctx, 5, true))
	_, err := m.CheckValue(ctx, 4) // no event, no notify
	require.NoError(t, err)
	_, err = m.CheckValue(ctx, 6)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, 6.0, got[0].Value)
}

func TestConcurrentConfigureNeverTears(t *testing.T) {
	m, _ := newMonitor()
	ctx := context.Background()
	require.NoError(t, m.Configure(ctx, 0, true))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Configure(ctx, float64(i), i%2 == 0)
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.CheckValue(ctx, 1000)
		}()
	}
	wg.Wait()

	// Last write wins; whichever it was, the snapshot is coherent.
	threshold, _, configured := m.Config()
	assert.True(t, configured)
	assert.GreaterOrEqual(t, threshold, 0.0)
	assert.Less(t, threshold, 50.0)
}

func TestConcurrentConfigurePersistedMatchesLive(t *testing.T) {
	m, store := newMonitor()
	ctx := context.Background()

	// Saves happen under the monitor's lock, so the stored blob must
	// always track the live config, whichever writer won.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Configure(ctx, float64(i), i%2 == 0)
		}(i)
	}
	wg.Wait()

	liveThreshold, liveEnabled, configured := m.Config()
	require.True(t, configured)

	storedThreshold, storedEnabled, ok, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, liveThreshold, storedThreshold)
	assert.Equal(t, liveEnabled, storedEnabled)
}
