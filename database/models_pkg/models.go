package models

import "time"

// SignalType identifies the waveform family of a generated signal.
type SignalType string

// Supported waveform types.
const (
	SignalSine     SignalType = "sine"
	SignalSquare   SignalType = "square"
	SignalSawtooth SignalType = "sawtooth"
	SignalNoise    SignalType = "noise"
)

// Valid reports whether t is one of the supported waveform types.
func (t SignalType) Valid() bool {
	switch t {
	case SignalSine, SignalSquare, SignalSawtooth, SignalNoise:
		return true
	}
	return false
}

// GenerationParams captures the closed-form parameters a signal was
// generated with. They are immutable provenance: once a signal is saved
// these values never change.
type GenerationParams struct {
	Frequency  float64 `json:"frequency"` // Hz
	Amplitude  float64 `json:"amplitude"`
	Phase      float64 `json:"phase"`       // radians, [-2π, 2π]
	Duration   float64 `json:"duration"`    // seconds
	SampleRate float64 `json:"sample_rate"` // Hz
}

// Operation selects a processing transformation.
type Operation string

// Supported processing operations.
const (
	OpLowPass  Operation = "lowpass"
	OpHighPass Operation = "highpass"
	OpBandPass Operation = "bandpass"
	OpGain     Operation = "gain"
)

// Valid reports whether op is a supported processing operation.
func (op Operation) Valid() bool {
	switch op {
	case OpLowPass, OpHighPass, OpBandPass, OpGain:
		return true
	}
	return false
}

// ProcessingParams is a tagged parameter set: Operation selects the
// transformation and only the fields that operation needs are populated.
// A nil required field is a validation error, never a silent default.
//
// Field usage per operation:
//   - lowpass/highpass: CutoffFrequency (required), Order (optional, >= 1)
//   - bandpass:         LowCutoff + HighCutoff (required), Order (optional)
//   - gain:             Gain (required, > 0)
type ProcessingParams struct {
	Operation       Operation `json:"operation"`
	CutoffFrequency *float64  `json:"cutoff_frequency,omitempty"`
	LowCutoff       *float64  `json:"low_cutoff,omitempty"`
	HighCutoff      *float64  `json:"high_cutoff,omitempty"`
	Order           *int      `json:"order,omitempty"`
	Gain            *float64  `json:"gain,omitempty"`
}

// ResolvedOrder returns the filter order to run with, defaulting to 1
// when the caller did not specify one.
func (p ProcessingParams) ResolvedOrder() int {
	if p.Order == nil || *p.Order < 1 {
		return 1
	}
	return *p.Order
}

// CompleteSignal is the fully hydrated view of a stored signal: the
// descriptive metadata joined with the bulk sample payload. A derived
// signal carries a non-empty OriginalSignalID plus the ProcessingParams
// that produced it; an original carries neither.
type CompleteSignal struct {
	ID               string            `json:"id"`
	SignalType       SignalType        `json:"signal_type"`
	Samples          []float64         `json:"samples"`
	Timestamps       []float64         `json:"timestamps"` // seconds, same length as Samples
	GenerationParams GenerationParams  `json:"generation_params"`
	CreatedAt        time.Time         `json:"created_at"`
	OriginalSignalID string            `json:"original_signal_id,omitempty"`
	ProcessingParams *ProcessingParams `json:"processing_params,omitempty"`
}

// IsDerived reports whether the signal was produced by processing
// another signal rather than by direct generation.
func (s *CompleteSignal) IsDerived() bool {
	return s.OriginalSignalID != ""
}

// SignalMeta is the descriptive metadata row persisted to Postgres.
// The bulk samples/timestamps payload lives in the sample store under
// the same ID; SampleCount is denormalized here so listings and
// integrity checks do not need to touch the sample store.
//
// A row with a non-nil OriginalSignalID describes a derived signal and
// carries the processing parameter columns; for originals those columns
// are all NULL.
type SignalMeta struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	SignalType       string    `gorm:"size:16;not null" json:"signal_type"`
	SampleCount      int       `gorm:"not null" json:"sample_count"`
	Frequency        float64   `gorm:"type:decimal(15,6)" json:"frequency"`
	Amplitude        float64   `gorm:"type:decimal(15,6)" json:"amplitude"`
	Phase            float64   `gorm:"type:decimal(15,6)" json:"phase"`
	Duration         float64   `gorm:"type:decimal(15,6)" json:"duration"`
	SampleRate       float64   `gorm:"type:decimal(15,6)" json:"sample_rate"`
	CreatedAt        time.Time `gorm:"index;not null" json:"created_at"`
	OriginalSignalID *string   `gorm:"size:36;index" json:"original_signal_id,omitempty"`
	Operation        *string   `gorm:"size:16" json:"operation,omitempty"`
	CutoffFrequency  *float64  `gorm:"type:decimal(15,6)" json:"cutoff_frequency,omitempty"`
	LowCutoff        *float64  `gorm:"type:decimal(15,6)" json:"low_cutoff,omitempty"`
	HighCutoff       *float64  `gorm:"type:decimal(15,6)" json:"high_cutoff,omitempty"`
	FilterOrder      *int      `json:"filter_order,omitempty"`
	GainFactor       *float64  `gorm:"type:decimal(15,6)" json:"gain_factor,omitempty"`
}

// TableName specifies the table name for SignalMeta
func (SignalMeta) TableName() string {
	return "signal_metadata"
}

// IsDerived reports whether the metadata row describes a derived signal.
func (m *SignalMeta) IsDerived() bool {
	return m.OriginalSignalID != nil && *m.OriginalSignalID != ""
}

// ProcessingParams reconstructs the tagged parameter set from the
// flattened columns. Returns nil for original (non-derived) rows.
func (m *SignalMeta) ProcessingParams() *ProcessingParams {
	if !m.IsDerived() || m.Operation == nil {
		return nil
	}
	return &ProcessingParams{
		Operation:       Operation(*m.Operation),
		CutoffFrequency: m.CutoffFrequency,
		LowCutoff:       m.LowCutoff,
		HighCutoff:      m.HighCutoff,
		Order:           m.FilterOrder,
		Gain:            m.GainFactor,
	}
}

// TriggerEvent records a single threshold crossing. Threshold is the
// configured threshold copied at the moment of triggering, not a live
// reference to the current configuration. Events are append-only; the
// only removal path is a bulk clear.
//
// ID is an autoincrement column so events sharing a timestamp keep a
// stable insertion order for tie-breaking.
type TriggerEvent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Value     float64   `gorm:"type:decimal(20,6);not null" json:"value"`
	Threshold float64   `gorm:"type:decimal(20,6);not null" json:"threshold"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// TableName specifies the table name for TriggerEvent
func (TriggerEvent) TableName() string {
	return "trigger_events"
}

// TriggerConfig is the persisted copy of the current trigger
// configuration. Exactly one row (ID = 1) is kept; each Configure call
// overwrites it in place and no history of past configurations is
// retained.
type TriggerConfig struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Threshold float64   `gorm:"type:decimal(20,6);not null" json:"threshold"`
	Enabled   bool      `gorm:"not null" json:"enabled"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for TriggerConfig
func (TriggerConfig) TableName() string {
	return "trigger_config"
}
