// Package triggers holds the repository for trigger events and the
// persisted trigger configuration blob.
package triggers

import (
	"context"
	"errors"
	"time"

	models "signal-studio/database/models_pkg"
	"signal-studio/sigerrors"

	"gorm.io/gorm"
)

// configRowID is the fixed primary key of the single trigger_config row.
const configRowID = 1

// Repository handles database operations for trigger events and the
// current trigger configuration.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new triggers repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AppendEvent persists a new trigger event. Events are append-only.
func (r *Repository) AppendEvent(ctx context.Context, event *models.TriggerEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return sigerrors.WrapStoreError("metadata", "AppendEvent", err)
	}
	return nil
}

// RecentEvents retrieves up to limit events ordered most recent
// timestamp first; equal timestamps keep insertion order, earliest
// appended first (id ascending). The ORDER BY is explicit: the
// contract must hold regardless of the storage layer's default row
// ordering.
func (r *Repository) RecentEvents(ctx context.Context, limit int) ([]models.TriggerEvent, error) {
	var events []models.TriggerEvent
	query := r.db.WithContext(ctx).Order("timestamp DESC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, sigerrors.WrapStoreError("metadata", "RecentEvents", err)
	}
	return events, nil
}

// ClearEvents removes all trigger events. This is the only removal
// path; individual events are never deleted.
func (r *Repository) ClearEvents(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.TriggerEvent{}).Error; err != nil {
		return sigerrors.WrapStoreError("metadata", "ClearEvents", err)
	}
	return nil
}

// SaveConfig overwrites the single persisted configuration row.
func (r *Repository) SaveConfig(ctx context.Context, threshold float64, enabled bool) error {
	cfg := models.TriggerConfig{
		ID:        configRowID,
		Threshold: threshold,
		Enabled:   enabled,
		UpdatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Save(&cfg).Error; err != nil {
		return sigerrors.WrapStoreError("metadata", "SaveConfig", err)
	}
	return nil
}

// LoadConfig reads the persisted configuration row. ok is false when no
// configuration has ever been saved.
func (r *Repository) LoadConfig(ctx context.Context) (threshold float64, enabled, ok bool, err error) {
	var cfg models.TriggerConfig
	dbErr := r.db.WithContext(ctx).First(&cfg, "id = ?", configRowID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return 0, false, false, nil
	}
	if dbErr != nil {
		return 0, false, false, sigerrors.WrapStoreError("metadata", "LoadConfig", dbErr)
	}
	return cfg.Threshold, cfg.Enabled, true, nil
}
