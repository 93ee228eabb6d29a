// Package signals holds the metadata repository for signal records.
package signals

import (
	"context"
	"errors"

	models "signal-studio/database/models_pkg"
	"signal-studio/sigerrors"

	"gorm.io/gorm"
)

// Repository handles database operations for signal metadata rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new signals repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveMeta persists a signal metadata row.
func (r *Repository) SaveMeta(ctx context.Context, meta *models.SignalMeta) error {
	if err := r.db.WithContext(ctx).Create(meta).Error; err != nil {
		return sigerrors.WrapStoreError("metadata", "SaveMeta", err)
	}
	return nil
}

// GetMeta retrieves a metadata row by signal id. Returns a NotFoundError
// when no row exists; any other failure is a StoreUnavailableError.
func (r *Repository) GetMeta(ctx context.Context, id string) (*models.SignalMeta, error) {
	var meta models.SignalMeta
	err := r.db.WithContext(ctx).First(&meta, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, sigerrors.NewNotFound("signal", id)
	}
	if err != nil {
		return nil, sigerrors.WrapStoreError("metadata", "GetMeta", err)
	}
	return &meta, nil
}

// ListRecent retrieves up to limit metadata rows, most recently created
// first. Insertion order (id) breaks CreatedAt ties so the ordering is
// stable regardless of storage defaults.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.SignalMeta, error) {
	var metas []models.SignalMeta
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&metas).Error; err != nil {
		return nil, sigerrors.WrapStoreError("metadata", "ListRecent", err)
	}
	return metas, nil
}

// HasDerived reports whether any stored signal references id as its
// original.
func (r *Repository) HasDerived(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SignalMeta{}).
		Where("original_signal_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, sigerrors.WrapStoreError("metadata", "HasDerived", err)
	}
	return count > 0, nil
}

// DeleteMeta removes a metadata row by id.
func (r *Repository) DeleteMeta(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.SignalMeta{}, "id = ?", id).Error; err != nil {
		return sigerrors.WrapStoreError("metadata", "DeleteMeta", err)
	}
	return nil
}

// ExistingIDs returns the subset of ids that have a metadata row. Used
// by the orphan sweep to find sample payloads whose metadata write
// never landed.
func (r *Repository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	present := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return present, nil
	}

	var found []string
	err := r.db.WithContext(ctx).
		Model(&models.SignalMeta{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, sigerrors.WrapStoreError("metadata", "ExistingIDs", err)
	}

	for _, id := range found {
		present[id] = true
	}
	return present, nil
}
