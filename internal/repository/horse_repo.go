package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/db"
)

// HorseRepository provides data access methods for horse profiles.
type HorseRepository struct {
	db *gorm.DB
}

func NewHorseRepository(database *gorm.DB) *HorseRepository {
	return &HorseRepository{db: database}
}

func (r *HorseRepository) Create(ctx context.Context, horse *db.Horse) error {
	return r.db.WithContext(ctx).Create(horse).Error
}

// GetByID returns a horse by id, or gorm.ErrRecordNotFound.
func (r *HorseRepository) GetByID(ctx context.Context, id string) (*db.Horse, error) {
	var horse db.Horse
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&horse).Error; err != nil {
		return nil, err
	}
	return &horse, nil
}

// ListByOwner returns all horses owned by the given user, newest first.
func (r *HorseRepository) ListByOwner(ctx context.Context, ownerID uint64) ([]db.Horse, error) {
	var horses []db.Horse
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&horses).Error
	return horses, err
}

// ListCandidates returns horses owned by anyone except excludeOwner,
// newest first, capped at limit. The feed is exhausted when fewer than
// limit rows come back.
func (r *HorseRepository) ListCandidates(ctx context.Context, excludeOwner uint64, limit int) ([]db.Horse, error) {
	var horses []db.Horse
	err := r.db.WithContext(ctx).
		Where("owner_id <> ?", excludeOwner).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&horses).Error
	return horses, err
}

// Update persists the mutable profile fields of a horse.
func (r *HorseRepository) Update(ctx context.Context, horse *db.Horse) error {
	return r.db.WithContext(ctx).Model(horse).
		Select("name", "breed", "age", "color", "description", "image_url", "location", "personality").
		Updates(horse).Error
}

// Delete removes a horse row by id.
func (r *HorseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Horse{}).Error
}

// OwnedBy reports whether the horse exists and belongs to the user.
// Returns gorm.ErrRecordNotFound when the horse does not exist.
func (r *HorseRepository) OwnedBy(ctx context.Context, horseID string, userID uint64) (bool, error) {
	horse, err := r.GetByID(ctx, horseID)
	if err != nil {
		return false, err
	}
	return horse.OwnerID == userID, nil
}

// GetMany returns the horses for a set of ids keyed by id.
func (r *HorseRepository) GetMany(ctx context.Context, ids []string) (map[string]db.Horse, error) {
	byID := make(map[string]db.Horse, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var horses []db.Horse
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&horses).Error; err != nil {
		return nil, err
	}
	for _, h := range horses {
		byID[h.ID] = h
	}
	return byID, nil
}
