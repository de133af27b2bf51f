package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/utils/pagination"
)

// DecisionRepository provides data access methods for the Decision model.
// It encapsulates all queries related to likes/passes between horses.
type DecisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new repository bound to the given DB connection.
func NewDecisionRepository(database *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: database}
}

// CreateOrUpdateDecision inserts or updates a decision made by one horse
// about another.
//
// Behavior:
//   - If (actor_horse_id, target_horse_id) exists → the row is updated
//     with the new "liked" value.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures the overwrite guarantee: re-swiping never
//     produces duplicate decision rows.
func (r *DecisionRepository) CreateOrUpdateDecision(
	ctx context.Context,
	actorHorseID, targetHorseID string,
	liked bool,
) error {
	decision := db.Decision{
		ActorHorseID:  actorHorseID,
		TargetHorseID: targetHorseID,
		Liked:         liked,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_horse_id"}, {Name: "target_horse_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
		}).
		Create(&decision).Error
}

// GetLikers returns decisions by horses that liked the given target.
//
// Behavior:
//   - Only rows where target_horse_id = X and liked = true.
//   - Ordered by updated_at DESC, actor_horse_id DESC.
//   - Cursor-based pagination via paginationToken: the page carries
//     limit rows and a token when more remain.
func (r *DecisionRepository) GetLikers(
	ctx context.Context,
	targetHorseID string,
	paginationToken *string,
	limit int,
) ([]db.Decision, *string, error) {
	var decisions []db.Decision

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.InvalidArgument("invalid pagination token")
	}

	query := r.db.WithContext(ctx).
		Table("decisions d").
		Where("d.target_horse_id = ? AND d.liked = ?", targetHorseID, true).
		Order("d.updated_at DESC, d.actor_horse_id DESC").
		Limit(limit + 1)

	if cursor.HorseID != "" && cursor.UpdatedUnix > 0 {
		ts := time.UnixMilli(cursor.UpdatedUnix)
		query = query.Where(
			"(d.updated_at < ? OR (d.updated_at = ? AND d.actor_horse_id < ?))",
			ts, ts, cursor.HorseID,
		)
	}

	if err := query.Find(&decisions).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(decisions) > limit {
		last := decisions[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			HorseID:     last.ActorHorseID,
			UpdatedUnix: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		decisions = decisions[:limit]
	}

	return decisions, nextToken, nil
}

// CountLikers returns how many horses liked the given target.
// Used in conjunction with the Redis cache (DB is the fallback).
func (r *DecisionRepository) CountLikers(
	ctx context.Context,
	targetHorseID string,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Decision{}).
		Where("target_horse_id = ? AND liked = ?", targetHorseID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HasLiked checks whether one horse has liked another. This is the
// reciprocity lookup the swipe engine runs before creating a match.
func (r *DecisionRepository) HasLiked(
	ctx context.Context,
	actorHorseID, targetHorseID string,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Decision{}).
		Where("actor_horse_id = ? AND target_horse_id = ? AND liked = ?", actorHorseID, targetHorseID, true).
		Count(&count).Error
	return count > 0, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
