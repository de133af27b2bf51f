package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stablemate/stablemate/internal/db"
)

// MatchRepository provides data access methods for matches between horses.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// MatchWithHorses is a match joined with both horse rows.
type MatchWithHorses struct {
	Match  db.Match `json:"match"`
	Horse1 db.Horse `json:"horse1"`
	Horse2 db.Horse `json:"horse2"`
}

// CreateIfMutual atomically checks reciprocity and creates the match.
//
// Behavior:
//   - Runs in a single transaction: re-reads the reverse decision and
//     inserts the normalized pair with ON CONFLICT DO NOTHING.
//   - The unique index on (horse1_id, horse2_id) plus pair
//     normalization guarantees at most one match per pair even when
//     two reciprocal likes race each other.
//   - Returns (match, true) when a mutual match exists after the call,
//     whether this invocation created it or a concurrent one did.
func (r *MatchRepository) CreateIfMutual(
	ctx context.Context,
	actorHorseID, targetHorseID string,
) (*db.Match, bool, error) {
	var match db.Match
	mutual := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Decision{}).
			Where("actor_horse_id = ? AND target_horse_id = ? AND liked = ?", targetHorseID, actorHorseID, true).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		mutual = true

		h1, h2 := db.NormalizePair(actorHorseID, targetHorseID)
		candidate := db.Match{
			Horse1ID: h1,
			Horse2ID: h2,
			Status:   db.MatchStatusMatched,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "horse1_id"}, {Name: "horse2_id"}},
			DoNothing: true,
		}).Create(&candidate).Error; err != nil {
			return err
		}

		// read back: the insert may have been a no-op if the pair
		// already matched
		return tx.Where("horse1_id = ? AND horse2_id = ?", h1, h2).First(&match).Error
	})
	if err != nil {
		return nil, false, err
	}
	if !mutual {
		return nil, false, nil
	}
	return &match, true, nil
}

// GetByID returns a match by id, or gorm.ErrRecordNotFound.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*db.Match, error) {
	var match db.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns matched pairs where either horse belongs to the
// user, joined with both horse rows, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]MatchWithHorses, error) {
	owned := r.db.Model(&db.Horse{}).Select("id").Where("owner_id = ?", userID)

	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("status = ?", db.MatchStatusMatched).
		Where("horse1_id IN (?) OR horse2_id IN (?)", owned, owned).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		ids = append(ids, m.Horse1ID, m.Horse2ID)
	}
	horses, err := NewHorseRepository(r.db).GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]MatchWithHorses, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchWithHorses{
			Match:  m,
			Horse1: horses[m.Horse1ID],
			Horse2: horses[m.Horse2ID],
		})
	}
	return out, nil
}

// IsParty reports whether the user owns either horse in the match.
// Returns gorm.ErrRecordNotFound when the match does not exist.
func (r *MatchRepository) IsParty(ctx context.Context, matchID string, userID uint64) (bool, error) {
	match, err := r.GetByID(ctx, matchID)
	if err != nil {
		return false, err
	}

	var count int64
	err = r.db.WithContext(ctx).
		Model(&db.Horse{}).
		Where("id IN ? AND owner_id = ?", []string{match.Horse1ID, match.Horse2ID}, userID).
		Count(&count).Error
	return count > 0, err
}
