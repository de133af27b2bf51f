package explore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/repository"
)

// DefaultFeedLimit caps the discovery feed page size.
const DefaultFeedLimit = 20

// Swipe actions as stored in decisions.
const (
	ActionLike = "like"
	ActionPass = "pass"
)

// Service implements the discovery feed and the swipe/match engine.
type Service struct {
	appCtx    *app.AppContext
	horses    *repository.HorseRepository
	decisions *repository.DecisionRepository
	matches   *repository.MatchRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		horses:    repository.NewHorseRepository(appCtx.DB),
		decisions: repository.NewDecisionRepository(appCtx.DB),
		matches:   repository.NewMatchRepository(appCtx.DB),
	}
}

// Candidates returns the discovery feed for a user: horses owned by
// anyone else, newest first, at most DefaultFeedLimit. An empty result
// is the terminal "no more candidates" state; there is no retry.
func (s *Service) Candidates(ctx context.Context, userID uint64, limit int) ([]db.Horse, error) {
	if limit <= 0 || limit > DefaultFeedLimit {
		limit = DefaultFeedLimit
	}

	s.appCtx.Logger.Debug("loading candidates", "user_id", userID, "limit", limit)
	return s.horses.ListCandidates(ctx, userID, limit)
}

// SwipeResult reports whether a swipe completed a mutual like.
type SwipeResult struct {
	Mutual bool      `json:"mutual"`
	Match  *db.Match `json:"match,omitempty"`
}

// Swipe records a like/pass by one of the caller's horses on a target.
//
// Behavior:
//   - The acting horse must belong to the caller; acting through
//     someone else's horse is ErrForbidden.
//   - Swiping on your own horse, or a horse on itself, is rejected.
//   - The decision is upserted (composite PK), so repeat swipes
//     overwrite rather than accumulate.
//   - The target's cached like count is adjusted.
//   - On a like, reciprocity is re-checked and the match created
//     inside one transaction; concurrent reciprocal likes still yield
//     exactly one match row.
func (s *Service) Swipe(ctx context.Context, userID uint64, actorHorseID, targetHorseID, action string) (*SwipeResult, error) {
	if action != ActionLike && action != ActionPass {
		return nil, svcErr.InvalidArgument("action must be %q or %q", ActionLike, ActionPass)
	}
	if actorHorseID == targetHorseID {
		return nil, svcErr.InvalidArgument("a horse cannot swipe on itself")
	}

	owned, err := s.horses.OwnedBy(ctx, actorHorseID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.InvalidArgument("unknown acting horse")
		}
		return nil, err
	}
	if !owned {
		return nil, svcErr.ErrForbidden
	}

	target, err := s.horses.GetByID(ctx, targetHorseID)
	if err != nil {
		return nil, err
	}
	if target.OwnerID == userID {
		return nil, svcErr.InvalidArgument("cannot swipe on your own horse")
	}

	liked := action == ActionLike
	if err := s.decisions.CreateOrUpdateDecision(ctx, actorHorseID, targetHorseID, liked); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("decision recorded",
		"actor_horse", actorHorseID, "target_horse", targetHorseID, "liked", liked)

	// update cache
	key := s.appCtx.RedisCache.KeyForLikeCount(targetHorseID)
	if liked {
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	} else {
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
	}
	_ = s.appCtx.RedisCache.Expire(ctx, key, time.Hour)

	result := &SwipeResult{}
	if liked {
		match, mutual, err := s.matches.CreateIfMutual(ctx, actorHorseID, targetHorseID)
		if err != nil {
			return nil, err
		}
		result.Mutual = mutual
		result.Match = match
		if mutual {
			s.appCtx.Logger.Info("mutual match",
				"match_id", match.ID, "horse1", match.Horse1ID, "horse2", match.Horse2ID)
		}
	}

	return result, nil
}

// LikedCount returns how many horses liked the given horse of the
// caller's. Cache-first:
//  1. Attempts Redis (likes:count:<horse>), refreshing the TTL on a hit.
//  2. On a miss, falls back to the DB and repopulates the cache.
func (s *Service) LikedCount(ctx context.Context, userID uint64, horseID string) (int64, error) {
	if err := s.requireOwnership(ctx, userID, horseID); err != nil {
		return 0, err
	}

	if n, ok, err := s.appCtx.RedisCache.GetLikeCount(ctx, horseID); err == nil && ok {
		return n, nil
	}

	count, err := s.decisions.CountLikers(ctx, horseID)
	if err != nil {
		return 0, err
	}
	if err := s.appCtx.RedisCache.SetLikeCount(ctx, horseID, count); err != nil {
		s.appCtx.Logger.Warn("failed to cache like count", "horse_id", horseID, "err", err)
	}
	return count, nil
}

// Liker is an admirer entry: the horse that liked yours and when.
type Liker struct {
	Horse   db.Horse  `json:"horse"`
	LikedAt time.Time `json:"liked_at"`
}

// LikersPage is one page of admirers plus the cursor for the next.
type LikersPage struct {
	Likers    []Liker `json:"likers"`
	NextToken *string `json:"next_token,omitempty"`
}

// Likers lists the horses that liked the given horse of the caller's,
// most recent first, with cursor pagination.
func (s *Service) Likers(ctx context.Context, userID uint64, horseID string, paginationToken *string, limit int) (*LikersPage, error) {
	if err := s.requireOwnership(ctx, userID, horseID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	decisions, nextToken, err := s.decisions.GetLikers(ctx, horseID, paginationToken, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(decisions))
	for _, d := range decisions {
		ids = append(ids, d.ActorHorseID)
	}
	horses, err := s.horses.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	page := &LikersPage{NextToken: nextToken, Likers: make([]Liker, 0, len(decisions))}
	for _, d := range decisions {
		horse, ok := horses[d.ActorHorseID]
		if !ok {
			// liker was deleted since the decision was recorded
			continue
		}
		page.Likers = append(page.Likers, Liker{Horse: horse, LikedAt: d.UpdatedAt})
	}
	return page, nil
}

func (s *Service) requireOwnership(ctx context.Context, userID uint64, horseID string) error {
	owned, err := s.horses.OwnedBy(ctx, horseID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return svcErr.ErrForbidden
	}
	return nil
}
