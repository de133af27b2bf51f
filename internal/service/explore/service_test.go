package explore_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/cache"
	"github.com/stablemate/stablemate/internal/config"
	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/service/explore"
)

//
// Test helpers
//

type fixture struct {
	svc   *explore.Service
	gdb   *gorm.DB
	users [3]db.User
	// horses[i] belongs to users[i]
	horses [3]db.Horse
}

// setupService spins up an in-memory SQLite DB, applies migrations,
// seeds three users with one horse each, starts a miniredis, and wires
// everything into an explore Service. Each test gets its own isolated
// DB + Redis.
func setupService(t *testing.T) *fixture {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests

	appCtx := app.New(dbase, redisCache, logger)

	f := &fixture{svc: explore.NewService(appCtx), gdb: dbase}
	for i := 0; i < 3; i++ {
		f.users[i] = db.User{
			Username:     fmt.Sprintf("user%d", i+1),
			Email:        fmt.Sprintf("u%d@test.com", i+1),
			PasswordHash: "x",
		}
		require.NoError(t, dbase.Create(&f.users[i]).Error)

		f.horses[i] = db.Horse{
			Name:    fmt.Sprintf("Horse %d", i+1),
			Breed:   "Arabian",
			Age:     5,
			Color:   "bay",
			OwnerID: f.users[i].ID,
		}
		require.NoError(t, dbase.Create(&f.horses[i]).Error)
	}
	return f
}

//
// Tests
//

func TestCandidates_ExcludesOwnHorses(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	horses, err := f.svc.Candidates(ctx, f.users[0].ID, 0)
	require.NoError(t, err)

	require.Len(t, horses, 2)
	for _, h := range horses {
		assert.NotEqual(t, f.users[0].ID, h.OwnerID)
	}
}

func TestCandidates_CappedAtFeedLimit(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	for i := 0; i < 30; i++ {
		h := db.Horse{Name: "Extra", Breed: "Mustang", Age: 4, Color: "grey", OwnerID: f.users[1].ID}
		require.NoError(t, f.gdb.Create(&h).Error)
	}

	horses, err := f.svc.Candidates(ctx, f.users[0].ID, 100)
	require.NoError(t, err)
	assert.Len(t, horses, explore.DefaultFeedLimit)
}

// TestSwipe_MutualCreatesExactlyOneMatch is the key round-trip
// property: reciprocal likes in either order leave exactly one
// matched row behind.
func TestSwipe_MutualCreatesExactlyOneMatch(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	// horse1 likes horse2: no match yet
	res, err := f.svc.Swipe(ctx, f.users[0].ID, f.horses[0].ID, f.horses[1].ID, explore.ActionLike)
	require.NoError(t, err)
	assert.False(t, res.Mutual)
	assert.Nil(t, res.Match)

	// horse2 likes horse1 back: match
	res, err = f.svc.Swipe(ctx, f.users[1].ID, f.horses[1].ID, f.horses[0].ID, explore.ActionLike)
	require.NoError(t, err)
	assert.True(t, res.Mutual)
	require.NotNil(t, res.Match)
	assert.Equal(t, db.MatchStatusMatched, res.Match.Status)

	// re-swiping does not create a second match
	res2, err := f.svc.Swipe(ctx, f.users[0].ID, f.horses[0].ID, f.horses[1].ID, explore.ActionLike)
	require.NoError(t, err)
	assert.True(t, res2.Mutual)
	assert.Equal(t, res.Match.ID, res2.Match.ID)

	var count int64
	f.gdb.Model(&db.Match{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSwipe_PassNeverMatches(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Swipe(ctx, f.users[0].ID, f.horses[0].ID, f.horses[1].ID, explore.ActionLike)
	require.NoError(t, err)

	res, err := f.svc.Swipe(ctx, f.users[1].ID, f.horses[1].ID, f.horses[0].ID, explore.ActionPass)
	require.NoError(t, err)
	assert.False(t, res.Mutual)

	var count int64
	f.gdb.Model(&db.Match{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSwipe_RejectsForeignActorHorse(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	// user1 trying to swipe with user2's horse
	_, err := f.svc.Swipe(ctx, f.users[0].ID, f.horses[1].ID, f.horses[2].ID, explore.ActionLike)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)
}

func TestSwipe_RejectsOwnTargetAndBadAction(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	mine := db.Horse{Name: "Second", Breed: "Friesian", Age: 3, Color: "black", OwnerID: f.users[0].ID}
	require.NoError(t, f.gdb.Create(&mine).Error)

	var invalid *svcErr.InvalidArgumentError

	_, err := f.svc.Swipe(ctx, f.users[0].ID, f.horses[0].ID, mine.ID, explore.ActionLike)
	assert.ErrorAs(t, err, &invalid)

	_, err = f.svc.Swipe(ctx, f.users[0].ID, f.horses[0].ID, f.horses[0].ID, explore.ActionLike)
	assert.ErrorAs(t, err, &invalid)

	_, err = f.svc.Swipe(ctx, f.users[0].ID, f.horses[0].ID, f.horses[1].ID, "superlike")
	assert.ErrorAs(t, err, &invalid)
}

func TestLikedCount_CacheFirst(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Swipe(ctx, f.users[1].ID, f.horses[1].ID, f.horses[0].ID, explore.ActionLike)
	require.NoError(t, err)
	_, err = f.svc.Swipe(ctx, f.users[2].ID, f.horses[2].ID, f.horses[0].ID, explore.ActionLike)
	require.NoError(t, err)

	// First call → cache (incremented by the swipes) or DB fallback
	count, err := f.svc.LikedCount(ctx, f.users[0].ID, f.horses[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Second call → cache
	count, err = f.svc.LikedCount(ctx, f.users[0].ID, f.horses[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// only the owner may ask
	_, err = f.svc.LikedCount(ctx, f.users[1].ID, f.horses[0].ID)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)
}

func TestLikers_ReturnsAdmirers(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.Swipe(ctx, f.users[1].ID, f.horses[1].ID, f.horses[0].ID, explore.ActionLike)
	require.NoError(t, err)
	_, err = f.svc.Swipe(ctx, f.users[2].ID, f.horses[2].ID, f.horses[0].ID, explore.ActionPass)
	require.NoError(t, err)

	page, err := f.svc.Likers(ctx, f.users[0].ID, f.horses[0].ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Likers, 1)
	assert.Equal(t, f.horses[1].ID, page.Likers[0].Horse.ID)
	assert.Nil(t, page.NextToken)
}
