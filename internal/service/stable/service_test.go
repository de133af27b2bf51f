package stable_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/service/stable"
)

func setupService(t *testing.T) (*stable.Service, *gorm.DB, db.User, db.User) {
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

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, nil, logger)

	u1 := db.User{Username: "owner1", Email: "o1@test.com", PasswordHash: "x"}
	u2 := db.User{Username: "owner2", Email: "o2@test.com", PasswordHash: "x"}
	require.NoError(t, dbase.Create(&u1).Error)
	require.NoError(t, dbase.Create(&u2).Error)

	return stable.NewService(appCtx), dbase, u1, u2
}

func validInput() stable.HorseInput {
	return stable.HorseInput{
		Name:        "Thunder",
		Breed:       "Mustang",
		Age:         "7",
		Color:       "black",
		Description: "Fast and friendly.",
		Location:    "Montana",
		Personality: "bold, gentle, , curious ,",
	}
}

func TestCreate_ParsesFormPayload(t *testing.T) {
	ctx := context.Background()
	svc, _, owner, _ := setupService(t)

	horse, err := svc.Create(ctx, owner.ID, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, horse.ID)
	assert.Equal(t, 7, horse.Age)
	assert.Equal(t, owner.ID, horse.OwnerID)
	// trimmed, empties dropped
	assert.Equal(t, db.StringList{"bold", "gentle", "curious"}, horse.Personality)
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, owner, _ := setupService(t)

	var invalid *svcErr.InvalidArgumentError

	in := validInput()
	in.Name = "  "
	_, err := svc.Create(ctx, owner.ID, in)
	assert.ErrorAs(t, err, &invalid)

	in = validInput()
	in.Age = "seven"
	_, err = svc.Create(ctx, owner.ID, in)
	assert.ErrorAs(t, err, &invalid)

	in = validInput()
	in.Age = "80"
	_, err = svc.Create(ctx, owner.ID, in)
	assert.ErrorAs(t, err, &invalid)

	in = validInput()
	in.Age = "-1"
	_, err = svc.Create(ctx, owner.ID, in)
	assert.ErrorAs(t, err, &invalid)
}

func TestUpdate_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	svc, _, owner, stranger := setupService(t)

	horse, err := svc.Create(ctx, owner.ID, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Stolen"
	_, err = svc.Update(ctx, stranger.ID, horse.ID, in)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)

	in.Name = "Thunderbolt"
	updated, err := svc.Update(ctx, owner.ID, horse.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Thunderbolt", updated.Name)
}

func TestDelete_RemovesFromListings(t *testing.T) {
	ctx := context.Background()
	svc, _, owner, stranger := setupService(t)

	horse, err := svc.Create(ctx, owner.ID, validInput())
	require.NoError(t, err)

	// someone else cannot delete it
	assert.ErrorIs(t, svc.Delete(ctx, stranger.ID, horse.ID), svcErr.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, owner.ID, horse.ID))

	mine, err := svc.ListMine(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	// deleting a missing horse is not found
	err = svc.Delete(ctx, owner.ID, horse.ID)
	assert.Error(t, err)
}

func TestParsePersonality(t *testing.T) {
	assert.Equal(t, db.StringList{}, stable.ParsePersonality(""))
	assert.Equal(t, db.StringList{"calm"}, stable.ParsePersonality(" calm "))
	assert.Equal(t, db.StringList{"a", "b"}, stable.ParsePersonality("a,,b,"))
}
