package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stablemate/stablemate/internal/db"
	"github.com/stablemate/stablemate/internal/repository"
)

func TestMessages_OrderedAndAppendedAtTail(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMessageRepository(dbase)

	match := &db.Match{Horse1ID: "horse-a", Horse2ID: "horse-b", Status: db.MatchStatusMatched}
	assert.NoError(t, dbase.Create(match).Error)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, content := range []string{"first", "second", "third"} {
		msg := &db.Message{
			MatchID:   match.ID,
			SenderID:  1,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		assert.NoError(t, repo.Create(ctx, msg))
	}

	messages, err := repo.ListByMatch(ctx, match.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt))
	}
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)

	// appending and re-listing includes the new message at the tail
	tail := &db.Message{
		MatchID:   match.ID,
		SenderID:  2,
		Content:   "fourth",
		CreatedAt: base.Add(3 * time.Second),
	}
	assert.NoError(t, repo.Create(ctx, tail))

	messages, err = repo.ListByMatch(ctx, match.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 4)
	assert.Equal(t, "fourth", messages[3].Content)
}

func TestMessages_ScopedToMatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMessageRepository(dbase)

	m1 := &db.Match{Horse1ID: "a", Horse2ID: "b", Status: db.MatchStatusMatched}
	m2 := &db.Match{Horse1ID: "c", Horse2ID: "d", Status: db.MatchStatusMatched}
	assert.NoError(t, dbase.Create(m1).Error)
	assert.NoError(t, dbase.Create(m2).Error)

	assert.NoError(t, repo.Create(ctx, &db.Message{MatchID: m1.ID, SenderID: 1, Content: "in m1"}))
	assert.NoError(t, repo.Create(ctx, &db.Message{MatchID: m2.ID, SenderID: 2, Content: "in m2"}))

	messages, err := repo.ListByMatch(ctx, m1.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, "in m1", messages[0].Content)
}
