package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/stablemate/stablemate/internal/db"
)

// MessageRepository provides data access methods for conversation messages.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create appends a message to a match's conversation.
func (r *MessageRepository) Create(ctx context.Context, msg *db.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByMatch returns a match's messages ordered by creation time
// ascending, id as a tiebreak so ordering is stable within one
// timestamp.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID string) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
