package conversation

import (
	"context"
	"strings"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/db"
	svcErr "github.com/stablemate/stablemate/internal/errors"
	"github.com/stablemate/stablemate/internal/repository"
)

// Service lists matches and manages message history. Every operation
// verifies the caller is actually a party to the match; message
// content is stored verbatim and only ever served as plain text.
type Service struct {
	appCtx   *app.AppContext
	matches  *repository.MatchRepository
	messages *repository.MessageRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// ListMatches returns the caller's matches joined with both horses.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]repository.MatchWithHorses, error) {
	return s.matches.ListForUser(ctx, userID)
}

// ListMessages returns a match's history, oldest first. Callers who
// are not a party to the match get ErrForbidden regardless of whether
// they guessed a valid match id.
func (s *Service) ListMessages(ctx context.Context, userID uint64, matchID string) ([]db.Message, error) {
	if err := s.requireParty(ctx, userID, matchID); err != nil {
		return nil, err
	}
	return s.messages.ListByMatch(ctx, matchID)
}

// Send appends a message to a match the caller belongs to. Empty and
// whitespace-only content is rejected here, not just in the UI.
func (s *Service) Send(ctx context.Context, userID uint64, matchID, content string) (*db.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, svcErr.InvalidArgument("message content must not be empty")
	}
	if err := s.requireParty(ctx, userID, matchID); err != nil {
		return nil, err
	}

	msg := &db.Message{
		MatchID:  matchID,
		SenderID: userID,
		Content:  content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.appCtx.Logger.Debug("message sent", "match_id", matchID, "sender_id", userID)
	return msg, nil
}

func (s *Service) requireParty(ctx context.Context, userID uint64, matchID string) error {
	party, err := s.matches.IsParty(ctx, matchID, userID)
	if err != nil {
		return err
	}
	if !party {
		return svcErr.ErrForbidden
	}
	return nil
}
