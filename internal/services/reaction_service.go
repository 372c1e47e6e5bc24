package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// ReactionServiceImpl implements ReactionService over the archive backend.
type ReactionServiceImpl struct {
	client ArchiveAPI
}

// NewReactionService creates a reaction service.
func NewReactionService(client ArchiveAPI) *ReactionServiceImpl {
	return &ReactionServiceImpl{client: client}
}

func (s *ReactionServiceImpl) ListCandidates(ctx context.Context, messageID string) ([]*models.ReactionOption, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, ErrInvalidMessageID
	}
	opts, err := s.client.Reactions(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("list reaction candidates: %w", err)
	}
	return opts, nil
}
