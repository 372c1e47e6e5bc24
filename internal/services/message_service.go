package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/archive"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// MessageServiceImpl implements MessageService over the archive backend.
type MessageServiceImpl struct {
	client ArchiveAPI
	limit  int
}

// NewMessageService creates a message service. limit caps search results;
// zero means the backend default.
func NewMessageService(client ArchiveAPI, limit int) *MessageServiceImpl {
	return &MessageServiceImpl{client: client, limit: limit}
}

func (s *MessageServiceImpl) Search(ctx context.Context, keyword, username string) ([]*models.Message, error) {
	msgs, err := s.client.Search(ctx, archive.SearchOptions{
		Keyword:  strings.TrimSpace(keyword),
		Username: strings.TrimSpace(username),
		Limit:    s.limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	return msgs, nil
}

func (s *MessageServiceImpl) Context(ctx context.Context, messageID string) ([]*models.Message, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, ErrInvalidMessageID
	}
	msgs, err := s.client.Context(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("fetch context: %w", err)
	}
	return msgs, nil
}
