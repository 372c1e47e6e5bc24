package services

import (
	"context"
	"fmt"
	"strings"

	msgflag "github.com/DrewBanyai/DiscordAdminHelper/internal/flag"
)

// FlagServiceImpl implements FlagService over the archive backend.
type FlagServiceImpl struct {
	client ArchiveAPI
}

// NewFlagService creates a flag service.
func NewFlagService(client ArchiveAPI) *FlagServiceImpl {
	return &FlagServiceImpl{client: client}
}

// SetFlag writes a raw flag value after validating it client-side, so a typo
// never reaches the backend as a malformed wire value.
func (s *FlagServiceImpl) SetFlag(ctx context.Context, messageID, value string) error {
	if strings.TrimSpace(messageID) == "" {
		return ErrInvalidMessageID
	}
	if !msgflag.Valid(value) {
		return fmt.Errorf("%w: %q", ErrInvalidFlag, value)
	}
	if err := s.client.SetFlag(ctx, messageID, value); err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}

// SetPendingReaction queues a reaction by writing the compound pending flag.
func (s *FlagServiceImpl) SetPendingReaction(ctx context.Context, messageID, emoji string) error {
	if strings.TrimSpace(emoji) == "" {
		return ErrEmptyEmoji
	}
	return s.SetFlag(ctx, messageID, msgflag.PendingReact(emoji).String())
}

// ClearFlag resets a message's flag to none.
func (s *FlagServiceImpl) ClearFlag(ctx context.Context, messageID string) error {
	return s.SetFlag(ctx, messageID, msgflag.Flag{Kind: msgflag.KindNone}.String())
}
