package server

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// ReactionFetcher reads the live reactions on a Discord message. Split out of
// the handlers so they can be tested without the Discord API.
type ReactionFetcher interface {
	MessageReactions(ctx context.Context, channelID, messageID string) ([]*models.ReactionOption, error)
}

// DiscordReactionFetcher fetches reactions through a discordgo session.
type DiscordReactionFetcher struct {
	session *discordgo.Session
}

// NewDiscordReactionFetcher creates a fetcher from a bot token.
func NewDiscordReactionFetcher(botToken string) (*DiscordReactionFetcher, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordReactionFetcher{session: session}, nil
}

// MessageReactions returns the reaction candidates on the given message.
// Custom emoji are encoded as "name:id", unicode emoji as the bare glyph,
// the same token format the reaction bot feeds back to the Discord API.
func (f *DiscordReactionFetcher) MessageReactions(ctx context.Context, channelID, messageID string) ([]*models.ReactionOption, error) {
	msg, err := f.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch message from discord: %w", err)
	}

	opts := make([]*models.ReactionOption, 0, len(msg.Reactions))
	for _, r := range msg.Reactions {
		if r.Emoji == nil {
			continue
		}
		emojiStr := r.Emoji.Name
		if r.Emoji.ID != "" {
			emojiStr = r.Emoji.Name + ":" + r.Emoji.ID
		}
		opts = append(opts, &models.ReactionOption{
			Name:     r.Emoji.Name,
			ID:       r.Emoji.ID,
			Count:    r.Count,
			EmojiStr: emojiStr,
		})
	}
	return opts, nil
}
