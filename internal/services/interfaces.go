package services

import (
	"context"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/archive"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// ArchiveAPI is the slice of the backend client the services consume; the
// real implementation is *archive.Client.
type ArchiveAPI interface {
	Search(ctx context.Context, opts archive.SearchOptions) ([]*models.Message, error)
	Context(ctx context.Context, messageID string) ([]*models.Message, error)
	SetFlag(ctx context.Context, messageID, flagValue string) error
	Reactions(ctx context.Context, messageID string) ([]*models.ReactionOption, error)
	WordFrequency(ctx context.Context, timeframe string) ([]models.WordCount, error)
}

// MessageService handles message retrieval.
type MessageService interface {
	Search(ctx context.Context, keyword, username string) ([]*models.Message, error)
	Context(ctx context.Context, messageID string) ([]*models.Message, error)
}

// FlagService handles moderation flag mutations.
type FlagService interface {
	SetFlag(ctx context.Context, messageID string, value string) error
	SetPendingReaction(ctx context.Context, messageID, emoji string) error
	ClearFlag(ctx context.Context, messageID string) error
}

// ReactionService lists live reaction candidates for the picker.
type ReactionService interface {
	ListCandidates(ctx context.Context, messageID string) ([]*models.ReactionOption, error)
}

// StatsService fetches aggregate statistics.
type StatsService interface {
	WordFrequency(ctx context.Context, timeframe string) ([]models.WordCount, error)
}

// ExportService writes transcripts to disk.
type ExportService interface {
	WriteHTMLTranscript(ctx context.Context, path, title string, msgs []*models.Message, targetID string) error
}
