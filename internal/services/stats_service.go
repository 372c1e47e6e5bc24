package services

import (
	"context"
	"fmt"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// StatsServiceImpl implements StatsService over the archive backend.
type StatsServiceImpl struct {
	client ArchiveAPI
}

// NewStatsService creates a stats service.
func NewStatsService(client ArchiveAPI) *StatsServiceImpl {
	return &StatsServiceImpl{client: client}
}

func (s *StatsServiceImpl) WordFrequency(ctx context.Context, timeframe string) ([]models.WordCount, error) {
	if !ValidTimeframe(timeframe) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeframe, timeframe)
	}
	counts, err := s.client.WordFrequency(ctx, timeframe)
	if err != nil {
		return nil, fmt.Errorf("fetch word frequency: %w", err)
	}
	return counts, nil
}
