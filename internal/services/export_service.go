package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/render"
)

// ExportServiceImpl writes HTML transcripts of rendered message lists.
type ExportServiceImpl struct{}

// NewExportService creates an export service.
func NewExportService() *ExportServiceImpl {
	return &ExportServiceImpl{}
}

func (s *ExportServiceImpl) WriteHTMLTranscript(ctx context.Context, path, title string, msgs []*models.Message, targetID string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty export path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	doc := render.HTMLTranscript(title, msgs, targetID)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
