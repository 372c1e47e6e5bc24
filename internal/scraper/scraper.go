// Package scraper polls Discord for new channel history, archives it into
// the shared sqlite store, and delivers reactions queued by the viewer.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/db"
	msgflag "github.com/DrewBanyai/DiscordAdminHelper/internal/flag"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/models"
)

// timestampLayout matches the archive's on-disk timestamp form.
const timestampLayout = "2006-01-02T15:04:05.000000"

const historyBatchSize = 100

// Config controls the scraper loop.
type Config struct {
	PollInterval   time.Duration
	AttachmentsDir string
	IgnoreFile     string
}

// DefaultConfig returns the scraper defaults.
func DefaultConfig() Config {
	return Config{
		PollInterval:   5 * time.Minute,
		AttachmentsDir: "attachments",
		IgnoreFile:     "IGNORED_CHANNELS.txt",
	}
}

// Scraper is the polling archiver plus reaction deliverer.
type Scraper struct {
	cfg        Config
	session    *discordgo.Session
	store      *db.Store
	logger     *log.Logger
	httpClient *http.Client

	// messages pulled during this process run, per channel
	sessionCounts map[string]int
}

// New creates a Scraper from a bot token.
func New(cfg Config, botToken string, store *db.Store, logger *log.Logger) (*Scraper, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Scraper{
		cfg:           cfg,
		session:       session,
		store:         store,
		logger:        logger,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
		sessionCounts: make(map[string]int),
	}, nil
}

// Run opens the gateway connection and polls until the context is canceled.
func (s *Scraper) Run(ctx context.Context) error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	defer s.session.Close()
	if s.session.State.User != nil {
		s.logger.Printf("logged in as %s (%s)", s.session.State.User.Username, s.session.State.User.ID)
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	// First poll immediately, then on the interval.
	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Scraper) poll(ctx context.Context) {
	s.logger.Printf("poll started at %s", time.Now().Format(time.RFC3339))

	// Deliver reactions queued in the viewer before pulling new history.
	s.processPendingReactions(ctx)

	ignored, err := LoadIgnoreList(s.cfg.IgnoreFile)
	if err != nil {
		s.logger.Printf("load ignore list: %v", err)
		ignored = map[string]struct{}{}
	}

	for _, guild := range s.session.State.Guilds {
		if err := s.store.SaveGuild(ctx, models.Guild{ID: guild.ID, Name: guild.Name}); err != nil {
			s.logger.Printf("save guild %s: %v", guild.ID, err)
			continue
		}
		channels, err := s.session.GuildChannels(guild.ID)
		if err != nil {
			s.logger.Printf("list channels for %s: %v", guild.ID, err)
			continue
		}
		for _, channel := range channels {
			if channel.Type != discordgo.ChannelTypeGuildText {
				continue
			}
			if _, skip := ignored[strings.ToLower(channel.Name)]; skip {
				s.logger.Printf("ignoring channel #%s", channel.Name)
				if n, err := s.store.DeleteChannelHistory(ctx, channel.ID); err != nil {
					s.logger.Printf("delete history for #%s: %v", channel.Name, err)
				} else if n > 0 {
					s.logger.Printf("deleted %d archived messages for ignored channel #%s", n, channel.Name)
				}
				continue
			}
			if err := s.scrapeChannel(ctx, guild.ID, channel); err != nil {
				s.logger.Printf("scrape #%s: %v", channel.Name, err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}
	s.logger.Printf("poll completed")
}

func (s *Scraper) scrapeChannel(ctx context.Context, guildID string, channel *discordgo.Channel) error {
	if err := s.store.SaveChannel(ctx, models.Channel{ID: channel.ID, Name: channel.Name, GuildID: guildID}); err != nil {
		return err
	}
	if err := os.MkdirAll(s.cfg.AttachmentsDir, 0o755); err != nil {
		return fmt.Errorf("create attachments dir: %w", err)
	}

	afterID, err := s.store.LastMessageID(ctx, channel.ID)
	if err != nil {
		return err
	}

	fetched := 0
	for {
		batch, err := s.session.ChannelMessages(channel.ID, historyBatchSize, "", afterID, "",
			discordgo.WithContext(ctx))
		if err != nil {
			if rl, ok := err.(*discordgo.RateLimitError); ok {
				s.logger.Printf("rate limited on #%s, waiting %s", channel.Name, rl.RetryAfter)
				select {
				case <-time.After(rl.RetryAfter):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return fmt.Errorf("fetch history: %w", err)
		}

		sortByID(batch)
		for _, msg := range batch {
			if err := s.archiveMessage(ctx, guildID, channel.ID, msg); err != nil {
				s.logger.Printf("archive message %s: %v", msg.ID, err)
				continue
			}
			s.sessionCounts[channel.ID]++
			fetched++
			afterID = msg.ID
		}

		if fetched > 0 {
			if total, err := s.store.CountMessages(ctx, channel.ID); err == nil {
				s.logger.Printf("[#%s] run: %d | total archived: %d", channel.Name, s.sessionCounts[channel.ID], total)
			}
		}
		if len(batch) < historyBatchSize {
			break
		}
		// Be conservative between batches so rate limits settle.
		select {
		case <-time.After(5 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if fetched == 0 {
		if total, err := s.store.CountMessages(ctx, channel.ID); err == nil {
			s.logger.Printf("[#%s] up to date (total archived: %d)", channel.Name, total)
		}
	} else {
		s.logger.Printf("finished scraping #%s: %d new messages", channel.Name, fetched)
	}
	return nil
}

func (s *Scraper) archiveMessage(ctx context.Context, guildID, channelID string, msg *discordgo.Message) error {
	images := 0
	for _, att := range msg.Attachments {
		if !strings.HasPrefix(att.ContentType, "image/") {
			continue
		}
		localName := AttachmentFilename(msg.ID, att.Filename)
		if err := s.downloadAttachment(ctx, att.URL, localName); err != nil {
			s.logger.Printf("download attachment %s: %v", att.Filename, err)
			continue
		}
		if err := s.store.SaveAttachment(ctx, models.Attachment{
			MessageID:   msg.ID,
			Filename:    att.Filename,
			LocalPath:   localName,
			ContentType: att.ContentType,
		}); err != nil {
			return err
		}
		images++
	}

	return s.store.SaveMessage(ctx, &models.Message{
		ID:               msg.ID,
		ChannelID:        channelID,
		GuildID:          guildID,
		AuthorID:         authorID(msg),
		AuthorName:       authorName(msg),
		Content:          msg.Content,
		Timestamp:        msg.Timestamp.UTC().Format(timestampLayout),
		AttachmentsCount: images,
		Flag:             "none",
	})
}

func (s *Scraper) downloadAttachment(ctx context.Context, url, localName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := os.Create(filepath.Join(s.cfg.AttachmentsDir, localName))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}

func (s *Scraper) processPendingReactions(ctx context.Context) {
	pending, err := s.store.PendingReactions(ctx)
	if err != nil {
		s.logger.Printf("scan pending reactions: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}
	s.logger.Printf("found %d pending reactions", len(pending))

	for _, p := range pending {
		f := msgflag.Parse(p.Flag)
		if !f.IsPending() || f.Emoji == "" {
			continue
		}
		if err := s.session.MessageReactionAdd(p.ChannelID, p.MessageID, f.Emoji,
			discordgo.WithContext(ctx)); err != nil {
			// Left pending so the next poll retries.
			s.logger.Printf("react %s on message %s: %v", f.Emoji, p.MessageID, err)
			continue
		}
		if err := s.store.UpdateFlag(ctx, p.MessageID, msgflag.Flag{Kind: msgflag.KindNone}.String()); err != nil {
			s.logger.Printf("clear flag on %s: %v", p.MessageID, err)
			continue
		}
		s.logger.Printf("reacted with %s to message %s", f.Emoji, p.MessageID)
	}
}

// AttachmentFilename builds the stored name for a downloaded attachment,
// unique per message.
func AttachmentFilename(messageID, filename string) string {
	return messageID + "_" + filepath.Base(filename)
}

// sortByID orders a history batch oldest-first by numeric message ID; the
// API returns batches newest-first.
func sortByID(batch []*discordgo.Message) {
	sort.Slice(batch, func(i, j int) bool {
		a, _ := strconv.ParseUint(batch[i].ID, 10, 64)
		b, _ := strconv.ParseUint(batch[j].ID, 10, 64)
		return a < b
	})
}

func authorID(msg *discordgo.Message) string {
	if msg.Author == nil {
		return ""
	}
	return msg.Author.ID
}

func authorName(msg *discordgo.Message) string {
	if msg.Author == nil {
		return ""
	}
	return msg.Author.Username
}
