package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/db"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/scraper"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/version"
)

func main() {
	dbPathFlag := flag.String("db", "discord_data.db", "Path to the sqlite archive")
	attachmentsFlag := flag.String("attachments", "attachments", "Directory for downloaded attachments")
	ignoreFlag := flag.String("ignore", "IGNORED_CHANNELS.txt", "File listing channel names to skip")
	intervalFlag := flag.Duration("interval", 5*time.Minute, "Poll interval between archive passes")
	versionFlag := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	logger := log.New(os.Stderr, "[scraperd] ", log.LstdFlags|log.Lmicroseconds)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("load .env: %v", err)
	}
	token := os.Getenv("DISCORD_TOKEN")
	if token == "" {
		logger.Fatal("DISCORD_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, *dbPathFlag)
	if err != nil {
		logger.Fatalf("open archive store: %v", err)
	}
	defer store.Close()

	cfg := scraper.Config{
		PollInterval:   *intervalFlag,
		AttachmentsDir: *attachmentsFlag,
		IgnoreFile:     *ignoreFlag,
	}
	s, err := scraper.New(cfg, token, store, logger)
	if err != nil {
		logger.Fatalf("create scraper: %v", err)
	}

	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatalf("scraper: %v", err)
	}
}
