package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/db"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/server"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to YAML configuration file")
	versionFlag := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	logger := log.New(os.Stderr, "[archived] ", log.LstdFlags|log.Lmicroseconds)

	// Token and secrets come from the environment; .env is a convenience
	// for local runs.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Printf("load .env: %v", err)
	}

	cfg := server.DefaultConfig()
	if *configPathFlag != "" {
		var err error
		cfg, err = server.LoadConfig(*configPathFlag)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatalf("open archive store: %v", err)
	}
	defer store.Close()

	var reactions server.ReactionFetcher
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		fetcher, err := server.NewDiscordReactionFetcher(token)
		if err != nil {
			logger.Fatalf("discord session: %v", err)
		}
		reactions = fetcher
	} else {
		logger.Printf("DISCORD_TOKEN not set; live reaction listing disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(cfg, store, reactions, logger).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("archive backend listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("serve: %v", err)
	}
}
