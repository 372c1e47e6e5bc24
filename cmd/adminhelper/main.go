package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/DrewBanyai/DiscordAdminHelper/internal/config"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/tui"
	"github.com/DrewBanyai/DiscordAdminHelper/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/adminhelper/config.json)")
	backendFlag := flag.String("backend", "", "Archive backend base URL (overrides config)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  ADMINHELPER_CONFIG   Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  ADMINHELPER_BACKEND  Override the backend base URL\n")
	}
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	configPath := *configPathFlag
	if configPath == "" {
		configPath = os.Getenv("ADMINHELPER_CONFIG")
	}
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		cfg = config.DefaultConfig()
	}
	if *backendFlag != "" {
		cfg.BackendURL = *backendFlag
	} else if env := os.Getenv("ADMINHELPER_BACKEND"); env != "" {
		cfg.BackendURL = env
	}

	app := tui.NewApp(cfg)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
