package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the archive backend configuration, loaded from YAML.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string `yaml:"addr"`
	// DBPath locates the sqlite archive shared with the scraper.
	DBPath string `yaml:"db_path"`
	// AttachmentsDir is the directory of downloaded attachments served
	// under /attachments/.
	AttachmentsDir string `yaml:"attachments_dir"`
	// PublicBaseURL prefixes attachment URLs handed to clients.
	PublicBaseURL string `yaml:"public_base_url"`
	// AllowedOrigins is the CORS allow list; ["*"] by default.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// ContextRadius is how many messages are returned on each side of a
	// context target.
	ContextRadius int `yaml:"context_radius"`
	// StatsLimit caps the word-frequency result set.
	StatsLimit int `yaml:"stats_limit"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8000",
		DBPath:         "discord_data.db",
		AttachmentsDir: "attachments",
		PublicBaseURL:  "http://localhost:8000",
		AllowedOrigins: []string{"*"},
		ContextRadius:  7,
		StatsLimit:     20,
	}
}

// LoadConfig reads a YAML config file, filling omitted fields with defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.ContextRadius <= 0 {
		cfg.ContextRadius = 7
	}
	if cfg.StatsLimit <= 0 {
		cfg.StatsLimit = 20
	}
	return cfg, nil
}
