// Package config loads the server configuration from a YAML file with
// environment-variable overrides, following the defaults -> file -> env ->
// validate pipeline used across the example pack's services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type HTTPServerConfig struct {
	ListenAddr  string   `yaml:"listen_addr"`
	InitCookies []string `yaml:"init_cookies"`
}

type MiscConfig struct {
	EnableTrackUpload           bool `yaml:"enable_track_upload"`
	EnablePhysicalTrackDeletion bool `yaml:"enable_physical_track_deletion"`
	EnableScheduler             bool `yaml:"enable_scheduler"`
}

// Config is the root configuration document, loaded from YAML with
// AIMPCTL_<SECTION>_<KEY> environment overrides layered on top.
type Config struct {
	HTTPServer        HTTPServerConfig `yaml:"http_server"`
	Misc              MiscConfig       `yaml:"misc"`
	DocumentRoot      string           `yaml:"document_root"`
	CoverDirectory    string           `yaml:"cover_directory"`
	FileToSaveRatings string           `yaml:"file_to_save_ratings"`
	DatabasePath      string           `yaml:"database_path"`
	MusicDir          string           `yaml:"music_dir"`
}

func defaults() *Config {
	return &Config{
		HTTPServer: HTTPServerConfig{
			ListenAddr:  ":3333",
			InitCookies: []string{"aimp_web_ctl=1; Path=/"},
		},
		Misc: MiscConfig{
			EnableTrackUpload:           true,
			EnablePhysicalTrackDeletion: false,
			EnableScheduler:             true,
		},
		DocumentRoot:      "./web",
		CoverDirectory:    "./data/covers",
		FileToSaveRatings: "./data/ratings.txt",
		DatabasePath:      "./data/aimpctl.db",
		MusicDir:          "./music",
	}
}

// Load builds a Config by starting from defaults, merging each YAML file in
// paths in order (a missing file is skipped, not an error), then applying
// environment overrides, then validating.
func Load(paths ...string) (*Config, error) {
	cfg := defaults()

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("config: reading %s: %w", p, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", p, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("AIMPCTL_HTTP_SERVER_LISTEN_ADDR", ""); v != "" {
		cfg.HTTPServer.ListenAddr = v
	}
	cfg.Misc.EnableTrackUpload = getEnvAsBool("AIMPCTL_MISC_ENABLE_TRACK_UPLOAD", cfg.Misc.EnableTrackUpload)
	cfg.Misc.EnablePhysicalTrackDeletion = getEnvAsBool("AIMPCTL_MISC_ENABLE_PHYSICAL_TRACK_DELETION", cfg.Misc.EnablePhysicalTrackDeletion)
	cfg.Misc.EnableScheduler = getEnvAsBool("AIMPCTL_MISC_ENABLE_SCHEDULER", cfg.Misc.EnableScheduler)
	if v := getEnv("AIMPCTL_DOCUMENT_ROOT", ""); v != "" {
		cfg.DocumentRoot = v
	}
	if v := getEnv("AIMPCTL_COVER_DIRECTORY", ""); v != "" {
		cfg.CoverDirectory = v
	}
	if v := getEnv("AIMPCTL_FILE_TO_SAVE_RATINGS", ""); v != "" {
		cfg.FileToSaveRatings = v
	}
	if v := getEnv("AIMPCTL_DATABASE_PATH", ""); v != "" {
		cfg.DatabasePath = v
	}
	if v := getEnv("AIMPCTL_MUSIC_DIR", ""); v != "" {
		cfg.MusicDir = v
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if raw, exists := os.LookupEnv(key); exists {
		if v, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return v
		}
	}
	return defaultVal
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.HTTPServer.ListenAddr) == "" {
		return fmt.Errorf("config: http_server.listen_addr must not be empty")
	}
	if strings.TrimSpace(c.DocumentRoot) == "" {
		return fmt.Errorf("config: document_root must not be empty")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("config: database_path must not be empty")
	}
	return nil
}
