package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/fragmede/commentdesk/internal/api"
)

const appName = "commentdesk"

type Config struct {
	ConfigPath      string
	CacheDir        string
	DBPath          string
	LogPath         string
	CommentsURL     string
	PostsURL        string
	RequestTimeout  time.Duration
	OfflineFallback bool
	LogLevel        slog.Level
	EditToast       time.Duration
	ResetToast      time.Duration
	OfflineToast    time.Duration
}

func Default() Config {
	cfg := Config{
		ConfigPath:      filepath.Join(userConfigDir(), appName, "config.toml"),
		CommentsURL:     api.DefaultCommentsURL,
		PostsURL:        api.DefaultPostsURL,
		RequestTimeout:  10 * time.Second,
		OfflineFallback: true,
		LogLevel:        slog.LevelInfo,
		EditToast:       2 * time.Second,
		ResetToast:      3 * time.Second,
		OfflineToast:    5 * time.Second,
	}
	cfg.setCacheDir(filepath.Join(userConfigDir(), appName))
	return cfg
}

func (c *Config) setCacheDir(dir string) {
	c.CacheDir = dir
	c.DBPath = filepath.Join(dir, "cache.db")
	c.LogPath = filepath.Join(dir, "debug.log")
}

// fileConfig is the on-disk TOML layout. Unset keys keep their defaults.
type fileConfig struct {
	CommentsURL     string `toml:"comments_url"`
	PostsURL        string `toml:"posts_url"`
	RequestTimeout  string `toml:"request_timeout"`
	CacheDir        string `toml:"cache_dir"`
	OfflineFallback *bool  `toml:"offline_fallback"`
	LogLevel        string `toml:"log_level"`
}

// Load reads the TOML config at path (the default location when empty) on
// top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return Config{}, err
		}
		cfg.ConfigPath = expanded
	}

	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.CommentsURL); v != "" {
		cfg.CommentsURL = v
	}
	if v := strings.TrimSpace(raw.PostsURL); v != "" {
		cfg.PostsURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout must be positive, got %s", d)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.CacheDir); v != "" {
		dir, err := expandPath(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: cache_dir: %w", err)
		}
		cfg.setCacheDir(dir)
	}
	if raw.OfflineFallback != nil {
		cfg.OfflineFallback = *raw.OfflineFallback
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}

	return cfg, nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
