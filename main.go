package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/commentdesk/internal/api"
	"github.com/fragmede/commentdesk/internal/cache"
	"github.com/fragmede/commentdesk/internal/config"
	"github.com/fragmede/commentdesk/internal/overlay"
	"github.com/fragmede/commentdesk/internal/repo"
	"github.com/fragmede/commentdesk/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (default ~/.config/commentdesk/config.toml)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commentdesk: %v\n", err)
		return 1
	}
	if *debug {
		cfg.LogLevel = slog.LevelDebug
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "commentdesk: creating cache dir: %v\n", err)
		return 1
	}

	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commentdesk: opening log: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "commentdesk: opening cache: %v\n", err)
		return 1
	}
	defer db.Close()

	client := api.NewClient(cfg.CommentsURL, cfg.PostsURL, cfg.RequestTimeout)
	repository := repo.New(client, db, cfg.OfflineFallback, logger)
	store := overlay.NewStore(db, overlay.DefaultKey, logger)

	logger.Info("starting", "config", cfg.ConfigPath, "db", cfg.DBPath)
	app := ui.NewApp(ctx, cfg, repository, store, logger)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "commentdesk: %v\n", err)
		return 1
	}
	return 0
}
