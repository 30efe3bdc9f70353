package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/lookout/internal/api"
	"github.com/five82/lookout/internal/config"
	"github.com/five82/lookout/internal/live"
	"github.com/five82/lookout/internal/observability"
	"github.com/five82/lookout/internal/prefs"
	"github.com/five82/lookout/internal/state"
	"github.com/five82/lookout/internal/stream"
	"github.com/five82/lookout/internal/ui"
)

// Options configure the lookout application. Non-empty StreamURL and APIBase
// take precedence over the config file and environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/lookout/prefs.toml
	StreamURL  string
	APIBase    string
}

const noticeBuffer = 32

// Run boots the lookout TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.StreamURL); v != "" {
		cfg.StreamURL = v
	}
	if v := strings.TrimSpace(opts.APIBase); v != "" {
		cfg.APIBase = v
	}

	logCloser, err := observability.SetupLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()
	slog.Info("lookout starting", "api", cfg.APIBase, "stream", cfg.StreamURL)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.ServeMetrics(ctx, cfg.MetricsAddr); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	client, err := api.NewClient(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	store := &state.Store{}
	ingest := loader{client: client, store: store}
	startInitialLoad(ctx, ingest)

	mgr := stream.New(stream.Options{
		URL:         cfg.StreamURL,
		MaxAttempts: cfg.MaxReconnectAttempts,
		RetryDelay:  cfg.ReconnectDelay,
	})
	defer mgr.Close()

	sink := live.NewSink(store, noticeBuffer)
	go func() {
		if err := sink.Run(ctx, mgr.Events()); err != nil && ctx.Err() == nil {
			slog.Error("live sink stopped", "error", err)
		}
	}()
	if err := mgr.Connect(ctx); err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}

	var play ui.Player
	if len(cfg.PlayerCommand) > 0 {
		play = newPlayer(cfg.PlayerCommand)
	}

	err = ui.Run(ui.Options{
		Context:        ctx,
		Store:          store,
		Stream:         mgr,
		Notices:        sink.Notices(),
		Reloader:       ingest,
		Player:         play,
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
		LogPath:        cfg.LogFile,
		ThemeName:      userPrefs.Theme,
		PrefsPath:      prefsPath,
		FollowLogs:     userPrefs.FollowLogs,
	})
	slog.Info("lookout stopping")
	return err
}
