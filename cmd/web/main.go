package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"wordsearch/internal/board"
	"wordsearch/internal/config"
	"wordsearch/internal/game"
	"wordsearch/internal/handlers"
	"wordsearch/internal/metrics"
	"wordsearch/internal/source"
)

const (
	Version = "0.1.0"
	appName = "wordsearch"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	addr       string
	puzzlesDir string
	puzzlesURL string
	logLevel   string
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Daily word search server",
		Long: `Serves one word search puzzle per day. Each visit generates a fresh
grid from the day's word list; players tap a start and an end letter to
mark a word.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (overrides config and PORT)")
	cmd.Flags().StringVar(&f.puzzlesDir, "puzzles", "", "Directory of <date>.json puzzle documents")
	cmd.Flags().StringVar(&f.puzzlesURL, "puzzles-url", "", "Base URL to fetch puzzle documents from")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(cmd *cobra.Command, f flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		loaded, err := config.LoadFromFile(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)

	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if cmd.Flags().Changed("puzzles") {
		cfg.Puzzles.Dir = f.puzzlesDir
	}
	if cmd.Flags().Changed("puzzles-url") {
		cfg.Puzzles.URL = f.puzzlesURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(levelStr string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg *config.Config) error {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	recorder := metrics.New()
	loader := &source.Loader{
		Source:   source.New(cfg.Puzzles.Dir, cfg.Puzzles.URL, nil),
		Location: loc,
		Timeout:  cfg.Puzzles.Timeout,
		Logger:   logger,
	}
	store := game.NewStore(loader,
		game.WithBuilder(game.Builder{
			Options: board.Options{
				Retries: cfg.Board.Retries,
				Strict:  cfg.Board.Strict,
			},
			Regenerate: cfg.Board.Regenerate,
			Logger:     logger,
			Metrics:    recorder,
		}),
		game.WithLocation(loc),
		game.WithMetrics(recorder),
		game.WithLogger(logger),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(timeoutExceptStreams(15 * time.Second))

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return err
	}
	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))
	if cfg.Puzzles.URL == "" && cfg.Puzzles.Dir != "" {
		r.Mount("/puzzles", http.StripPrefix("/puzzles", http.FileServer(http.Dir(cfg.Puzzles.Dir))))
	}
	r.Handle("/metrics", recorder.Handler())

	handlers.NewHomeHandler(store, loc).RegisterRoutes(r)
	handlers.NewGameHandler(store, cfg.Server.BaseURL).RegisterRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Event streams stay open; request handlers carry their own timeout.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ttl := cfg.Server.SessionTTL; ttl > 0 {
		go store.RunEviction(ctx, evictionInterval(ttl), ttl)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "puzzles_dir", cfg.Puzzles.Dir, "puzzles_url", cfg.Puzzles.URL, "timezone", loc.String())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// evictionInterval checks a few times per TTL, at most every ten minutes.
func evictionInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval > 10*time.Minute {
		interval = 10 * time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// timeoutExceptStreams applies middleware.Timeout to everything but the
// long-lived event stream endpoints.
func timeoutExceptStreams(d time.Duration) func(http.Handler) http.Handler {
	timeout := middleware.Timeout(d)
	return func(next http.Handler) http.Handler {
		timed := timeout(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/stream") {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}

//go:embed static/*
var embeddedStatic embed.FS
