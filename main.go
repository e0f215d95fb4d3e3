package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinyboard/internal/assets"
	"tinyboard/internal/config"
	"tinyboard/internal/game"
	"tinyboard/internal/handlers"
	"tinyboard/internal/logging"
	"tinyboard/internal/storage"
	"tinyboard/internal/templates"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Init("error", "console").Fatal("load config", zap.Error(err))
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "debug":
			cfg.Debug = *debug
		}
	})

	logging.Debug = cfg.Debug
	log := logging.Init(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	templates.SetCommit(commit)

	hubOpts := []game.HubOption{
		game.WithOptions(game.Options{
			KeepStaleDrag:  cfg.KeepStaleDrag,
			OrphanCaptured: cfg.OrphanCaptured,
		}),
		game.WithIdleTTL(cfg.IdleTTL, cfg.SweepInterval),
	}

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("connect database", zap.Error(err))
		}
		store = storage.NewStore(db)
		if err := store.DeactivateAll(context.Background(), time.Now()); err != nil {
			log.Warn("deactivate stale boards", zap.Error(err))
		}
		hubOpts = append(hubOpts, game.WithRecorder(store))
		log.Info("board registry enabled")
	}

	// Initialize board hub
	hub := game.NewHub(hubOpts...)
	defer hub.Close()

	// Initialize HTTP handlers
	h := handlers.NewHandler(hub, store)

	// Register routes
	mux := http.NewServeMux()
	mux.Handle(assets.Prefix, assets.Handler())
	h.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.Recover(handlers.Logging(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Tiny Board listening",
			zap.String("addr", cfg.Addr),
			zap.String("commit", commit),
			zap.String("build_date", buildDate),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
}
