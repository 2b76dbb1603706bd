package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arung-agamani/aimpctl/config"
	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/cover"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/httpserver"
	"github.com/arung-agamani/aimpctl/internal/library"
	"github.com/arung-agamani/aimpctl/internal/methods"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/rating"
	"github.com/arung-agamani/aimpctl/internal/scheduler"
	"github.com/arung-agamani/aimpctl/internal/store"
)

// supportedUploadExtensions is the allowlist the upload handler checks
// against; the reference engine doesn't decode audio at all, so this
// stands in for a real backend's supported-format probe.
var supportedUploadExtensions = []string{".mp3", ".flac", ".wav", ".ogg", ".aac", ".m4a"}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load("aimpctl.yaml")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("starting aimpctl",
		"listen_addr", cfg.HTTPServer.ListenAddr,
		"document_root", cfg.DocumentRoot,
		"database_path", cfg.DatabasePath,
	)

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := library.SeedDefaultPlaylist(context.Background(), db, cfg.MusicDir); err != nil {
		slog.Warn("music directory scan failed, continuing with an empty library", "error", err)
	}

	if err := cover.WipeCoverDirectory(cfg.CoverDirectory); err != nil {
		slog.Error("failed to prepare cover directory", "error", err)
		os.Exit(1)
	}

	engine := player.NewReferenceEngine()
	coverCache := cover.New()
	coverResolver := cover.NewResolver(coverCache, methods.NewCoverSource(db), cfg.CoverDirectory)
	eventBroker := broker.New()
	ratingStore := rating.New(nil, cfg.FileToSaveRatings)
	sched := scheduler.New(makeSchedulerAction(engine), cfg.Misc.EnableScheduler)

	reg := dispatch.NewRegistry()
	methods.Register(reg, methods.Deps{
		Store:                       db,
		Engine:                      engine,
		Broker:                      eventBroker,
		Cover:                       coverResolver,
		Scheduler:                   sched,
		Rating:                      ratingStore,
		EnablePhysicalTrackDeletion: cfg.Misc.EnablePhysicalTrackDeletion,
	})

	srv := httpserver.New(cfg, reg, db, supportedUploadExtensions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("shutdown signal received")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// makeSchedulerAction executes a deferred action against engine; the
// machine power-state actions have no in-process effect since they target
// the host OS, which is out of scope for the reference engine, so they
// only log.
func makeSchedulerAction(engine player.Engine) scheduler.ActionFunc {
	return func(action scheduler.Action) error {
		switch action {
		case scheduler.ActionStopPlayback:
			return engine.Stop()
		case scheduler.ActionPausePlayback:
			return engine.Pause()
		case scheduler.ActionMachineShutdown, scheduler.ActionMachineSleep, scheduler.ActionMachineHibernate:
			slog.Warn("scheduled machine power action is not wired to the host OS", "action", action)
			return nil
		default:
			return fmt.Errorf("scheduler: unrecognized action %q", action)
		}
	}
}
