// Package main implements the cortex game server: a RESTful API hosting
// tic-tac-toe, connect-four and chess games against the computer.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cortex/cmd/cortex-server/cli"
	"cortex/internal/config"
	"cortex/internal/processor"
	"cortex/internal/service"
	"cortex/internal/storage"
	"cortex/internal/transport/http"
)

const gracefulShutdownTimeout = 5 * time.Second

func main() {
	// Database maintenance commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatal().Err(err).Msg("CLI error")
		}
		os.Exit(0)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := config.SetupLogging(cfg.LogLevel, cfg.Dev); err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server exited with error")
	}
	log.Info().Msg("Server exited")
}

func run(cfg *config.Config) error {
	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			return err
		}
		defer cleanup()
		log.Info().Str("path", cfg.PIDPath).Bool("lock", cfg.PIDLock).Msg("PID file created")
	}

	// 1. Storage (optional)
	var store *storage.Store
	if cfg.StoragePath != "" {
		var err error
		store, err = storage.NewStore(cfg.StoragePath, cfg.Dev)
		if err != nil {
			return err
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close storage cleanly")
			}
		}()
		log.Info().Str("path", cfg.StoragePath).Msg("Persistent storage enabled")
	} else {
		log.Info().Msg("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Service with optional storage and oracle settings
	svc, err := service.New(service.Config{Store: store, Oracle: cfg.Oracle})
	if err != nil {
		return err
	}

	// 3. Processor with the computer turn workers
	proc := processor.New(svc, processor.Config{Workers: cfg.Workers, TurnLimit: cfg.TurnLimit})

	// 4. Fiber app
	app := http.NewFiberApp(proc, svc, cfg.Dev)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", "http://"+cfg.Addr()).
			Bool("dev", cfg.Dev).
			Int("workers", cfg.Workers).
			Msg("API server starting")
		return app.Listen(cfg.Addr())
	})

	g.Go(func() error {
		svc.RunCleanupJob(gctx, service.CleanupJobInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		var errs []error
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := proc.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
