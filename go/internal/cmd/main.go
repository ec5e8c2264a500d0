package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mcdev12/tplauction/go/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("console stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("console stopped")
}

func run() error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	logFile := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer logFile.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	services, err := setupServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	server := setupServer(cfg.Port, services.Console)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		services.Hub.Start(gctx)
		return nil
	})

	if services.Consumer != nil {
		g.Go(func() error {
			return services.Consumer.Start(gctx)
		})
	}

	g.Go(func() error {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", cfg.BackendURL).
			Msg("starting TPL auction console")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down console")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
