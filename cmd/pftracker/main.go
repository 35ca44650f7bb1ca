package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"pftracker/internal/cli"
	apphttp "pftracker/internal/http"
	"pftracker/internal/log"
	"pftracker/internal/render"
	"pftracker/internal/storage"
	"pftracker/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if err := cli.LoadEnvFile(); err != nil {
		return err
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg.LogLevel, os.Stdout)

	store, err := cli.OpenStore(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Store close failed", log.FieldError, err)
		}
	}()

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	repo := storage.NewTransactionRepository(store, cfg.StorageKey, logger)
	tr := tracker.New(repo, tracker.WithLogger(logger))
	tr.Open(ctx)
	if cfg.SeedSampleData {
		if _, err := tr.SeedIfEmpty(ctx); err != nil {
			logger.Warn("Sample data not saved", log.FieldError, err)
		}
	}

	formatter, err := render.NewFormatter(cfg.CurrencySymbol, cfg.Locale)
	if err != nil {
		return err
	}

	opts := apphttp.Options{
		Addr:               cfg.Addr(),
		Tracker:            tr,
		Exporter:           repo,
		Formatter:          formatter,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	}
	if pinger, ok := store.(interface{ Ping(context.Context) error }); ok {
		opts.Ready = pinger.Ping
	}
	srv, err := apphttp.NewServer(opts)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting pftracker server", "addr", cfg.Addr(), "backend", cfg.StorageBackend, log.FieldStorageKey, cfg.StorageKey)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
