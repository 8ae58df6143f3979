// Package main runs the token tracker: it seeds the rolling list, drives the
// randomised tick scheduler and serves the HTTP API and WebSocket feed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"token-tracker/internal/api"
	"token-tracker/internal/config"
	"token-tracker/internal/feed"
	"token-tracker/internal/generator"
	"token-tracker/internal/logging"
	"token-tracker/internal/storage/memory"
	"token-tracker/internal/tracker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to YAML config file")
	envFile := flag.String("env-file", ".env", "Path to .env file (ignored if missing)")
	httpAddr := flag.String("http-addr", "", "HTTP listen address (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (overrides config)")
	logFormat := flag.String("log-format", "", "Log format: text or json (overrides config)")
	seedCount := flag.Int("seed", -1, "Number of tokens to seed at startup (overrides config)")
	paused := flag.Bool("paused", false, "Start with the scheduler paused")

	flag.Parse()

	// Load .env file if exists
	config.LoadEnvFile(*envFile)

	cfg, err := config.Load(*configPath, os.LookupEnv)
	if err != nil {
		return err
	}

	// Flags win over file and environment
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *seedCount >= 0 {
		cfg.SeedCount = *seedCount
	}
	if *paused {
		cfg.StartLive = false
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	base, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger := logging.Component(base, "main")

	logger.WithFields(logrus.Fields{
		"http_addr":  cfg.HTTPAddr,
		"capacity":   cfg.Capacity,
		"seed_count": cfg.SeedCount,
		"start_live": cfg.StartLive,
	}).Info("starting tracker")

	tr := tracker.New(tracker.Options{
		Store:        memory.NewTokenStore(cfg.Capacity),
		Generator:    generator.New(generator.Options{HighlightTTL: cfg.HighlightTTL}),
		MinTickDelay: cfg.MinTickDelay,
		MaxTickDelay: cfg.MaxTickDelay,
		RecentWindow: cfg.RecentWindow,
		SeedBackdate: cfg.SeedBackdate,
		Logger:       logging.Component(base, "tracker"),
	})
	tr.Seed(cfg.SeedCount)

	hub := feed.NewHub(feed.Options{
		Source: tr,
		Config: &feed.Config{
			PingInterval: cfg.Feed.PingInterval,
			WriteTimeout: cfg.Feed.WriteTimeout,
			SendBuffer:   cfg.Feed.SendBuffer,
		},
		Logger: logging.Component(base, "feed"),
	})

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewServer(api.Options{
			Tracker: tr,
			Feed:    hub,
			Logger:  logging.Component(base, "api"),
		}).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tr.SetRunning(cfg.StartLive)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		tr.SetRunning(false)
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
