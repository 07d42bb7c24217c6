package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/dnscache"

	"github.com/eugener/foyer/internal/app"
	"github.com/eugener/foyer/internal/config"
	"github.com/eugener/foyer/internal/server"
	"github.com/eugener/foyer/internal/session"
	"github.com/eugener/foyer/internal/storage/sqlite"
	"github.com/eugener/foyer/internal/telemetry"
	"github.com/eugener/foyer/internal/upstream"
	"github.com/eugener/foyer/internal/worker"
)

func run(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	slog.Info("starting foyer", "version", version, "addr", cfg.Server.Addr)

	// Open database
	store, err := sqlite.New(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	// Optional tracing
	if cfg.Telemetry.Tracing.Enabled {
		shutdown, err := telemetry.SetupTracing(context.Background(),
			cfg.Telemetry.Tracing.Endpoint, cfg.Telemetry.Tracing.SampleRate)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				slog.Warn("tracing shutdown failed", "error", err)
			}
		}()
	}

	// Session store
	sessions, err := session.New(cfg.Session.TTL, cfg.Session.MaxSessions, nil)
	if err != nil {
		return err
	}

	// Background activity recorder
	recorder := worker.NewActivityRecorder(store)
	runner := worker.NewRunner(recorder)

	// Metrics
	var (
		metrics  *telemetry.Metrics
		gatherer prometheus.Gatherer
	)
	if cfg.Telemetry.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics = telemetry.NewMetrics(reg, sessions.Len, recorder.Pending)
		gatherer = reg
	}

	// Upstream client with cached DNS and pooled connections
	resolver := &dnscache.Resolver{}
	httpClient := &http.Client{
		Transport: upstream.NewTransport(resolver, cfg.Upstream.ConnectTimeout, cfg.Upstream.IdleTimeout),
	}
	client := upstream.New(cfg.Upstream.BaseURL, httpClient, cfg.Upstream.CallTimeout)
	if metrics != nil {
		client.WithMetrics(metrics)
	}

	// Wire services
	users := app.NewUserService(client)
	resumes := app.NewResumeService(client, recorder)
	interviews := app.NewInterviewService(client)

	// Create HTTP server
	handler := server.New(server.Deps{
		Sessions:     sessions,
		Auth:         app.NewAuthService(client, sessions, store, recorder),
		Users:        users,
		Resumes:      resumes,
		Interviews:   interviews,
		Aggregator:   app.NewAggregator(users, resumes, interviews),
		CookieName:   cfg.Session.CookieName,
		CookieSecure: cfg.Session.CookieSecure,
		ReadyCheck:   store.Ping,
		Metrics:      metrics,
		Registry:     gatherer,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	workerDone := make(chan error, 1)
	go func() {
		workerDone <- runner.Run(workerCtx)
	}()

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	slog.Info("foyer ready", "addr", cfg.Server.Addr)

	// Wait for signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig)
	case err := <-errCh:
		stopWorkers()
		<-workerDone
		return err
	}

	// Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		stopWorkers()
		return err
	}

	// Stop workers after the server drains so in-flight requests can still
	// queue activity; the recorder flushes its buffer on cancellation.
	stopWorkers()
	if err := <-workerDone; err != nil {
		slog.Warn("worker runner exited with error", "error", err)
	}

	slog.Info("foyer stopped")
	return nil
}
