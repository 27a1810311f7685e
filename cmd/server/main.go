// Command server starts the scam-honeypot API.
//
// Usage:
//
//	go run ./cmd/server [flags]
//
// Flags:
//
//	-config  Path to a YAML config file (default: search ./honeypot.yaml)
//
// All settings can also come from HONEYPOT_* environment variables; PORT is
// honored for PaaS platforms.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scambait/honeypot-api/internal/api"
	"scambait/honeypot-api/internal/callback"
	"scambait/honeypot-api/internal/catalog"
	"scambait/honeypot-api/internal/config"
	"scambait/honeypot-api/internal/detect"
	"scambait/honeypot-api/internal/reply"
	"scambait/honeypot-api/internal/session"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Log)

	// ── Wire dependencies ─────────────────────────────────────────────────────
	cat, err := buildCatalog(cfg.Catalog)
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}

	matcher := detect.NewMatcher(cat)
	scorer := detect.NewScorer(cat)

	weights := cat.Rules().Weights
	sessions := session.New(session.Config{
		PaymentHandleBonus: weights.IntelPaymentHandle,
		URLBonus:           weights.IntelURL,
	})

	var policy reply.Policy
	switch cfg.Reply.Policy {
	case config.PolicyMessage:
		policy = reply.NewCategoryPolicy()
	default:
		policy = reply.NewEscalationPolicy()
	}

	notifier := callback.New(cfg.Callback.URL, cfg.Callback.Timeout)
	handler := api.NewHandler(cat, matcher, scorer, sessions, policy, notifier)
	router := api.NewRouter(handler, cfg.Auth.APIKey)

	// ── Catalog hot reload ────────────────────────────────────────────────────
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.Catalog.Watch && cfg.Catalog.OverlayPath != "" {
		go func() {
			if err := cat.Watch(watchCtx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("catalog watcher stopped", "error", err)
			}
		}()
	}

	// ── Start HTTP server ─────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server listening",
			"port", cfg.Server.Port,
			"reply_policy", cfg.Reply.Policy,
			"callback_enabled", cfg.Callback.URL != "",
			"catalog_overlay", cfg.Catalog.OverlayPath,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

func setupLogging(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func buildCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.OverlayPath == "" {
		return catalog.New(), nil
	}
	return catalog.NewFromFile(cfg.OverlayPath)
}
