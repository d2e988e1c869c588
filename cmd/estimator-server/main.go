// estimator-server serves the estimate API over HTTP.
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

	"go.uber.org/zap"

	"github.com/piwi3910/SiteEstimator/internal/logging"
	"github.com/piwi3910/SiteEstimator/internal/project"
	"github.com/piwi3910/SiteEstimator/internal/server"
	"github.com/piwi3910/SiteEstimator/internal/store"
)

func main() {
	configPath := flag.String("config", project.DefaultConfigPath(), "settings file")
	addr := flag.String("addr", "", "listen address (overrides settings)")
	flag.Parse()

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	estimates, err := store.New(cfg, log)
	if err != nil {
		log.Fatal("failed to open estimate store", zap.Error(err))
	}
	defer estimates.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(estimates, cfg, log).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.ListenAddr), zap.String("store", cfg.StoreDriver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
}
