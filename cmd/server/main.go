package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/jsondir/internal/api"
	"github.com/dgallion1/jsondir/internal/catalog"
	"github.com/dgallion1/jsondir/internal/config"
	"github.com/dgallion1/jsondir/internal/stats"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := config.Load()

	configFile := pflag.StringP("config", "c", cfg.ConfigFile, "YAML config file")
	dataDir := pflag.StringP("dir", "d", cfg.DataDir, "directory of JSON documents")
	perPage := pflag.IntP("per-page", "n", cfg.PerPage, "documents per page")
	port := pflag.StringP("port", "p", cfg.Port, "HTTP port")
	pflag.Parse()

	bootLog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if *configFile != "" {
		if err := cfg.MergeFile(*configFile); err != nil {
			bootLog.Error("load config file", "error", err)
			os.Exit(1)
		}
	}
	if pflag.CommandLine.Changed("dir") {
		cfg.DataDir = *dataDir
	}
	if pflag.CommandLine.Changed("per-page") {
		cfg.PerPage = *perPage
	}
	if pflag.CommandLine.Changed("port") {
		cfg.Port = *port
	}

	if err := cfg.Validate(); err != nil {
		bootLog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	cat, err := catalog.New(cfg.DataDir, cfg.PerPage, log)
	if err != nil {
		log.Error("invalid catalog", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stat(cat.Dir()); err != nil {
		log.Warn("data directory not readable, serving empty catalog", "dir", cat.Dir(), "error", err)
	}

	latency := stats.NewLatency(cfg.StatsWindow)
	srv := api.NewServer(cat, latency, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting jsondir",
		"port", cfg.Port,
		"data_dir", cat.Dir(),
		"per_page", cat.PerPage(),
		"search_fields", cfg.SearchFields,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
