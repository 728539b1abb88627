package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/internal/api"
	"ledger/internal/config"
	"ledger/internal/processor"
	"ledger/internal/repository/memory"
	"ledger/internal/service"
	"ledger/internal/shell"
	"ledger/pkg/crypto"
	"ledger/pkg/metrics"
)

const appName = "ledger"

type app struct {
	metrics   *metrics.MetricsCollector
	processor *processor.TransactionProcessor
	registry  *service.Registry
}

func main() {
	serve := flag.Bool("serve", false, "serve the HTTP API instead of the interactive menu")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialise application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !*serve {
		sh := shell.New(os.Stdin, os.Stdout, a.registry, a.processor, logger)
		if err := sh.Run(context.Background()); err != nil {
			logger.Error("Shell stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	logger.Info("Starting application", slog.String("name", appName))
	signer := crypto.NewSigner(cfg.Ledger.SigningKey, logger)
	apiHandler := api.NewAPIHandler(a.processor, a.registry, signer, logger)
	metricsServer := a.metrics.StartMetricsServer(cfg.HTTP.MetricsAddr)
	httpServer := startHTTPServer(cfg.HTTP.Addr, apiHandler, logger)
	waitForShutdown(logger, httpServer, metricsServer, a.metrics)
	logger.Info("Application shutdown complete")
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	limits, err := cfg.Ledger.Limits()
	if err != nil {
		return nil, err
	}

	metricsCollector := metrics.NewMetricsCollector(logger)
	accountRepo := memory.NewAccountRepository()
	txProcessor := processor.NewTransactionProcessor(
		accountRepo,
		memory.NewTransactionRepository(),
		processor.NewRuleEngine(limits),
		metricsCollector,
		logger,
	)
	registry := service.NewRegistry(memory.NewUserRepository(), accountRepo, cfg.Ledger.Agency, logger)

	return &app{
		metrics:   metricsCollector,
		processor: txProcessor,
		registry:  registry,
	}, nil
}

// setupLogger writes JSON to stderr so the menu on stdout stays readable.
func setupLogger(cfg config.Config) *slog.Logger {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

func startHTTPServer(addr string, apiHandler *api.APIHandler, logger *slog.Logger) *http.Server {
	server := &http.Server{
		Addr:         addr,
		Handler:      apiHandler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	return server
}

func waitForShutdown(
	logger *slog.Logger,
	httpServer *http.Server,
	metricsServer *http.Server,
	metricsCollector *metrics.MetricsCollector,
) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}

	if err := metricsCollector.Shutdown(ctx, metricsServer); err != nil {
		logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
	}
}
