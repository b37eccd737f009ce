package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkbrush/cartoonize/config"
	"github.com/inkbrush/cartoonize/internal/engine"
	"github.com/inkbrush/cartoonize/internal/server"
	"github.com/inkbrush/cartoonize/internal/storage"
	"github.com/inkbrush/cartoonize/internal/style"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cartoonize %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("cartoonize - image to cartoon conversion service")
			fmt.Println()
			fmt.Println("Usage: cartoonize [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CARTOONIZE_ADDR                   HTTP listen address (default :8000)")
			fmt.Println("  CARTOONIZE_OUTPUT_DIR             Batch output directory (default outputs)")
			fmt.Println("  CARTOONIZE_MODEL_DIR              ONNX model directory for gocv builds")
			fmt.Println("  CARTOONIZE_MAX_UPLOAD_MB          Upload size cap (default 10)")
			fmt.Println("  CARTOONIZE_CLEANUP_MAX_AGE_HOURS  Output retention (default 24)")
			fmt.Println("  CARTOONIZE_LOG_LEVEL              debug, info, warn or error")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(cfg.LogLevel),
	})

	registry := style.NewRegistry()
	classical := engine.NewClassicalStylizer(registry)
	neural := engine.NewNeuralStylizer(engine.NewBackend(cfg.ModelDir), classical, registry)
	dispatcher := engine.NewDispatcher(registry, classical, neural)

	capability := neural.Capability()
	if capability.Available {
		logger.Info("neural backend available", "device", capability.Device)
	} else {
		logger.Info("neural backend unavailable, classical fallbacks active", "reason", capability.Reason)
	}

	store, err := storage.New(cfg.OutputDir, logger)
	if err != nil {
		logger.Fatal("failed to initialize output store", "err", err)
	}
	cleaner, err := store.ScheduleCleanup(cfg.CleanupMaxAge)
	if err != nil {
		logger.Fatal("failed to schedule cleanup", "err", err)
	}
	defer cleaner.Stop()

	srv := server.New(dispatcher, store, logger, server.Options{MaxUploadMB: cfg.MaxUploadMB})
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr, "version", Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
