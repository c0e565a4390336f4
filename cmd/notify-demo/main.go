package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/notification-center/internal/config"
	"github.com/rovshanmuradov/notification-center/internal/logger"
	"github.com/rovshanmuradov/notification-center/internal/notify"
	"github.com/rovshanmuradov/notification-center/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	config.LoadEnvFiles(".env", ".env.local")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	debug := cfg.DebugEnabled()

	buffer, err := logger.NewBuffer(cfg.LogBufferSize, cfg.LogSpillFile)
	if err != nil {
		log.Fatalf("Failed to create log buffer: %v", err)
	}

	// The TUI owns the terminal, so the center logs into the buffer only.
	tuiLogger, err := logger.NewTUI(debug, buffer)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	consoleLogger, err := logger.New(logger.Options{Debug: debug})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = consoleLogger.Sync()
	}()

	center := notify.New(cfg.CenterOptions(tuiLogger)...)
	demo := ui.NewDemo(center, notify.MustEventID(cfg.DefaultEvent), tuiLogger)

	program := tea.NewProgram(
		ui.NewModel(rootCtx, demo, buffer),
		tea.WithAltScreen(),
		tea.WithContext(rootCtx),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		consoleLogger.Error("TUI application failed", zap.Error(err))
	}

	demo.Close()
	stats := center.Stats()
	if err := center.Close(); err != nil {
		consoleLogger.Error("Failed to close notification center", zap.Error(err))
	}
	if err := buffer.Close(); err != nil {
		consoleLogger.Error("Failed to close log buffer", zap.Error(err))
	}

	consoleLogger.Info("Notification demo finished",
		zap.String("event_id", cfg.DefaultEvent),
		zap.Uint64("events_sent", stats.EventsSent),
		zap.Uint64("deliveries", stats.Deliveries),
		zap.Uint64("events_posted", stats.EventsPosted),
		zap.Int("pending", stats.Pending))
}
