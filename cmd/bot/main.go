package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shuhratov/loyihabot/internal/broadcast"
	"github.com/shuhratov/loyihabot/internal/config"
	"github.com/shuhratov/loyihabot/internal/domain/deadline"
	"github.com/shuhratov/loyihabot/internal/domain/plan"
	"github.com/shuhratov/loyihabot/internal/domain/report"
	"github.com/shuhratov/loyihabot/internal/ingest"
	"github.com/shuhratov/loyihabot/internal/nav"
	"github.com/shuhratov/loyihabot/internal/sheets"
	"github.com/shuhratov/loyihabot/internal/sqlite"
	"github.com/shuhratov/loyihabot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	recordRepo := sqlite.NewRecordRepository(db)
	planRepo := sqlite.NewPlanRepository(db)

	reportSvc := report.NewService(recordRepo, logger)
	deadlineSvc := deadline.NewService(recordRepo, logger)
	planSvc := plan.NewService(planRepo, logger)

	source, err := sheets.NewClient(ctx, cfg.Sheet.CredentialsFile, cfg.Sheet.SpreadsheetID, cfg.Sheet.ReadRange)
	if err != nil {
		logger.Error("failed to create sheets client", "error", err)
		os.Exit(1)
	}

	pipeline := ingest.NewPipeline(source, recordRepo, cfg.Sheet.Schema, logger)
	if err := pipeline.Run(ctx, time.Duration(cfg.Sheet.RefreshInterval)); err != nil {
		logger.Warn("starting without a fresh snapshot", "error", err)
	}

	sessions := nav.NewSessionStore()
	router := nav.NewRouter(reportSvc, deadlineSvc, planSvc, sessions, nav.Options{
		PageSize: cfg.Report.PageSize,
		MaxText:  cfg.Report.MaxText,
		Admins:   cfg.Telegram.Admins,
	}, logger)

	bot, err := telegram.New(cfg.Telegram.Token, router, cfg.Telegram.AllowedUsers, logger)
	if err != nil {
		logger.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Broadcast.Timezone)
	if err != nil {
		logger.Error("failed to load broadcast timezone", "error", err)
		os.Exit(1)
	}
	caster, err := broadcast.NewService(deadlineSvc, planSvc, bot,
		cfg.Broadcast.Recipients, cfg.Broadcast.At, loc, cfg.Report.MaxText, logger)
	if err != nil {
		logger.Error("failed to create broadcast service", "error", err)
		os.Exit(1)
	}
	caster.Run(ctx)

	if err := bot.Run(ctx); err != nil {
		logger.Error("bot error", "error", err)
		os.Exit(1)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
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
