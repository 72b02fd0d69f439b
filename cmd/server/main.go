package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/focusroom/focusroom/internal/app"
	"github.com/focusroom/focusroom/internal/config"
	"github.com/focusroom/focusroom/internal/log"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	bootLogger := log.New("info")

	cfg, path, err := config.Load(bootLogger, *configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	logger := log.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting focusroom server")
	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
