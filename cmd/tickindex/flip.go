package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tickIndex/internal/index"
)

func runFlip(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	key, err := parsePoolKey(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ix := index.New(st, logger)
	if err := ix.FlipTick(ctx, key, cfg.Tick, cfg.Spacing); err != nil {
		return err
	}

	initialized, err := ix.IsTickInitialized(ctx, key, cfg.Tick, cfg.Spacing)
	if err != nil {
		return err
	}

	logger.Info("flip complete",
		zap.String("pool", key.String()),
		zap.Int32("tick", cfg.Tick),
		zap.Int32("spacing", cfg.Spacing),
		zap.Bool("initialized", initialized),
	)
	return nil
}
