package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tickIndex/internal/index"
	"tickIndex/internal/pool"
	"tickIndex/internal/tickbitmap"
)

func runNext(cmd *cobra.Command, _ []string) error {
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

	dir := tickbitmap.SearchRightExclusive
	if cfg.LTE {
		dir = tickbitmap.SearchLeftInclusive
	}

	ix := index.New(st, logger)

	var next int32
	var found bool
	if cfg.Across {
		p, err := pool.New(key, cfg.Spacing, logger)
		if err != nil {
			return err
		}
		next, found, err = p.NextPriceBoundary(ctx, ix, cfg.Tick, dir)
		if err != nil {
			return err
		}
	} else {
		next, found, err = ix.NextInitializedTick(ctx, key, cfg.Tick, cfg.Spacing, dir)
		if err != nil {
			return err
		}
	}

	if found {
		fmt.Printf("next initialized tick: %d (searching %s from %d)\n", next, dir, cfg.Tick)
	} else {
		fmt.Printf("no initialized tick found; window boundary: %d (searching %s from %d)\n", next, dir, cfg.Tick)
	}
	return nil
}
