package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"tickIndex/internal/index"
)

func runShow(cmd *cobra.Command, _ []string) error {
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
	records, err := ix.Records(ctx, key)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Printf("pool %s has no populated bitmap words\n", key)
		return nil
	}

	total := 0
	for _, rec := range records {
		lo, hi := rec.Bitmap.HalfBytes()
		count := rec.Bitmap.Count()
		total += count
		fmt.Printf("word %6d  ticks %3d  lo %s  hi %s\n",
			rec.Word, count, hexutil.Encode(lo[:]), hexutil.Encode(hi[:]))
	}
	fmt.Printf("pool %s: %d initialized ticks across %d words\n", key, total, len(records))
	return nil
}
