package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tickIndex/internal/config"
	"tickIndex/internal/model"
	"tickIndex/internal/store"
	"tickIndex/internal/store/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "tickindex",
		Short:        "Concentrated-liquidity tick bitmap index",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("token0", "", "pool token0 address")
	root.PersistentFlags().String("token1", "", "pool token1 address")
	root.PersistentFlags().Uint32("fee", 0, "pool fee tier (hundredths of a bip)")
	root.PersistentFlags().Int32("spacing", 1, "pool tick spacing")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN (uses the JSON file store when empty)")
	root.PersistentFlags().String("data", "./data/tick_bitmaps.json", "JSON file store path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	flipCmd := &cobra.Command{
		Use:   "flip",
		Short: "Flip a tick's initialized bit",
		RunE:  runFlip,
	}
	flipCmd.Flags().Int32("tick", 0, "tick to flip")
	root.AddCommand(flipCmd)

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Find the next initialized tick",
		RunE:  runNext,
	}
	nextCmd.Flags().Int32("tick", 0, "tick to search from")
	nextCmd.Flags().Bool("lte", false, "search left (at or below the tick) instead of right")
	nextCmd.Flags().Bool("across", false, "continue the search across word boundaries")
	root.AddCommand(nextCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Dump a pool's populated bitmap words",
		RunE:  runShow,
	}
	root.AddCommand(showCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(cfgFile, cmd.Flags())
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func parsePoolKey(cfg config.Config) (model.PoolKey, error) {
	if !common.IsHexAddress(cfg.Token0) {
		return model.PoolKey{}, fmt.Errorf("invalid token0 address: %s", cfg.Token0)
	}
	if !common.IsHexAddress(cfg.Token1) {
		return model.PoolKey{}, fmt.Errorf("invalid token1 address: %s", cfg.Token1)
	}

	key := model.PoolKey{
		Token0: common.HexToAddress(cfg.Token0),
		Token1: common.HexToAddress(cfg.Token1),
		Fee:    cfg.Fee,
	}
	if err := key.Validate(); err != nil {
		return model.PoolKey{}, err
	}
	return key, nil
}

// openStore picks the record store backend: Postgres when a DSN is set,
// otherwise the local JSON file store.
func openStore(ctx context.Context, cfg config.Config) (store.Store, func(), error) {
	if cfg.PGDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return pg, pg.Close, nil
	}

	return store.NewFileStore(cfg.DataPath), func() {}, nil
}
