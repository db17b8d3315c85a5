package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Token0   string
	Token1   string
	Fee      uint32
	Spacing  int32
	Tick     int32
	LTE      bool
	Across   bool
	PGDSN    string
	DataPath string
	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TICKINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("spacing", int32(1))
	v.SetDefault("data", "./data/tick_bitmaps.json")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Token0:   v.GetString("token0"),
		Token1:   v.GetString("token1"),
		Fee:      v.GetUint32("fee"),
		Spacing:  v.GetInt32("spacing"),
		Tick:     v.GetInt32("tick"),
		LTE:      v.GetBool("lte"),
		Across:   v.GetBool("across"),
		PGDSN:    v.GetString("pg-dsn"),
		DataPath: v.GetString("data"),
		LogLevel: v.GetString("log-level"),
	}

	return cfg, nil
}
