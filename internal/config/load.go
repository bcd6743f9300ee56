package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// HomeDirName is the directory under the user's home holding lcx state.
const HomeDirName = ".lcx"

// HomeDir returns LCX_HOME when set, else ~/.lcx.
func HomeDir() (string, error) {
	if dir := os.Getenv("LCX_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, HomeDirName), nil
}

func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LCX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load reads configuration from path, or from ~/.lcx/config.yaml when path is empty
// and that file exists. A missing default file is not an error.
func Load(ctx context.Context, path string) (*Config, error) {
	v := newViperInstance()

	if path == "" {
		if home, err := HomeDir(); err == nil {
			candidate := filepath.Join(home, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("file", v.ConfigFileUsed()).
		Str("backend", cfg.Storage.Backend).
		Int("rollover_hour", cfg.RolloverHour).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
