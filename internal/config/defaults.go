package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultProfile matches the document id used before profiles were configurable.
const DefaultProfile = "default-user"

// DefaultConfig returns a Config holding the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Profile:        DefaultProfile,
		StartingPoints: 1000,
		RolloverHour:   6,
		Timezone:       "Local",
		Storage: StorageConfig{
			Backend:   BackendLocal,
			CacheSize: 64,
			Remote: RemoteConfig{
				Addr:          "localhost:6379",
				KeyPrefix:     "lcx",
				DialTimeout:   5 * time.Second,
				FallbackLocal: true,
			},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			EnableCORS:   true,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   true,
		},
	}
}

// setDefaults mirrors DefaultConfig on v. Keys must match the mapstructure tags.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("profile", d.Profile)
	v.SetDefault("starting_points", d.StartingPoints)
	v.SetDefault("rollover_hour", d.RolloverHour)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("catalog_path", d.CatalogPath)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.cache_size", d.Storage.CacheSize)
	v.SetDefault("storage.local.path", d.Storage.Local.Path)
	v.SetDefault("storage.remote.addr", d.Storage.Remote.Addr)
	v.SetDefault("storage.remote.password", d.Storage.Remote.Password)
	v.SetDefault("storage.remote.db", d.Storage.Remote.DB)
	v.SetDefault("storage.remote.key_prefix", d.Storage.Remote.KeyPrefix)
	v.SetDefault("storage.remote.dial_timeout", d.Storage.Remote.DialTimeout.String())
	v.SetDefault("storage.remote.fallback_local", d.Storage.Remote.FallbackLocal)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.enable_cors", d.Server.EnableCORS)
	v.SetDefault("server.debug", d.Server.Debug)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}
