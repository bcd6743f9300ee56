// Package config provides layered configuration for lcx.
//
// Sources, highest precedence first:
//  1. CLI flags (applied by the caller on the returned Config)
//  2. Environment variables (LCX_* prefix, "." replaced by "_")
//  3. Config file (--config, else ~/.lcx/config.yaml when present)
//  4. Built-in defaults
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// Profile names the per-user document the snapshot is stored under.
	Profile string `yaml:"profile" mapstructure:"profile"`

	// StartingPoints is the HP of a freshly created snapshot.
	StartingPoints int `yaml:"starting_points" mapstructure:"starting_points"`

	// RolloverHour is the local hour (0..23) at which a new day begins.
	RolloverHour int `yaml:"rollover_hour" mapstructure:"rollover_hour"`

	// Timezone is an IANA zone name or "Local".
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// CatalogPath points at a YAML or JSON task catalog. Empty uses the built-in one.
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"`

	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// Storage backends.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
	BackendMemory = "memory"
)

type StorageConfig struct {
	// Backend is one of local, remote or memory.
	Backend string `yaml:"backend" mapstructure:"backend"`

	// CacheSize is the number of decoded snapshots kept in memory. 0 disables caching.
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`

	Local  LocalConfig  `yaml:"local" mapstructure:"local"`
	Remote RemoteConfig `yaml:"remote" mapstructure:"remote"`
}

type LocalConfig struct {
	// Path of the SQLite database. Empty means ~/.lcx/lcx.db.
	Path string `yaml:"path" mapstructure:"path"`
}

type RemoteConfig struct {
	Addr        string        `yaml:"addr" mapstructure:"addr"`
	Password    string        `yaml:"password" mapstructure:"password"`
	DB          int           `yaml:"db" mapstructure:"db"`
	KeyPrefix   string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`

	// FallbackLocal keeps working against the local database when Redis fails.
	FallbackLocal bool `yaml:"fallback_local" mapstructure:"fallback_local"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	EnableCORS   bool          `yaml:"enable_cors" mapstructure:"enable_cors"`
	Debug        bool          `yaml:"debug" mapstructure:"debug"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

type LogConfig struct {
	// Level is a zerolog level name. --verbose and --quiet take precedence.
	Level string `yaml:"level" mapstructure:"level"`

	// File is the rotating log file. Empty means ~/.lcx/logs/lcx.log, "-" disables it.
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}
