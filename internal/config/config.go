// Package config provides Viper-based configuration loading for the conquest
// combat engine and its command-line tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns on territory and encounter persistence.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the active-encounter snapshot store settings.
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	DB      int    `mapstructure:"db"`
	// SnapshotTTL bounds how long an abandoned encounter snapshot survives.
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the YAML catalog, the board layout and the Lua scripts.
type ContentConfig struct {
	CreaturesDir  string `mapstructure:"creatures_dir"`
	SpellsDir     string `mapstructure:"spells_dir"`
	LandsDir      string `mapstructure:"lands_dir"`
	EvolutionsDir string `mapstructure:"evolutions_dir"`
	BoardFile     string `mapstructure:"board_file"`
	PlayersFile   string `mapstructure:"players_file"`
	// ScriptsDir is optional; empty disables Lua defender hooks.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// CombatConfig holds engine settings.
type CombatConfig struct {
	// Seed selects a reproducible dice source; 0 uses crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// ScriptInstructionLimit caps Lua instructions per hook call; 0 uses the sandbox default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Content  ContentConfig  `mapstructure:"content"`
	Combat   CombatConfig   `mapstructure:"combat"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Redis.Enabled {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Combat.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("combat.script_instruction_limit must be >= 0, got %d", c.Combat.ScriptInstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.SnapshotTTL <= 0 {
		errs = append(errs, "redis.snapshot_ttl must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	required := []struct{ key, val string }{
		{"content.creatures_dir", c.CreaturesDir},
		{"content.spells_dir", c.SpellsDir},
		{"content.lands_dir", c.LandsDir},
		{"content.evolutions_dir", c.EvolutionsDir},
		{"content.board_file", c.BoardFile},
		{"content.players_file", c.PlayersFile},
	}
	for _, r := range required {
		if r.val == "" {
			errs = append(errs, r.key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with CONQUEST_ prefix
	v.SetEnvPrefix("CONQUEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "conquest")
	v.SetDefault("database.password", "conquest")
	v.SetDefault("database.name", "conquest")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.snapshot_ttl", "24h")

	v.SetDefault("content.creatures_dir", "content/creatures")
	v.SetDefault("content.spells_dir", "content/spells")
	v.SetDefault("content.lands_dir", "content/lands")
	v.SetDefault("content.evolutions_dir", "content/evolutions")
	v.SetDefault("content.board_file", "content/board.yaml")
	v.SetDefault("content.players_file", "content/players.yaml")
	v.SetDefault("content.scripts_dir", "")

	v.SetDefault("combat.seed", 0)
	v.SetDefault("combat.script_instruction_limit", 100000)
}
