package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pulse/logger"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      logger.Config  `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	MaxConns        int32  `mapstructure:"max_conns"`
	MinConns        int32  `mapstructure:"min_conns"`
	ConnTimeoutSecs int    `mapstructure:"conn_timeout_secs"`
}

// Load reads configuration from the environment (PULSE_ prefix), with a
// .env file loaded first if present. DATABASE_URL is required.
func Load() (*Config, error) {
	godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_timeout_secs", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")

	// DATABASE_URL without the prefix is the conventional name; accept both.
	v.BindEnv("database.url", "PULSE_DATABASE_URL", "DATABASE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	return &cfg, nil
}
